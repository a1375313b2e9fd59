package bilibili

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/port"
)

// DefaultImageHosts - the platform's image CDN. Subdomains (i0., i1., ...) are allowed too.
var DefaultImageHosts = []string{"hdslb.com"}

// ImageProxy streams covers and avatars from the image CDN. The CDN rejects
// hotlinked requests, so the browser cannot load them directly from the web UI.
type ImageProxy struct {
	allowedHosts []string
	transport    http.RoundTripper
}

func NewImageProxy(allowedHosts []string) *ImageProxy {
	if len(allowedHosts) == 0 {
		allowedHosts = DefaultImageHosts
	}
	return &ImageProxy{allowedHosts: allowedHosts, transport: http.DefaultTransport}
}

func (p *ImageProxy) allowed(host string) bool {
	host = strings.ToLower(host)
	for _, h := range p.allowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ServeHTTP handles GET /image-proxy?url=<image url>.
func (p *ImageProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ImageProxy"})

	raw := r.URL.Query().Get("url")
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}
	target, err := url.Parse(raw)
	if err != nil || raw == "" || (target.Scheme != "http" && target.Scheme != "https") {
		writeProxyError(w, http.StatusBadRequest, "url must be an absolute http(s) url")
		return
	}
	if !p.allowed(target.Hostname()) {
		logger.Warn("Refused to proxy image from foreign host", port.Fields{"host": target.Host})
		writeProxyError(w, http.StatusForbidden, "host is not allowed")
		return
	}

	proxy := &httputil.ReverseProxy{
		Transport: p.transport,
		Director: func(req *http.Request) {
			u := *target
			req.URL = &u
			req.Host = target.Host

			req.Header.Del("Cookie")
			req.Header.Del("Origin")
			req.Header.Set("User-Agent", userAgent)
			req.Header.Set("Referer", referer)
		},
		ModifyResponse: stripCORSHeaders,
		ErrorHandler: func(w http.ResponseWriter, req *http.Request, err error) {
			logger.Error("Image proxy request failed", err, port.Fields{"url": target.String()})
			writeProxyError(w, http.StatusBadGateway, "failed to fetch image")
		},
	}
	proxy.ServeHTTP(w, r)
}

// stripCORSHeaders drops the CDN's CORS headers; the router's cors middleware owns them.
func stripCORSHeaders(resp *http.Response) error {
	for name := range resp.Header {
		if strings.HasPrefix(name, "Access-Control-") {
			resp.Header.Del(name)
		}
	}
	return nil
}

func writeProxyError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
