package bilibili

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageProxy(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bfs/archive/cover.jpg", r.URL.Path)
		assert.Equal(t, referer, r.Header.Get("Referer"))
		assert.Empty(t, r.Header.Get("Cookie"))
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer cdn.Close()

	proxy := NewImageProxy([]string{"127.0.0.1"})

	req := httptest.NewRequest(http.MethodGet, "/image-proxy?url="+url.QueryEscape(cdn.URL+"/bfs/archive/cover.jpg"), nil)
	req.Header.Set("Cookie", "session=abc")
	rr := httptest.NewRecorder()
	proxy.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", rr.Body.String())
}

func TestImageProxyDropsCDNCORSHeaders(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		w.Header().Set("Cache-Control", "max-age=600")
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer cdn.Close()

	rr := httptest.NewRecorder()
	NewImageProxy([]string{"127.0.0.1"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/image-proxy?url="+url.QueryEscape(cdn.URL+"/a.png"), nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Values("Access-Control-Allow-Origin"))
	assert.Empty(t, rr.Header().Values("Access-Control-Expose-Headers"))
	assert.Equal(t, "max-age=600", rr.Header().Get("Cache-Control"))
}

func TestImageProxyRejects(t *testing.T) {
	cases := map[string]struct {
		target string
		status int
	}{
		"Missing":     {target: "", status: http.StatusBadRequest},
		"Relative":    {target: "/bfs/a.jpg", status: http.StatusBadRequest},
		"FileScheme":  {target: "file:///etc/passwd", status: http.StatusBadRequest},
		"ForeignHost": {target: "https://example.com/a.jpg", status: http.StatusForbidden},
		"LookAlike":   {target: "https://evilhdslb.com/a.jpg", status: http.StatusForbidden},
	}

	proxy := NewImageProxy(nil)
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			proxy.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/image-proxy?url="+url.QueryEscape(c.target), nil))
			assert.Equal(t, c.status, rr.Code)
		})
	}
}

func TestImageProxyAllowsCDNSubdomains(t *testing.T) {
	proxy := NewImageProxy(nil)
	assert.True(t, proxy.allowed("i0.hdslb.com"))
	assert.True(t, proxy.allowed("HDSLB.com"))
	assert.False(t, proxy.allowed("hdslb.com.evil.test"))
}

func TestImageProxyUpstreamDown(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	address := cdn.URL
	cdn.Close()

	rr := httptest.NewRecorder()
	NewImageProxy([]string{"127.0.0.1"}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/image-proxy?url="+url.QueryEscape(address+"/a.jpg"), nil))
	assert.Equal(t, http.StatusBadGateway, rr.Code)
}
