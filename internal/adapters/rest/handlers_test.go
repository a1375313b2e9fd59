package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilibili-favorites-service/internal/adapters/bilibili"
	logger_adapter "bilibili-favorites-service/internal/adapters/logger"
	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/usecase"
)

// fakeUpstream answers like the platform's web API, keyed by path.
type fakeUpstream struct {
	responses map[string]string
	status    int
	hits      int32
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&f.hits, 1)
	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}
	body, ok := f.responses[r.URL.Path]
	if !ok {
		body = `{"code":-404,"message":"not found"}`
	}
	w.Write([]byte(body))
}

func newTestRouter(t *testing.T, upstream *fakeUpstream) http.Handler {
	t.Helper()
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client, err := bilibili.NewClient(bilibili.Config{BaseURL: server.URL})
	require.NoError(t, err)

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	handlers := NewFavoritesHandler(
		usecase.NewGetVideoListUseCase(client),
		usecase.NewGetPageUseCase(client),
		usecase.NewGetVideoPagesUseCase(client),
	)
	return NewRouter(handlers, bilibili.NewImageProxy([]string{"127.0.0.1"}), logger, []string{"http://localhost:7630"})
}

func doGet(handler http.Handler, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestPing(t *testing.T) {
	router := newTestRouter(t, &fakeUpstream{})

	rr := doGet(router, "/ping")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"msg":"pong"}`, rr.Body.String())
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestGetVideoList(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/folder/info":   `{"code":0,"data":{"id":3069410473,"title":"default","media_count":2}}`,
		"/x/v3/fav/resource/list": `{"code":0,"data":{"info":{"id":3069410473},"medias":[{"bvid":"BV1"},{"bvid":"BV2"}],"has_more":false}}`,
		"/x/v3/fav/resource/ids":  `{"code":0,"data":[{"id":1,"type":2,"bvid":"BV1"},{"id":2,"type":2,"bvid":"BV2"}]}`,
	}}
	router := newTestRouter(t, upstream)

	for _, path := range []string{
		"/favorite/get-video-list/3069410473",
		"/bilibili/favorite/get-video-list/3069410473",
	} {
		rr := doGet(router, path)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{
			"fid": "3069410473",
			"info": {"id":3069410473,"title":"default","media_count":2},
			"ids_list": [{"id":1,"type":2,"bvid":"BV1"},{"id":2,"type":2,"bvid":"BV2"}],
			"first_page": {"info":{"id":3069410473},"medias":[{"bvid":"BV1"},{"bvid":"BV2"}],"has_more":false}
		}`, rr.Body.String())
	}
	assert.Equal(t, int32(6), atomic.LoadInt32(&upstream.hits))
}

func TestGetVideoListEchoesFIDAsReceived(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/folder/info":   `{"code":0,"data":{}}`,
		"/x/v3/fav/resource/list": `{"code":0,"data":{}}`,
		"/x/v3/fav/resource/ids":  `{"code":0,"data":[]}`,
	}}

	rr := doGet(newTestRouter(t, upstream), "/favorite/get-video-list/0042")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"fid":"0042"`)
}

func TestNonIntegerFIDIsRejected(t *testing.T) {
	upstream := &fakeUpstream{}
	router := newTestRouter(t, upstream)

	for _, path := range []string{
		"/favorite/get-video-list/abc",
		"/favorite/get-page/abc/1",
		"/bilibili/favorite/get-page/1.5/1",
	} {
		rr := doGet(router, path)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
		assert.Contains(t, rr.Body.String(), `"error"`, path)
	}
	assert.Zero(t, atomic.LoadInt32(&upstream.hits))
}

func TestNonIntegerPageIsRejected(t *testing.T) {
	rr := doGet(newTestRouter(t, &fakeUpstream{}), "/favorite/get-page/1/next")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"error":"page must be an integer"}`, rr.Body.String())
}

func TestGetPage(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/resource/list": `{"code":0,"data":{"info":{},"medias":[{"bvid":"BV3"}],"has_more":true}}`,
	}}

	rr := doGet(newTestRouter(t, upstream), "/favorite/get-page/77/2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"fid":"77","page":2,"medias":[{"bvid":"BV3"}],"has_more":true}`, rr.Body.String())
}

func TestGetPageDefaultsMissingFields(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/resource/list": `{"code":0,"data":{"info":{}}}`,
	}}

	rr := doGet(newTestRouter(t, upstream), "/favorite/get-page/77/9")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"fid":"77","page":9,"medias":[],"has_more":false}`, rr.Body.String())
}

func TestGetPageIsIdempotent(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/resource/list": `{"code":0,"data":{"medias":[{"bvid":"BV1","title":"a"}],"has_more":true}}`,
	}}
	router := newTestRouter(t, upstream)

	first := doGet(router, "/favorite/get-page/5/1")
	second := doGet(router, "/favorite/get-page/5/1")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestUpstreamFailuresAreBadGateway(t *testing.T) {
	cases := map[string]*fakeUpstream{
		"ResponseCode": {responses: map[string]string{}},
		"HTTPStatus":   {status: http.StatusPreconditionFailed},
	}

	for name, upstream := range cases {
		t.Run(name, func(t *testing.T) {
			router := newTestRouter(t, upstream)

			rr := doGet(router, "/favorite/get-video-list/1")
			assert.Equal(t, http.StatusBadGateway, rr.Code)
			assert.JSONEq(t, `{"error":"Failed to retrieve favorite list"}`, rr.Body.String())

			rr = doGet(router, "/favorite/get-page/1/1")
			assert.Equal(t, http.StatusBadGateway, rr.Code)
		})
	}
}

func TestGetVideoPages(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/player/pagelist": `{"code":0,"data":[{"cid":10,"page":1,"part":"P1","duration":120,"first_frame":"http://i0.hdslb.com/1.jpg"}]}`,
	}}

	rr := doGet(newTestRouter(t, upstream), "/bilibili/video/get-pages/BV1xx411c7mD")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"page":1,"title":"P1","duration":120,"cover":"http://i0.hdslb.com/1.jpg"}]`, rr.Body.String())
}

func TestTraceIDHeader(t *testing.T) {
	router := newTestRouter(t, &fakeUpstream{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(contextkeys.TraceIDHeader, "6f1c2d9e-5b8a-4c3e-9f10-2a7b3c4d5e6f")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "6f1c2d9e-5b8a-4c3e-9f10-2a7b3c4d5e6f", rr.Header().Get(contextkeys.TraceIDHeader))

	rr = doGet(router, "/ping")
	assert.NotEmpty(t, rr.Header().Get(contextkeys.TraceIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, &fakeUpstream{})

	req := httptest.NewRequest(http.MethodOptions, "/favorite/get-page/1/1", nil)
	req.Header.Set("Origin", "http://localhost:7630")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:7630", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestImageProxyRouteKeepsImageContentType(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		w.Write([]byte("webp"))
	}))
	defer cdn.Close()

	rr := doGet(newTestRouter(t, &fakeUpstream{}), "/image-proxy?url="+url.QueryEscape(cdn.URL+"/bfs/face/a.webp"))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"image/webp"}, rr.Header().Values("Content-Type"))
	assert.Equal(t, "webp", rr.Body.String())
}

func TestContentPageShapeDriftIsPassedThrough(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/folder/info":   `{"code":0,"data":{"id":1}}`,
		"/x/v3/fav/resource/list": `{"code":0,"data":{"medias":{},"has_more":1}}`,
		"/x/v3/fav/resource/ids":  `{"code":0,"data":[]}`,
	}}
	router := newTestRouter(t, upstream)

	rr := doGet(router, "/favorite/get-video-list/1")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{
		"fid": "1",
		"info": {"id":1},
		"ids_list": [],
		"first_page": {"medias":{},"has_more":1}
	}`, rr.Body.String())

	rr = doGet(router, "/favorite/get-page/1/2")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"fid":"1","page":2,"medias":[],"has_more":false}`, rr.Body.String())
}

func TestGetPageBelowOneEchoesFetchedPage(t *testing.T) {
	var pn string
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/resource/list": `{"code":0,"data":{"medias":[{"a":1}],"has_more":false}}`,
	}}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pn = r.URL.Query().Get("pn")
		upstream.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := bilibili.NewClient(bilibili.Config{BaseURL: server.URL})
	require.NoError(t, err)
	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	router := NewRouter(NewFavoritesHandler(
		usecase.NewGetVideoListUseCase(client),
		usecase.NewGetPageUseCase(client),
		usecase.NewGetVideoPagesUseCase(client),
	), nil, logger, nil)

	for _, path := range []string{"/favorite/get-page/1/0", "/favorite/get-page/1/-4"} {
		rr := doGet(router, path)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, `{"fid":"1","page":1,"medias":[{"a":1}],"has_more":false}`, rr.Body.String(), path)
		assert.Equal(t, "1", pn, path)
	}
}

func TestGetVideoListFailsOnContentIDs(t *testing.T) {
	upstream := &fakeUpstream{responses: map[string]string{
		"/x/v3/fav/folder/info":   `{"code":0,"data":{"id":1}}`,
		"/x/v3/fav/resource/list": `{"code":0,"data":{"medias":[],"has_more":false}}`,
		"/x/v3/fav/resource/ids":  `{"code":-403,"message":"access denied"}`,
	}}

	rr := doGet(newTestRouter(t, upstream), "/favorite/get-video-list/1")
	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.JSONEq(t, `{"error":"Failed to retrieve favorite list"}`, rr.Body.String())
	assert.Equal(t, int32(3), atomic.LoadInt32(&upstream.hits))
}

type panickingVideoPages struct{}

func (panickingVideoPages) Execute(ctx context.Context, bvid string) ([]domain.VideoPage, error) {
	panic("unexpected upstream state")
}

func TestPanicIsInternalServerError(t *testing.T) {
	client, err := bilibili.NewClient(bilibili.Config{})
	require.NoError(t, err)

	logger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{Writer: io.Discard})
	handlers := NewFavoritesHandler(
		usecase.NewGetVideoListUseCase(client),
		usecase.NewGetPageUseCase(client),
		panickingVideoPages{},
	)
	router := NewRouter(handlers, nil, logger, nil)

	rr := doGet(router, "/video/get-pages/BV1")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	rr = doGet(router, "/ping")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestImageProxyRouteHasSingleCORSOrigin(t *testing.T) {
	cdn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg"))
	}))
	defer cdn.Close()

	req := httptest.NewRequest(http.MethodGet, "/image-proxy?url="+url.QueryEscape(cdn.URL+"/bfs/a.jpg"), nil)
	req.Header.Set("Origin", "http://localhost:7630")
	rr := httptest.NewRecorder()
	newTestRouter(t, &fakeUpstream{}).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"http://localhost:7630"}, rr.Header().Values("Access-Control-Allow-Origin"))
}
