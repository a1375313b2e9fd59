package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
	"bilibili-favorites-service/internal/core/port/usecases_port"
)

// FavoritesHandler serves the favorite-list and video routes.
type FavoritesHandler struct {
	videoListUC  usecases_port.GetVideoListUseCasePort
	pageUC       usecases_port.GetPageUseCasePort
	videoPagesUC usecases_port.GetVideoPagesUseCasePort
}

func NewFavoritesHandler(
	videoListUC usecases_port.GetVideoListUseCasePort,
	pageUC usecases_port.GetPageUseCasePort,
	videoPagesUC usecases_port.GetVideoPagesUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		videoListUC:  videoListUC,
		pageUC:       pageUC,
		videoPagesUC: videoPagesUC,
	}
}

// Ping handles GET /ping
func (h *FavoritesHandler) Ping(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, PingResponse{Msg: "pong"})
}

// GetVideoList handles GET /favorite/get-video-list/{fid}
func (h *FavoritesHandler) GetVideoList(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "GetVideoList",
		"fid":     fid,
	})

	list, err := h.videoListUC.Execute(r.Context(), fid)
	if err != nil {
		h.writeError(w, logger, err, "Failed to retrieve favorite list")
		return
	}

	RespondWithJSON(w, http.StatusOK, VideoListResponse{
		FID:       list.FID,
		Info:      list.Info,
		IDsList:   list.IDsList,
		FirstPage: list.FirstPage,
	})
}

// GetPage handles GET /favorite/get-page/{fid}/{page}
func (h *FavoritesHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	fid := chi.URLParam(r, "fid")
	pageStr := chi.URLParam(r, "page")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "GetPage",
		"fid":     fid,
		"page":    pageStr,
	})

	page, err := strconv.Atoi(pageStr)
	if err != nil {
		logger.Warn("Invalid page in URL", port.Fields{"provided_page": pageStr})
		WriteJSONError(w, http.StatusBadRequest, domain.ErrInvalidPage.Error())
		return
	}

	content, err := h.pageUC.Execute(r.Context(), fid, page)
	if err != nil {
		h.writeError(w, logger, err, "Failed to retrieve favorite list page")
		return
	}

	RespondWithJSON(w, http.StatusOK, PageResponse{
		FID:     fid,
		Page:    content.Page,
		Medias:  content.Medias,
		HasMore: content.HasMore,
	})
}

// GetVideoPages handles GET /video/get-pages/{bvid}
func (h *FavoritesHandler) GetVideoPages(w http.ResponseWriter, r *http.Request) {
	bvid := chi.URLParam(r, "bvid")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler": "GetVideoPages",
		"bvid":    bvid,
	})

	pages, err := h.videoPagesUC.Execute(r.Context(), bvid)
	if err != nil {
		h.writeError(w, logger, err, "Failed to retrieve video pages")
		return
	}

	response := make([]VideoPageResponse, len(pages))
	for i, p := range pages {
		response[i] = VideoPageResponse{
			Page:     p.Page,
			Title:    p.Title,
			Duration: p.Duration,
			Cover:    p.Cover,
		}
	}
	RespondWithJSON(w, http.StatusOK, response)
}

// writeError maps use case errors to a status: bad input 400, upstream 502, anything else 500.
func (h *FavoritesHandler) writeError(w http.ResponseWriter, logger port.LoggerPort, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrInvalidFavoriteID),
		errors.Is(err, domain.ErrInvalidPage),
		errors.Is(err, domain.ErrInvalidBVID):
		logger.Warn("Rejected request with invalid parameters", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		logger.Error("Upstream call failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, message)
	default:
		logger.Error("Use case failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, message)
	}
}
