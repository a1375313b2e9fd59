package usecase

import (
	"context"
	"fmt"
	"strings"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
)

type GetVideoPagesUseCase struct {
	videos port.VideoPort
}

func NewGetVideoPagesUseCase(videos port.VideoPort) *GetVideoPagesUseCase {
	return &GetVideoPagesUseCase{videos: videos}
}

func (uc *GetVideoPagesUseCase) Execute(ctx context.Context, bvid string) ([]domain.VideoPage, error) {
	bvid = strings.TrimSpace(bvid)
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetVideoPages",
		"bvid":     bvid,
	})

	if bvid == "" {
		return nil, domain.ErrInvalidBVID
	}

	ucLogger.Info("Use case started", nil)

	pages, err := uc.videos.VideoPages(ctx, bvid)
	if err != nil {
		ucLogger.Error("Failed to get video pages", err, nil)
		return nil, fmt.Errorf("failed to get video pages: %w", err)
	}
	if pages == nil {
		pages = []domain.VideoPage{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"pages": len(pages)})
	return pages, nil
}
