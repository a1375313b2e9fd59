package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
)

type GetPageUseCase struct {
	favorites port.FavoriteListPort
}

func NewGetPageUseCase(favorites port.FavoriteListPort) *GetPageUseCase {
	return &GetPageUseCase{favorites: favorites}
}

func (uc *GetPageUseCase) Execute(ctx context.Context, fid string, page int) (*domain.ContentPage, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetPage",
		"fid":      fid,
		"page":     page,
	})

	mediaID, err := domain.ParseFavoriteListID(fid)
	if err != nil {
		ucLogger.Warn("Rejected non-integer favorite list id", nil)
		return nil, err
	}

	ucLogger.Info("Use case started", nil)

	content, err := uc.favorites.FavoriteList(int64(mediaID)).GetContent(ctx, page)
	if err != nil {
		ucLogger.Error("Failed to get page of favorite list", err, nil)
		return nil, fmt.Errorf("failed to get page %d: %w", page, err)
	}

	// Pages start at 1; the response echoes the page that was actually fetched.
	if content.Page < 1 {
		content.Page = max(page, 1)
	}

	// The upstream sends medias: null for an empty list and may drop has_more.
	if content.Medias == nil {
		content.Medias = []json.RawMessage{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"medias_on_page": len(content.Medias),
		"has_more":       content.HasMore,
	})
	return content, nil
}
