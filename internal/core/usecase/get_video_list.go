package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"bilibili-favorites-service/internal/contextkeys"
	"bilibili-favorites-service/internal/core/domain"
	"bilibili-favorites-service/internal/core/port"
)

type GetVideoListUseCase struct {
	favorites port.FavoriteListPort
}

func NewGetVideoListUseCase(favorites port.FavoriteListPort) *GetVideoListUseCase {
	return &GetVideoListUseCase{favorites: favorites}
}

// Execute loads list info, the first page and all content ids, one call after another.
// The first failure aborts the whole operation.
func (uc *GetVideoListUseCase) Execute(ctx context.Context, fid string) (*domain.VideoList, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetVideoList",
		"fid":      fid,
	})

	mediaID, err := domain.ParseFavoriteListID(fid)
	if err != nil {
		ucLogger.Warn("Rejected non-integer favorite list id", nil)
		return nil, err
	}

	ucLogger.Info("Use case started", nil)
	handle := uc.favorites.FavoriteList(int64(mediaID))

	info, err := handle.GetInfo(ctx)
	if err != nil {
		ucLogger.Error("Failed to get favorite list info", err, nil)
		return nil, fmt.Errorf("failed to get favorite list info: %w", err)
	}

	firstPage, err := handle.GetContent(ctx, 1)
	if err != nil {
		ucLogger.Error("Failed to get first page of favorite list", err, nil)
		return nil, fmt.Errorf("failed to get first page: %w", err)
	}

	idsList, err := handle.GetContentIDsInfo(ctx)
	if err != nil {
		ucLogger.Error("Failed to get content ids of favorite list", err, nil)
		return nil, fmt.Errorf("failed to get content ids: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"medias_on_first_page": len(firstPage.Medias),
	})
	return &domain.VideoList{
		FID:       fid,
		Info:      orNull(info),
		IDsList:   orNull(idsList),
		FirstPage: orNull(firstPage.Raw),
	}, nil
}

// orNull keeps an absent upstream payload encodable as JSON null.
func orNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}
