package usecases_port

import (
	"context"

	"bilibili-favorites-service/internal/core/domain"
)

type GetPageUseCasePort interface {
	// Execute returns one page of the favorite list fid. Missing medias/has_more are defaulted.
	Execute(ctx context.Context, fid string, page int) (*domain.ContentPage, error)
}
