package usecases_port

import (
	"context"

	"bilibili-favorites-service/internal/core/domain"
)

type GetVideoListUseCasePort interface {
	Execute(ctx context.Context, fid string) (*domain.VideoList, error)
}
