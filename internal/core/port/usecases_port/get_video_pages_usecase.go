package usecases_port

import (
	"context"

	"bilibili-favorites-service/internal/core/domain"
)

type GetVideoPagesUseCasePort interface {
	Execute(ctx context.Context, bvid string) ([]domain.VideoPage, error)
}
