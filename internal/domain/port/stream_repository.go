package port

import (
	"context"

	"pupil-tracker/internal/domain/entity"
)

// StreamRepository интерфейс хранилища потоков
type StreamRepository interface {
	// Get возвращает поток по ID, создаёт новый если не найден
	Get(ctx context.Context, streamID string) (*entity.Stream, error)

	// Update атомарно применяет fn к потоку (создаёт его при отсутствии)
	// и возвращает копию нового состояния
	Update(ctx context.Context, streamID string, fn func(*entity.Stream)) (*entity.Stream, error)

	// List возвращает все потоки, отсортированные по ID
	List(ctx context.Context) ([]*entity.Stream, error)
}
