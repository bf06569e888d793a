package storage

import (
	"context"
	"sort"
	"sync"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

// MemoryStreamRepository in-memory хранилище потоков, теряется при выходе
type MemoryStreamRepository struct {
	mu      sync.RWMutex
	streams map[string]*entity.Stream
}

// NewMemoryStreamRepository создаёт новое in-memory хранилище
func NewMemoryStreamRepository() *MemoryStreamRepository {
	return &MemoryStreamRepository{
		streams: make(map[string]*entity.Stream),
	}
}

// Get возвращает копию потока, создаёт новый если не найден
func (r *MemoryStreamRepository) Get(ctx context.Context, streamID string) (*entity.Stream, error) {
	r.mu.RLock()
	stream, exists := r.streams[streamID]
	r.mu.RUnlock()

	if exists {
		cp := *stream
		return &cp, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Поток мог появиться, пока мы ждали блокировку
	if stream, exists := r.streams[streamID]; exists {
		cp := *stream
		return &cp, nil
	}
	newStream := entity.NewStream(streamID)
	r.streams[streamID] = newStream
	cp := *newStream
	return &cp, nil
}

// Update применяет fn под блокировкой записи и сохраняет результат
func (r *MemoryStreamRepository) Update(ctx context.Context, streamID string, fn func(*entity.Stream)) (*entity.Stream, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stream, exists := r.streams[streamID]
	if !exists {
		stream = entity.NewStream(streamID)
	}
	cp := *stream
	fn(&cp)
	cp.ID = streamID
	r.streams[streamID] = &cp

	out := cp
	return &out, nil
}

// List возвращает копии всех потоков, отсортированные по id
func (r *MemoryStreamRepository) List(ctx context.Context) ([]*entity.Stream, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Stream, 0, len(r.streams))
	for _, s := range r.streams {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Проверка реализации интерфейса
var _ port.StreamRepository = (*MemoryStreamRepository)(nil)
