package app

import (
	"context"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

type StreamService struct {
	repo port.StreamRepository
}

func NewStreamService(repo port.StreamRepository) *StreamService {
	return &StreamService{repo: repo}
}

func (s *StreamService) Get(ctx context.Context, streamID string) (*entity.Stream, error) {
	return s.repo.Get(ctx, streamID)
}

func (s *StreamService) List(ctx context.Context) ([]*entity.Stream, error) {
	return s.repo.List(ctx)
}

// Observe применяет результат трекинга к потоку и сохраняет его.
func (s *StreamService) Observe(ctx context.Context, streamID string, res *entity.TrackingResult) (*entity.Stream, error) {
	_, stream, err := s.observe(ctx, streamID, res)
	return stream, err
}

// observe также возвращает состояние потока до этого кадра.
func (s *StreamService) observe(ctx context.Context, streamID string, res *entity.TrackingResult) (entity.StreamState, *entity.Stream, error) {
	var prev entity.StreamState
	stream, err := s.repo.Update(ctx, streamID, func(st *entity.Stream) {
		prev = st.State
		st.Observe(res)
	})
	if err != nil {
		return "", nil, err
	}
	return prev, stream, nil
}

// Reset сбрасывает историю потока, например после сдвига камеры.
func (s *StreamService) Reset(ctx context.Context, streamID string) (*entity.Stream, error) {
	return s.repo.Update(ctx, streamID, func(st *entity.Stream) {
		st.Reset()
	})
}

// LastEllipse возвращает последний удачный эллипс потока. Он может быть
// старше последнего кадра. ok == false, если удачных кадров не было.
func (s *StreamService) LastEllipse(ctx context.Context, streamID string) (entity.Ellipse, bool, error) {
	stream, err := s.repo.Get(ctx, streamID)
	if err != nil {
		return entity.Ellipse{}, false, err
	}
	return stream.Ellipse, stream.HasEllipse, nil
}
