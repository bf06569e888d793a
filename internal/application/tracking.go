package app

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

type TrackingService struct {
	streams  *StreamService
	detector port.PupilDetector
	recorder port.TrackingRecorder
	debug    port.DebugSinkFactory

	mu  sync.Mutex
	seq map[string]int // номер кадра для debug, растёт на каждый вызов
}

// TrackingOutput содержит результат кадра и состояние потока после него.
type TrackingOutput struct {
	Result *entity.TrackingResult
	Stream *entity.Stream
}

// NewTrackingService создаёт сервис трекинга. recorder и debug могут быть nil.
func NewTrackingService(streams *StreamService, detector port.PupilDetector, recorder port.TrackingRecorder, debug port.DebugSinkFactory) *TrackingService {
	return &TrackingService{
		streams:  streams,
		detector: detector,
		recorder: recorder,
		debug:    debug,
		seq:      make(map[string]int),
	}
}

// ProcessFrame ищет зрачок в одном кадре потока. Кадр без зрачка не ошибка:
// в результате Found == false, а поток сохраняет прежний эллипс.
func (s *TrackingService) ProcessFrame(ctx context.Context, streamID string, frame image.Image) (*TrackingOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	var sink port.DebugSink
	if s.debug != nil {
		sink = s.debug.ForFrame(streamID, s.nextSeq(streamID))
	}

	start := time.Now()
	result, err := s.detector.Track(ctx, frame, sink)
	if s.recorder != nil {
		s.recorder.Observe(streamID, result, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	prev, stream, err := s.streams.observe(ctx, streamID, result)
	if err != nil {
		return nil, err
	}

	if prev != stream.State {
		switch stream.State {
		case entity.StateTracking:
			log.Printf("stream %s: pupil acquired at %v", streamID, stream.Ellipse.Center)
		case entity.StateLost:
			log.Printf("stream %s: pupil lost, keeping last ellipse", streamID)
		}
	}

	return &TrackingOutput{Result: result, Stream: stream}, nil
}

// nextSeq выдаёт следующий номер кадра потока, включая кадры с ошибкой,
// чтобы debug-файлы не перезаписывались.
func (s *TrackingService) nextSeq(streamID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[streamID]++
	return s.seq[streamID]
}
