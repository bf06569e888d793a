package vision

import (
	"errors"
	"fmt"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

var (
	ErrEmptyFrame        = errors.New("empty frame")
	ErrOpenCVUnavailable = errors.New("gocv build tag is not enabled")
)

// PupilTracker ищет зрачок по маскам из гистограммы, рёбрам Canny и
// эллипсу по методу наименьших квадратов. Состояния между кадрами нет,
// один трекер можно вызывать из нескольких горутин.
type PupilTracker struct {
	cfg entity.TrackerConfig
}

// NewPupilTracker проверяет cfg и создаёт трекер.
func NewPupilTracker(cfg entity.TrackerConfig) (*PupilTracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tracker config: %w", err)
	}
	return &PupilTracker{cfg: cfg}, nil
}

// Config возвращает настройки трекера.
func (t *PupilTracker) Config() entity.TrackerConfig {
	return t.cfg
}

var _ port.PupilDetector = (*PupilTracker)(nil)
