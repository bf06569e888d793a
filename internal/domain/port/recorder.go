package port

import (
	"time"

	"pupil-tracker/internal/domain/entity"
)

// TrackingRecorder интерфейс сбора статистики по кадрам
type TrackingRecorder interface {
	Observe(streamID string, res *entity.TrackingResult, elapsed time.Duration)
}
