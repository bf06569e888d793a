package port

import (
	"context"
	"image"

	"pupil-tracker/internal/domain/entity"
)

// PupilDetector интерфейс детектора зрачка
type PupilDetector interface {
	// Track ищет зрачок в одном кадре. Отсутствие зрачка передаётся через
	// TrackingResult.Found, ошибка только для непригодного входа
	Track(ctx context.Context, frame image.Image, sink DebugSink) (*entity.TrackingResult, error)
}
