package port

import (
	"image"

	"pupil-tracker/internal/domain/entity"
)

// DebugSink интерфейс приёмника промежуточных изображений трекинга.
// Реализация не должна надолго блокировать трекер и не может его сломать
type DebugSink interface {
	// Image получает именованное изображение, например маску или карту рёбер
	Image(name string, img image.Image)

	// Histogram получает гистограмму яркости и найденные в ней пики
	Histogram(name string, hist *entity.Histogram, spikes entity.Spikes)
}

// DebugSinkFactory выдаёт отдельный sink на каждый кадр
type DebugSinkFactory interface {
	ForFrame(streamID string, seq int) DebugSink
}
