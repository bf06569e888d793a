//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

// Track возвращает ошибку, если сборка без тега gocv.
func (t *PupilTracker) Track(ctx context.Context, frame image.Image, sink port.DebugSink) (*entity.TrackingResult, error) {
	_ = ctx
	_ = frame
	_ = sink
	return nil, ErrOpenCVUnavailable
}
