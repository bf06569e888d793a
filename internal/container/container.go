package container

import (
	app "pupil-tracker/internal/application"
	"pupil-tracker/internal/domain/port"
)

type Container struct {
	StreamService   *app.StreamService
	TrackingService *app.TrackingService
}

func New(streamRepo port.StreamRepository, detector port.PupilDetector, recorder port.TrackingRecorder, debug port.DebugSinkFactory) *Container {
	streamService := app.NewStreamService(streamRepo)
	trackingService := app.NewTrackingService(streamService, detector, recorder, debug)

	return &Container{
		StreamService:   streamService,
		TrackingService: trackingService,
	}
}
