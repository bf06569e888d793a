package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pupil-tracker/internal/domain/entity"
	"pupil-tracker/internal/domain/port"
)

const namespace = "pupil"

// Recorder хранит метрики трекинга в собственном registry.
type Recorder struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	frames       *prometheus.CounterVec
	relaxPasses  prometheus.Histogram
	mergedPoints prometheus.Histogram
	procTime     prometheus.Histogram
	confidence   *prometheus.GaugeVec
}

// NewRecorder создаёт и регистрирует метрики трекинга.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_total",
				Help:      "Frames processed, by stream and outcome.",
			},
			[]string{"stream", "result"},
		),
		relaxPasses: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "relax_passes",
				Help:      "Contour merge passes needed per frame.",
				Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
			},
		),
		mergedPoints: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "merged_points",
				Help:      "Contour points handed to the ellipse fit.",
				Buckets:   prometheus.ExponentialBuckets(5, 2, 8),
			},
		),
		procTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "processing_seconds",
				Help:      "Time spent tracking a single frame.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		confidence: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "confidence",
				Help:      "Confidence of the last successful fit.",
			},
			[]string{"stream"},
		),
	}

	r.registry.MustRegister(r.frames, r.relaxPasses, r.mergedPoints, r.procTime, r.confidence)
	return r
}

// Observe записывает результат одного кадра.
func (r *Recorder) Observe(streamID string, res *entity.TrackingResult, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.procTime.Observe(elapsed.Seconds())
	if res == nil {
		r.frames.WithLabelValues(streamID, "error").Inc()
		return
	}

	r.relaxPasses.Observe(float64(res.RelaxPasses))
	if !res.Found {
		r.frames.WithLabelValues(streamID, "miss").Inc()
		return
	}
	r.frames.WithLabelValues(streamID, "found").Inc()
	r.mergedPoints.Observe(float64(res.MergedPoints))
	r.confidence.WithLabelValues(streamID).Set(res.Confidence)
}

// Registry отдаёт registry для тестов и своих экспортёров.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile пишет все метрики в текстовом формате Prometheus, который
// понимает textfile collector у node exporter.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

var _ port.TrackingRecorder = (*Recorder)(nil)
