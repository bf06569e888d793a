package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"pupil-tracker/internal/domain/entity"
)

type Config struct {
	Tracker entity.TrackerConfig

	StreamID        string
	DisplayDebug    bool
	DebugDir        string
	MetricsTextfile string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		Tracker:         entity.DefaultTrackerConfig(),
		StreamID:        getString("STREAM_ID", "eye"),
		DebugDir:        getString("DEBUG_DIR", "debug"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PUPIL_BLUR", &cfg.Tracker.Blur},
		{"PUPIL_CANNY_THRESHOLD", &cfg.Tracker.CannyThreshold},
		{"PUPIL_CANNY_RATIO", &cfg.Tracker.CannyRatio},
		{"PUPIL_CANNY_APERTURE", &cfg.Tracker.CannyAperture},
		{"PUPIL_INTENSITY_OFFSET", &cfg.Tracker.PupilIntensityOffset},
		{"GLINT_INTENSITY_OFFSET", &cfg.Tracker.GlintIntensityOffset},
		{"MIN_CONTOUR_SIZE", &cfg.Tracker.MinContourSize},
	}
	for _, v := range ints {
		if err := setInt(v.key, v.dst); err != nil {
			return nil, err
		}
	}

	if raw, ok := os.LookupEnv("DISPLAY_DEBUG"); ok && raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("DISPLAY_DEBUG: %w", err)
		}
		cfg.DisplayDebug = b
	}

	if err := cfg.Tracker.Validate(); err != nil {
		return nil, fmt.Errorf("tracker settings: %w", err)
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// setInt перезаписывает dst, если переменная задана.
func setInt(key string, dst *int) error {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}
