package entity

import (
	"errors"
	"fmt"
)

// TrackerConfig параметры трекера зрачка.
// После передачи трекеру значение не меняется.
type TrackerConfig struct {
	Blur                 int // размер ядра размытия, <= 1 отключает размытие
	CannyThreshold       int // нижний порог гистерезиса Canny
	CannyRatio           int // верхний порог = CannyThreshold * CannyRatio
	CannyAperture        int // апертура Собеля для Canny: 3, 5 или 7
	PupilIntensityOffset int // прибавляется к нижнему пику для тёмной маски
	GlintIntensityOffset int // вычитается из верхнего пика для светлой маски
	MinContourSize       int // начальный порог размера при слиянии контуров
}

// DefaultTrackerConfig возвращает настройки по умолчанию.
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Blur:                 5,
		CannyThreshold:       159,
		CannyRatio:           2,
		CannyAperture:        5,
		PupilIntensityOffset: 11,
		GlintIntensityOffset: 5,
		MinContourSize:       80,
	}
}

// Validate возвращает ошибку для первой недопустимой настройки.
func (c TrackerConfig) Validate() error {
	if c.Blur < 0 {
		return fmt.Errorf("blur must not be negative, got %d", c.Blur)
	}
	if c.CannyThreshold < 0 {
		return fmt.Errorf("canny threshold must not be negative, got %d", c.CannyThreshold)
	}
	if c.CannyRatio < 1 {
		return fmt.Errorf("canny ratio must be at least 1, got %d", c.CannyRatio)
	}
	switch c.CannyAperture {
	case 3, 5, 7:
	default:
		return fmt.Errorf("canny aperture must be 3, 5 or 7, got %d", c.CannyAperture)
	}
	if c.PupilIntensityOffset < 0 || c.PupilIntensityOffset > 255 {
		return fmt.Errorf("pupil intensity offset out of range: %d", c.PupilIntensityOffset)
	}
	if c.GlintIntensityOffset < 0 || c.GlintIntensityOffset > 255 {
		return fmt.Errorf("glint intensity offset out of range: %d", c.GlintIntensityOffset)
	}
	if c.MinContourSize < 0 {
		return errors.New("min contour size must not be negative")
	}
	return nil
}
