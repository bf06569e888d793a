package vision

import "pupil-tracker/internal/domain/entity"

// minSpikeSize сколько пикселей должно быть в корзине, чтобы она считалась пиком.
const minSpikeSize = 40

// findSpikes проходит гистограмму от тёмного к светлому и возвращает крайние
// пики. Если пиков меньше двух, берётся весь диапазон 0..255, чтобы маски
// работали и на плоских кадрах.
func findSpikes(hist *entity.Histogram) entity.Spikes {
	spikes := entity.Spikes{
		Lowest:  entity.HistogramBins - 1,
		Highest: 0,
	}
	for i, count := range hist {
		if count < minSpikeSize {
			continue
		}
		spikes.Count++
		if i < spikes.Lowest {
			spikes.Lowest = i
		}
		if i > spikes.Highest {
			spikes.Highest = i
		}
	}
	if spikes.Count < 2 {
		spikes.Lowest = 0
		spikes.Highest = entity.HistogramBins - 1
	}
	return spikes
}
