package vision

import "image"

// relaxStep на сколько снижается порог размера после прохода, в котором
// ни один контур не подошёл.
const relaxStep = 2

// mergeResult результат слияния контуров.
type mergeResult struct {
	Points     []image.Point
	Mergeable  []bool
	Merged     int   // сколько контуров слито
	Thresholds []int // порог каждого прохода по порядку
}

// Passes возвращает число выполненных проходов.
func (r mergeResult) Passes() int {
	return len(r.Thresholds)
}

// Threshold возвращает порог последнего прохода или 0, если проходов не было.
func (r mergeResult) Threshold() int {
	if len(r.Thresholds) == 0 {
		return 0
	}
	return r.Thresholds[len(r.Thresholds)-1]
}

// mergeContours помечает контуры, в которых не меньше minSize точек. Если
// не подошёл ни один, порог снижается на relaxStep и разметка повторяется,
// пока хотя бы один контур не пройдёт. Точки помеченных контуров
// склеиваются в порядке контуров.
func mergeContours(contours [][]image.Point, minSize int) mergeResult {
	res := mergeResult{Mergeable: make([]bool, len(contours))}
	if len(contours) == 0 {
		return res
	}

	// Порог <= 0 пропускает любой контур, поэтому число проходов ограничено
	// разницей между minSize и самым большим контуром.
	for threshold := minSize; res.Merged == 0; threshold -= relaxStep {
		res.Thresholds = append(res.Thresholds, threshold)
		for i, c := range contours {
			res.Mergeable[i] = len(c) >= threshold
			if res.Mergeable[i] {
				res.Merged++
			}
		}
	}

	total := 0
	for i, c := range contours {
		if res.Mergeable[i] {
			total += len(c)
		}
	}
	res.Points = make([]image.Point, 0, total)
	for i, c := range contours {
		if res.Mergeable[i] {
			res.Points = append(res.Points, c...)
		}
	}
	return res
}
