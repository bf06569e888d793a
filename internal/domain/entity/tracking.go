package entity

// HistogramBins число уровней яркости 8-битного кадра.
const HistogramBins = 256

// Histogram количество пикселей на каждый уровень яркости.
type Histogram [HistogramBins]int

// Spikes крайние корзины гистограммы, набравшие размер пика.
type Spikes struct {
	Lowest  int // самый тёмный пик или 0, если пиков меньше двух
	Highest int // самый светлый пик или 255, если пиков меньше двух
	Count   int // сколько корзин прошло порог
}

// TrackingResult результат трекинга одного кадра.
// Ellipse имеет смысл только при Found == true.
type TrackingResult struct {
	Found      bool
	Ellipse    Ellipse
	Confidence float64 // доля точек, лежащих на эллипсе

	Spikes          Spikes
	BinaryThreshold int // адаптивный порог, равен Spikes.Lowest

	Contours       int // контуры из очищенной карты рёбер
	MergedContours int // контуры, прошедшие ослабленный порог размера
	MergedPoints   int
	RelaxPasses    int // число проходов слияния контуров
	MergeThreshold int // порог размера последнего прохода

	FrameWidth  int
	FrameHeight int
}
