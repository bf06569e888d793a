package entity

// StreamState состояние трекинга потока кадров
type StreamState string

const (
	StateSearching StreamState = "searching" // зрачок ещё не найден
	StateTracking  StreamState = "tracking"  // в последнем кадре зрачок найден
	StateLost      StreamState = "lost"      // зрачок был найден раньше, но не в последнем кадре
)

// Stream история трекинга одной камеры глаза
type Stream struct {
	ID    string
	State StreamState

	// Ellipse последний удачный эллипс. Он сохраняется после неудачных
	// кадров, поэтому HasEllipse ничего не говорит о последнем кадре.
	Ellipse    Ellipse
	HasEllipse bool

	Frames int // обработано кадров
	Found  int // кадров с найденным зрачком
	Misses int // неудачных кадров подряд
}

// NewStream создаёт поток в состоянии поиска
func NewStream(id string) *Stream {
	return &Stream{
		ID:    id,
		State: StateSearching,
	}
}

// SetState обновляет состояние потока
func (s *Stream) SetState(state StreamState) {
	s.State = state
}

// Observe применяет результат трекинга к потоку
func (s *Stream) Observe(res *TrackingResult) {
	s.Frames++
	if res != nil && res.Found {
		s.Found++
		s.Misses = 0
		s.Ellipse = res.Ellipse
		s.HasEllipse = true
		s.SetState(StateTracking)
		return
	}

	s.Misses++
	if s.HasEllipse {
		s.SetState(StateLost)
	}
}

// Reset сбрасывает историю, но оставляет id потока
func (s *Stream) Reset() {
	*s = *NewStream(s.ID)
}
