package domain

// Footprint — неизменяемая запаховая метка: где и когда прошел игрок.
type Footprint struct {
	X    float64
	Y    float64
	Time int64
}

// FootprintTrail — ограниченная лента следов. Новые дописываются в
// конец, при переполнении вытесняется самый старый. Следопыты читают
// ленту только на чтение.
type FootprintTrail struct {
	prints []Footprint
	cap    int
}

func NewFootprintTrail(capacity int) *FootprintTrail {
	if capacity < 1 {
		capacity = 1
	}
	return &FootprintTrail{
		prints: make([]Footprint, 0, capacity),
		cap:    capacity,
	}
}

// Add дописывает след, вытесняя самый старый при переполнении.
func (t *FootprintTrail) Add(x, y float64, timeMS int64) {
	if len(t.prints) >= t.cap {
		copy(t.prints, t.prints[1:])
		t.prints = t.prints[:len(t.prints)-1]
	}
	t.prints = append(t.prints, Footprint{X: x, Y: y, Time: timeMS})
}

// All возвращает следы в порядке добавления (старые в начале).
// Возвращаемый срез читать, не изменять.
func (t *FootprintTrail) All() []Footprint {
	return t.prints
}

// Len возвращает количество следов в ленте.
func (t *FootprintTrail) Len() int {
	return len(t.prints)
}
