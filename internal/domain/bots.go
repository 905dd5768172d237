package domain

import "github.com/tos-kamiya/zombie-escape-sub001/internal/geom"

// TransportBot — вагонетка, курсирующая по цепочке путевых точек.
// Подбирает игрока (затем выживших) в радиусе посадки после выдержки
// дверного таймера, на концевых точках разворачивается с ожиданием.
type TransportBot struct {
	Mover

	ID EntityID

	Waypoints []geom.Vec2

	// TargetIdx — индекс путевой точки, к которой едем.
	TargetIdx int

	// Dir — направление обхода списка точек (+1 / -1).
	Dir int

	Speed float64

	// WaitUntilMS — стоим до этой отметки (концевое ожидание).
	WaitUntilMS int64

	// DoorReadyMS — посадка возможна после этой отметки (двери
	// открываются с задержкой после остановки).
	DoorReadyMS int64

	// PassengerIDs — кого везем: игрок и/или выжившие.
	PassengerIDs []EntityID

	Dead bool
}

// AtEndpoint сообщает, что целевая точка — конец маршрута.
func (t *TransportBot) AtEndpoint() bool {
	return t.TargetIdx == 0 || t.TargetIdx == len(t.Waypoints)-1
}

// PatrolDirection — единичное направление патрульного бота.
type PatrolDirection struct {
	DX int
	DY int
}

// RotateRight возвращает направление, повернутое на 90° по часовой.
func (d PatrolDirection) RotateRight() PatrolDirection {
	return PatrolDirection{DX: d.DY, DY: -d.DX}
}

// RotateLeft возвращает направление, повернутое на 90° против часовой.
func (d PatrolDirection) RotateLeft() PatrolDirection {
	return PatrolDirection{DX: -d.DY, DY: d.DX}
}

// Reversed возвращает противоположное направление.
func (d PatrolDirection) Reversed() PatrolDirection {
	return PatrolDirection{DX: -d.DX, DY: -d.DY}
}

// PatrolTurnPatterns — циклические паттерны поворотов при блокировке:
// true — направо, false — налево. Бот идет паттерн за паттерном,
// шаг за шагом, что дает размашистые, но детерминированные обходы.
var PatrolTurnPatterns = [][]bool{
	{true, false},
	{true, true, false, false},
	{true, true, true, false, false, false},
	{true, true, true, true, false, false, false, false},
	{true, true, true, true, true, false, false, false, false, false},
}

// PatrolBot — электрифицированный патрульный бот.
//
// Ходит по прямой, при блокировке поворачивает по паттерну, у границы
// поля разворачивается. Зомби, коснувшийся корпуса, парализуется и
// периодически получает урон. Игрок рядом с застывшим ботом может
// задать ему направление.
type PatrolBot struct {
	Mover

	ID EntityID

	Dir PatrolDirection

	Speed float64

	// Позиция в таблице паттернов поворотов.
	PatternIdx int
	StepIdx    int

	// PauseUntilMS — пауза после контакта с гуманоидом.
	PauseUntilMS int64

	// Детектор застревания: если позиция не ушла дальше порога за
	// окно времени — разворот.
	AnchorX       float64
	AnchorY       float64
	AnchorSinceMS int64

	Dead bool
}

// NextTurn возвращает очередной поворот паттерна и сдвигает позицию.
func (p *PatrolBot) NextTurn() bool {
	pattern := PatrolTurnPatterns[p.PatternIdx%len(PatrolTurnPatterns)]
	right := pattern[p.StepIdx%len(pattern)]

	p.StepIdx++
	if p.StepIdx >= len(pattern) {
		p.StepIdx = 0
		p.PatternIdx = (p.PatternIdx + 1) % len(PatrolTurnPatterns)
	}
	return right
}

// ApplyTurn поворачивает бота согласно паттерну.
func (p *PatrolBot) ApplyTurn() {
	if p.NextTurn() {
		p.Dir = p.Dir.RotateRight()
	} else {
		p.Dir = p.Dir.RotateLeft()
	}
}
