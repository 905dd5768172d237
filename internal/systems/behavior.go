package systems

import (
	"math"
	"math/rand"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// Sense — снимок мира на начало кадра, единый вход всех поведенческих
// функций. Nearby и Walls собраны пространственными индексами до фазы
// обновления: движение одного агента внутри кадра не меняет решений
// остальных.
type Sense struct {
	Layout   *domain.Layout
	CellSize float64

	// Walls — ближние живые стены (снимок индекса стен).
	Walls []*domain.Wall

	// Target — позиция цели (обычно игрока), HasTarget — цель есть.
	Target    geom.Vec2
	HasTarget bool

	// Nearby — соседи в ограниченной окрестности.
	Nearby []*domain.Agent

	Footprints []domain.Footprint

	NowMS int64
	Frame int64

	Rng *rand.Rand

	Trains *TrainSet

	// Lookup разрешает слабую ссылку на агента; мертвая или протухшая
	// ссылка дает nil.
	Lookup func(domain.EntityID) *domain.Agent
}

// BehaviorFunc — чистая функция поведения: (агент, снимок мира) ->
// желаемая скорость за кадр. Состояние вида хранится на агенте и
// мутируется только его собственной функцией.
type BehaviorFunc func(*domain.Agent, *Sense) (float64, float64)

var behaviorTable = map[domain.Behavior]BehaviorFunc{
	domain.BehaviorNormal:     NormalSteer,
	domain.BehaviorWallHugger: WallHugSteer,
	domain.BehaviorTracker:    TrackerSteer,
	domain.BehaviorLineformer: LineformerSteer,
	domain.BehaviorSolitary:   SolitarySteer,
	domain.BehaviorDog:        DogSteer,
}

// Steer выбирает функцию поведения по виду и страхует ее выход:
// NaN и бесконечности гасятся в ноль. Неизвестный вид ведет себя
// как обычный зомби.
func Steer(a *domain.Agent, s *Sense) (float64, float64) {
	if a == nil || s == nil || a.Dead {
		return 0, 0
	}
	fn, ok := behaviorTable[a.Behavior]
	if !ok {
		fn = NormalSteer
	}
	mx, my := fn(a, s)
	if math.IsNaN(mx) || math.IsInf(mx, 0) {
		mx = 0
	}
	if math.IsNaN(my) || math.IsInf(my, 0) {
		my = 0
	}
	return mx, my
}

// --- Общие кирпичи поведения ---

// seek возвращает скорость от (x, y) к цели. Нулевая дистанция коротит
// движение на этот кадр.
func seek(x, y float64, to geom.Vec2, speed float64) (float64, float64) {
	dx := to.X - x
	dy := to.Y - y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return 0, 0
	}
	return dx / l * speed, dy / l * speed
}

// separation отталкивает агента от соседей ближе sepDist.
func separation(a *domain.Agent, nearby []*domain.Agent, sepDist float64) (float64, float64) {
	var px, py float64
	for _, o := range nearby {
		if o == nil || o == a || o.Dead {
			continue
		}
		dx := a.X - o.X
		dy := a.Y - o.Y
		d := math.Hypot(dx, dy)
		if d == 0 {
			// Полное совпадение центров: произвольный детерминированный сдвиг
			px += sepDist * 0.5
			continue
		}
		if d < sepDist {
			k := (sepDist - d) / sepDist
			px += dx / d * k
			py += dy / d * k
		}
	}
	return px, py
}

// wanderSteer — общее блуждание: курс перевыбирается по дрожащему
// интервалу, у края поля подворачивает внутрь, перед опасной клеткой
// разворачивается, а если опасно и сзади — стоит.
func wanderSteer(a *domain.Agent, s *Sense) (float64, float64) {
	return wanderCore(a, s, domain.ZombieWanderIntervalMS, domain.ZombieWanderJitterMS)
}

func wanderCore(a *domain.Agent, s *Sense, intervalMS, jitterMS int64) (float64, float64) {
	if s.NowMS >= a.Wander.NextRollMS {
		if s.Rng != nil && jitterMS > 0 {
			a.Wander.Angle = s.Rng.Float64() * 2 * math.Pi
			a.Wander.NextRollMS = s.NowMS + intervalMS + s.Rng.Int63n(jitterMS)
		} else {
			a.Wander.NextRollMS = s.NowMS + intervalMS
		}
	}

	if s.Layout != nil {
		fr := s.Layout.FieldRect
		if a.X < fr.X+domain.ZombieEdgeMargin || a.X > fr.Right()-domain.ZombieEdgeMargin ||
			a.Y < fr.Y+domain.ZombieEdgeMargin || a.Y > fr.Bottom()-domain.ZombieEdgeMargin {
			a.Wander.Angle = math.Atan2(fr.CenterY()-a.Y, fr.CenterX()-a.X)
		}
	}

	speed := a.EffectiveSpeed()
	dx := math.Cos(a.Wander.Angle) * speed
	dy := math.Sin(a.Wander.Angle) * speed

	if s.Layout != nil && hazardAhead(s.Layout, a.X, a.Y, dx, dy) {
		a.Wander.Angle += math.Pi
		dx, dy = -dx, -dy
		if hazardAhead(s.Layout, a.X, a.Y, dx, dy) {
			return 0, 0
		}
	}
	return dx, dy
}

// hazardAhead смотрит на клетку по курсу: яма или огненный пол.
func hazardAhead(l *domain.Layout, x, y, dx, dy float64) bool {
	length := math.Hypot(dx, dy)
	if length == 0 {
		return false
	}
	c := l.CellAt(x+dx/length*l.CellSize*0.8, y+dy/length*l.CellSize*0.8)
	return l.PitfallCells.Has(c) || l.FireFloorCells.Has(c)
}

// LineOfSight проверяет прямую видимость между двумя точками, шагая
// по отрезку с полушагом клетки и опрашивая сплошные клетки.
func LineOfSight(l *domain.Layout, x1, y1, x2, y2 float64) bool {
	if l == nil {
		return true
	}
	dx := x2 - x1
	dy := y2 - y1
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return true
	}
	step := l.CellSize / 2
	steps := int(dist/step) + 1
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if l.IsSolid(l.CellAt(x1+dx*t, y1+dy*t)) {
			return false
		}
	}
	return true
}
