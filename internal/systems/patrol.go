package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// PatrolBotTick продвигает патрульного бота на один кадр.
//
// Бот ходит по осям. Игрок вплотную (внутренний командный радиус)
// задает боту направление — прочь от себя, по доминирующей оси.
// Гуманоид поблизости ставит бота на паузу. Блокировка стеной, машиной
// или собратом поворачивает по таблице паттернов, выход за поле
// разворачивает. Застрявший бот (меньше порога смещения за окно)
// разворачивается с короткой паузой.
func PatrolBotTick(b *domain.PatrolBot, l *domain.Layout, walls []*domain.Wall, cars []*domain.Car, mates []*domain.PatrolBot, playerPos *geom.Vec2, humanoids []geom.Vec2, nowMS int64) {
	if b == nil || b.Dead || l == nil {
		return
	}

	if playerPos != nil {
		d := math.Hypot(playerPos.X-b.X, playerPos.Y-b.Y)
		if d <= b.Radius+domain.PatrolBotCommandRadius {
			commandDirection(b, *playerPos)
			b.AnchorX, b.AnchorY = b.X, b.Y
			b.AnchorSinceMS = nowMS
			b.PauseUntilMS = nowMS + domain.PatrolBotHumanoidPauseMS
			return
		}
	}

	for _, h := range humanoids {
		if math.Hypot(h.X-b.X, h.Y-b.Y) <= b.Radius+domain.PatrolBotHumanoidPauseRange {
			b.PauseUntilMS = nowMS + domain.PatrolBotHumanoidPauseMS
			break
		}
	}

	if nowMS < b.PauseUntilMS {
		b.AnchorX, b.AnchorY = b.X, b.Y
		b.AnchorSinceMS = nowMS
		return
	}

	// Детектор застревания
	if b.AnchorSinceMS == 0 {
		b.AnchorX, b.AnchorY = b.X, b.Y
		b.AnchorSinceMS = nowMS
	}
	if math.Hypot(b.X-b.AnchorX, b.Y-b.AnchorY) > domain.PatrolStuckDistance {
		b.AnchorX, b.AnchorY = b.X, b.Y
		b.AnchorSinceMS = nowMS
	} else if nowMS-b.AnchorSinceMS > domain.PatrolStuckWindowMS {
		b.Dir = b.Dir.Reversed()
		b.AnchorX, b.AnchorY = b.X, b.Y
		b.AnchorSinceMS = nowMS
		b.PauseUntilMS = nowMS + int64(domain.PatrolBackoffMin*1000)
		return
	}

	newX := b.X + float64(b.Dir.DX)*b.Speed
	newY := b.Y + float64(b.Dir.DY)*b.Speed

	lead := l.CellAt(
		newX+float64(b.Dir.DX)*(b.Radius+domain.PatrolBotWallMargin),
		newY+float64(b.Dir.DY)*(b.Radius+domain.PatrolBotWallMargin),
	)
	if !l.InBounds(lead) || l.OutsideCells.Has(lead) {
		b.Dir = b.Dir.Reversed()
		return
	}

	if patrolBlocked(b, walls, cars, mates, newX, newY) {
		b.ApplyTurn()
		return
	}

	b.X = newX
	b.Y = newY
	b.X, b.Y, _ = SeparateCircleFromWalls(b.X, b.Y, b.Radius, walls, 1.0, 2, 0)
}

// commandDirection — приказ игрока: бот уходит от него по
// доминирующей оси.
func commandDirection(b *domain.PatrolBot, from geom.Vec2) {
	dx := b.X - from.X
	dy := b.Y - from.Y
	if dx == 0 && dy == 0 {
		return
	}
	if math.Abs(dx) >= math.Abs(dy) {
		b.Dir = domain.PatrolDirection{DX: signInt(dx), DY: 0}
	} else {
		b.Dir = domain.PatrolDirection{DX: 0, DY: signInt(dy)}
	}
}

func patrolBlocked(b *domain.PatrolBot, walls []*domain.Wall, cars []*domain.Car, mates []*domain.PatrolBot, newX, newY float64) bool {
	rr := b.Radius + domain.PatrolBotWallMargin
	for _, w := range walls {
		if w != nil && w.Alive() && w.CollidesCircle(newX, newY, rr) {
			return true
		}
	}
	for _, c := range cars {
		if c != nil && !c.Dead && geom.CircleRectCollision(newX, newY, rr, c.BodyRect()) {
			return true
		}
	}
	for _, o := range mates {
		if o == nil || o == b || o.Dead {
			continue
		}
		if math.Hypot(o.X-newX, o.Y-newY) < b.Radius+o.Radius {
			return true
		}
	}
	return false
}

// PatrolShockContacts — электрифицированный корпус: каждый зомби,
// касающийся патрульного бота, парализуется (таймер продлевается
// только вперед) и получает контактный урон с кадровым интервалом.
func PatrolShockContacts(bots []*domain.PatrolBot, agents []*domain.Agent, nowMS int64) {
	for _, b := range bots {
		if b == nil || b.Dead {
			continue
		}
		for _, a := range agents {
			if a == nil || a.Dead || a.Vitals == nil {
				continue
			}
			if math.Hypot(a.X-b.X, a.Y-b.Y) <= a.Radius+b.Radius {
				a.Vitals.Paralyze(nowMS + domain.PatrolParalyzeMS)
				a.Vitals.ParalyzeContactTick(domain.PatrolDamageFrames, domain.PatrolContactDamage, nowMS)
			}
		}
	}
}

func signInt(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
