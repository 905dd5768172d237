package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// CarrierBotTick продвигает носильщика на один кадр.
//
// Порядок жесткий: сперва гашение дистанционного кулдауна, затем
// проверка препятствия по курсу, ход (или разворот вместо хода),
// перенос груза и только после полного хода — попытка подбора.
// Подбор требует полного перекрытия: центр на дистанции не больше
// |R бота - R материала|.
func CarrierBotTick(b *domain.CarrierBot, l *domain.Layout, walls []*domain.Wall, cars []*domain.Car, materials []*domain.Material, lookupMat func(domain.EntityID) *domain.Material) {
	if b == nil || b.Dead || l == nil {
		return
	}

	if !b.LastDroppedID.IsNil() {
		if math.Hypot(b.X-b.LastDropX, b.Y-b.LastDropY) >= domain.CarrierDropCooldownDist {
			b.LastDroppedID = domain.NilEntityID
		}
	}

	dirX, dirY := b.DirVector()
	newX := b.X + dirX*b.Speed
	newY := b.Y + dirY*b.Speed

	blocked, byCar := carrierBlocked(b, l, walls, cars, newX, newY, dirX, dirY)
	if blocked {
		if b.Carrying() {
			carrierDrop(b, l, walls, lookupMat, dirX, dirY, byCar)
		}
		b.Reverse()
		return
	}

	b.X = newX
	b.Y = newY

	if b.Carrying() {
		m := lookupMat(b.CarryingID)
		if m == nil || m.Dead {
			b.CarryingID = domain.NilEntityID
		} else {
			m.X = b.X
			m.Y = b.Y
		}
		return
	}

	for _, m := range materials {
		if m == nil || m.Dead || m.Carried() {
			continue
		}
		if m.ID == b.LastDroppedID {
			continue
		}
		d := math.Hypot(m.X-b.X, m.Y-b.Y)
		if d <= math.Abs(b.Radius-m.Radius) {
			l.MaterialCells.Remove(m.Cell)
			m.CarriedBy = b.ID
			m.X = b.X
			m.Y = b.Y
			b.CarryingID = m.ID
			b.Reverse()
			return
		}
	}
}

// carrierBlocked проверяет препятствие для хода в (newX, newY):
// стена или машина по корпусу, опасная или выпавшая из сетки клетка
// по упреждению в направлении движения, а под грузом — еще и клетки,
// занятые другим материалом. Второй результат — блокировку дала машина.
func carrierBlocked(b *domain.CarrierBot, l *domain.Layout, walls []*domain.Wall, cars []*domain.Car, newX, newY, dirX, dirY float64) (bool, bool) {
	for _, w := range walls {
		if w != nil && w.Alive() && w.CollidesCircle(newX, newY, b.Radius) {
			return true, false
		}
	}
	for _, c := range cars {
		if c != nil && !c.Dead && geom.CircleRectCollision(newX, newY, b.Radius, c.BodyRect()) {
			return true, true
		}
	}

	lead := l.CellAt(newX+dirX*b.Radius, newY+dirY*b.Radius)
	if !l.InBounds(lead) || l.IsHazardForBot(lead) {
		return true, false
	}

	if b.Carrying() && l.MaterialCells.Has(lead) {
		return true, false
	}
	return false, false
}

// carrierDrop пытается избавиться от груза при блокировке: три
// кандидатные клетки (текущая, шаг назад, два шага назад по оси хода;
// при блокировке машиной — шаги вперед, груз подвозится к машине)
// проверяются на валидность, первая годная получает материал. Если
// не годится ни одна — груз ложится прямо под ботом.
func carrierDrop(b *domain.CarrierBot, l *domain.Layout, walls []*domain.Wall, lookupMat func(domain.EntityID) *domain.Material, dirX, dirY float64, forward bool) {
	m := lookupMat(b.CarryingID)
	if m == nil || m.Dead {
		b.CarryingID = domain.NilEntityID
		return
	}

	cur := l.CellAt(b.X, b.Y)
	stepX := -int(dirX)
	stepY := -int(dirY)
	if forward {
		stepX, stepY = -stepX, -stepY
	}

	for i := 0; i <= 2; i++ {
		c := domain.Cell{X: cur.X + stepX*i, Y: cur.Y + stepY*i}
		if !carrierDropCellOK(l, walls, c, m.Radius) {
			continue
		}
		cx, cy := l.CellCenter(c)
		m.PlaceAt(cx, cy, c)
		l.MaterialCells.Add(c)
		carrierFinishDrop(b, m)
		return
	}

	// Годных клеток нет: кладем под себя
	m.PlaceAt(b.X, b.Y, cur)
	l.MaterialCells.Add(cur)
	carrierFinishDrop(b, m)
}

func carrierDropCellOK(l *domain.Layout, walls []*domain.Wall, c domain.Cell, matRadius float64) bool {
	if !l.InBounds(c) || l.IsHazardForBot(c) || l.MaterialCells.Has(c) {
		return false
	}
	cx, cy := l.CellCenter(c)
	for _, w := range walls {
		if w != nil && w.Alive() && w.CollidesCircle(cx, cy, matRadius) {
			return false
		}
	}
	return true
}

func carrierFinishDrop(b *domain.CarrierBot, m *domain.Material) {
	b.CarryingID = domain.NilEntityID
	b.LastDroppedID = m.ID
	b.LastDropX = b.X
	b.LastDropY = b.Y
}
