package systems

import (
	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// CellEdgeNudge помогает скользить вокруг угла стены: если ход по оси
// уперся в клетку, а центр тела почти на ее краю, возвращает поперечный
// сдвиг в сторону свободного соседа. Срезанный угол блокирующей стены
// усиливает сдвиг: фаска физически шире открывает проход.
func CellEdgeNudge(l *domain.Layout, walls []*domain.Wall, x, y, dx, dy float64) (float64, float64) {
	if l == nil || (dx == 0) == (dy == 0) {
		return 0, 0
	}

	var ahead domain.Cell
	if dx != 0 {
		ahead = l.CellAt(x+signf(dx)*l.CellSize*0.6, y)
	} else {
		ahead = l.CellAt(x, y+signf(dy)*l.CellSize*0.6)
	}
	if !l.IsSolid(ahead) {
		return 0, 0
	}

	rect := l.CellRect(ahead)
	var bevel domain.BevelMask
	for _, w := range walls {
		if w != nil && w.Alive() && w.Cell == ahead {
			bevel = w.Bevel
			break
		}
	}

	boost := func(corner domain.BevelMask) float64 {
		if bevel&corner != 0 {
			return domain.EdgeNudgeStrength * domain.EdgeNudgeBevelK
		}
		return domain.EdgeNudgeStrength
	}

	if dx != 0 {
		nearCorner, farCorner := domain.BevelTopLeft, domain.BevelBottomLeft
		if dx < 0 {
			nearCorner, farCorner = domain.BevelTopRight, domain.BevelBottomRight
		}
		if y-rect.Y <= domain.EdgeNudgeMargin && l.IsWalkable(domain.Cell{X: ahead.X, Y: ahead.Y - 1}) {
			return 0, -boost(nearCorner)
		}
		if rect.Bottom()-y <= domain.EdgeNudgeMargin && l.IsWalkable(domain.Cell{X: ahead.X, Y: ahead.Y + 1}) {
			return 0, boost(farCorner)
		}
		return 0, 0
	}

	nearCorner, farCorner := domain.BevelTopLeft, domain.BevelTopRight
	if dy < 0 {
		nearCorner, farCorner = domain.BevelBottomLeft, domain.BevelBottomRight
	}
	if x-rect.X <= domain.EdgeNudgeMargin && l.IsWalkable(domain.Cell{X: ahead.X - 1, Y: ahead.Y}) {
		return -boost(nearCorner), 0
	}
	if rect.Right()-x <= domain.EdgeNudgeMargin && l.IsWalkable(domain.Cell{X: ahead.X + 1, Y: ahead.Y}) {
		return boost(farCorner), 0
	}
	return 0, 0
}

func signf(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
