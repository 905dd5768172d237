package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// NormalSteer — обычный зомби: двоичный автомат по радиусу видимости.
// Цель в пределах ZombieSightRange — преследование с расталкиванием
// соседей, иначе блуждание.
func NormalSteer(a *domain.Agent, s *Sense) (float64, float64) {
	if s.HasTarget {
		d := math.Hypot(s.Target.X-a.X, s.Target.Y-a.Y)
		if d <= domain.ZombieSightRange {
			dx, dy := seek(a.X, a.Y, s.Target, a.EffectiveSpeed())
			sx, sy := separation(a, s.Nearby, domain.ZombieSeparation)
			return dx + sx, dy + sy
		}
	}
	return wanderSteer(a, s)
}

// WallHugSteer — обходчик стен. Пока сторона не выбрана, зондирует
// три луча (вперед и под углом влево/вправо) и коммитится на сторону
// с ближней стеной. Дальше держит зазор WallHugTargetGap от
// перпендикулярного зонда, резко отворачивает от лобовой стены и
// возвращается к блужданию, если стена потеряна дольше таймаута.
func WallHugSteer(a *domain.Agent, s *Sense) (float64, float64) {
	l := s.Layout
	if l == nil {
		return wanderSteer(a, s)
	}

	heading := a.Wander.Angle
	front := wallProbeDistance(l, a.X, a.Y, heading, domain.WallHugProbeRange)

	if a.Hug.Side == 0 {
		if front >= domain.WallHugProbeRange {
			return wanderSteer(a, s)
		}
		left := wallProbeDistance(l, a.X, a.Y, heading-domain.WallHugProbeAngle, domain.WallHugProbeRange)
		right := wallProbeDistance(l, a.X, a.Y, heading+domain.WallHugProbeAngle, domain.WallHugProbeRange)
		if right <= left {
			a.Hug.Side = 1
		} else {
			a.Hug.Side = -1
		}
		a.Hug.LastWallMS = s.NowMS
	}

	side := float64(a.Hug.Side)
	sideDist := wallProbeDistance(l, a.X, a.Y, heading+side*math.Pi/2, domain.WallHugProbeRange)

	if sideDist >= domain.WallHugProbeRange {
		if s.NowMS-a.Hug.LastWallMS > domain.WallHugMemoryMS {
			a.Hug.Side = 0
			return wanderSteer(a, s)
		}
		// Стена пропала только что: подворачиваем к ней, обход углов
		heading += side * 0.12
	} else {
		a.Hug.LastWallMS = s.NowMS
		err := sideDist - domain.WallHugTargetGap
		heading += side * clampf(err*0.02, -0.15, 0.15)
	}

	if front < domain.WallHugTargetGap*1.5 {
		heading -= side * domain.WallHugTurnAngle
	}

	a.Wander.Angle = heading
	speed := a.EffectiveSpeed()
	return math.Cos(heading) * speed, math.Sin(heading) * speed
}

// wallProbeDistance зондирует расстояние до первой сплошной клетки
// вдоль луча: грубый проход четвертью клетки, затем уточнение границы
// двоичным делением. Свободный луч возвращает maxRange.
func wallProbeDistance(l *domain.Layout, x, y, angle, maxRange float64) float64 {
	if l == nil || maxRange <= 0 {
		return maxRange
	}
	cs := math.Cos(angle)
	sn := math.Sin(angle)

	step := l.CellSize / 4
	if step <= 0 {
		step = maxRange / 8
	}
	free := 0.0
	blocked := -1.0
	for d := step; d <= maxRange; d += step {
		if l.IsSolid(l.CellAt(x+cs*d, y+sn*d)) {
			blocked = d
			break
		}
		free = d
	}
	if blocked < 0 {
		return maxRange
	}
	for i := 0; i < 6; i++ {
		mid := (free + blocked) / 2
		if l.IsSolid(l.CellAt(x+cs*mid, y+sn*mid)) {
			blocked = mid
		} else {
			free = mid
		}
	}
	return blocked
}

// SolitarySteer — одиночка: раз в SolitaryIntervalFrames кадров
// выбирает дискретное направление по 8 соседним клеткам, уходя от
// более занятой стороны по каждой оси независимо. Сосед своего вида
// весит втрое больше игрока. Точный разворот предыдущего хода
// отвергается, выбранный курс держится между переоценками.
func SolitarySteer(a *domain.Agent, s *Sense) (float64, float64) {
	if s.Frame >= a.Lone.NextDecisionFrame {
		a.Lone.NextDecisionFrame = s.Frame + domain.SolitaryIntervalFrames

		size := cellSizeOf(s)
		cell := domain.CellAt(a.X, a.Y, size)
		var wl, wr, wu, wd float64
		consider := func(x, y, weight float64) {
			c := domain.CellAt(x, y, size)
			ox := c.X - cell.X
			oy := c.Y - cell.Y
			if ox == 0 && oy == 0 {
				return
			}
			if ox < -1 || ox > 1 || oy < -1 || oy > 1 {
				return
			}
			if ox < 0 {
				wl += weight
			} else if ox > 0 {
				wr += weight
			}
			if oy < 0 {
				wu += weight
			} else if oy > 0 {
				wd += weight
			}
		}

		for _, o := range s.Nearby {
			if o == nil || o == a || o.Dead || o.Behavior != domain.BehaviorSolitary {
				continue
			}
			consider(o.X, o.Y, 3)
		}
		if s.HasTarget {
			consider(s.Target.X, s.Target.Y, 1)
		}

		var dx, dy int8
		if wl > wr {
			dx = 1
		} else if wr > wl {
			dx = -1
		}
		if wu > wd {
			dy = 1
		} else if wd > wu {
			dy = -1
		}

		if (dx != 0 || dy != 0) && dx == -a.Lone.DX && dy == -a.Lone.DY {
			dx, dy = a.Lone.DX, a.Lone.DY
		}
		if dx != 0 || dy != 0 {
			a.Lone.DX, a.Lone.DY = dx, dy
		}
	}

	fx := float64(a.Lone.DX)
	fy := float64(a.Lone.DY)
	length := math.Hypot(fx, fy)
	if length == 0 {
		return 0, 0
	}
	speed := a.EffectiveSpeed() * domain.SolitarySpeedScale
	return fx / length * speed, fy / length * speed
}

func cellSizeOf(s *Sense) float64 {
	if s.CellSize > 0 {
		return s.CellSize
	}
	if s.Layout != nil && s.Layout.CellSize > 0 {
		return s.Layout.CellSize
	}
	return domain.DefaultTileSize
}
