package engine

import (
	"math"
	"sort"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
)

// pendingFall — запланированное падение зомби: предупреждающий эффект
// уже показан клиентам, тело появится на отметке dropAtMS.
type pendingFall struct {
	x, y     float64
	dropAtMS int64
}

// spawnState — волновой спавнер зомби. Клеточные множества разметки —
// мапы, их порядок обхода недетерминирован, поэтому кандидаты
// собираются один раз в отсортированные срезы: при одном сиде волны
// воспроизводятся байт в байт.
type spawnState struct {
	nextSpawnMS int64
	pending     []pendingFall

	exterior  []domain.Cell
	fallCells []domain.Cell
}

func (s *spawnState) init(stage Stage) {
	s.nextSpawnMS = stage.SpawnIntervalMS
}

// bind собирает детерминированные списки кандидатов и сеет стартовых
// внутренних зомби.
func (s *spawnState) bind(g *Game) {
	s.exterior = sortedCells(g.Layout.OutsideCells)
	s.fallCells = sortedCells(g.Layout.FallSpawnCells)
	s.seedInterior(g)
}

func sortedCells(set domain.CellSet) []domain.Cell {
	out := make([]domain.Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// seedInterior — стартовое население внутренних помещений.
func (s *spawnState) seedInterior(g *Game) {
	rate := g.Stage.InitialInteriorRate
	if rate <= 0 {
		return
	}
	for y := 0; y < g.Layout.GridH; y++ {
		for x := 0; x < g.Layout.GridW; x++ {
			c := domain.Cell{X: x, Y: y}
			if !g.Layout.IsWalkable(c) {
				continue
			}
			if g.Rng.Float64() >= rate {
				continue
			}
			cx, cy := g.Layout.CellCenter(c)
			if math.Hypot(cx-g.Player.X, cy-g.Player.Y) < domain.SpawnPlayerBuffer {
				continue
			}
			if len(g.Agents) >= g.Stage.ZombieMaxCount {
				return
			}
			g.spawnAgentAt(cx, cy)
		}
	}
}

// update — кадровый шаг спавнера: дозревшие падения, затем волна
// по интервалу стадии.
func (s *spawnState) update(g *Game) {
	s.resolveFalls(g)

	if g.NowMS < s.nextSpawnMS {
		return
	}
	s.nextSpawnMS = g.NowMS + g.Stage.SpawnIntervalMS

	if g.Stage.RescueStage && g.Stage.SurvivorSpawnRate > 0 &&
		g.Rng.Float64() < g.Stage.SurvivorSpawnRate {
		if c, ok := g.pickFreeCell(); ok {
			x, y := g.Layout.CellCenter(c)
			g.spawnSurvivorNear(x, y, false)
			g.pushEvent(api.EventSpawn, map[string]any{"what": "survivor"})
		}
	}

	if len(g.Agents)+len(s.pending) >= g.Stage.ZombieMaxCount {
		return
	}

	total := g.Stage.ExteriorSpawnWeight + g.Stage.InteriorSpawnWeight + g.Stage.InteriorFallSpawnWeight
	if total <= 0 {
		return
	}
	r := g.Rng.Float64() * total

	switch {
	case r < g.Stage.ExteriorSpawnWeight:
		s.spawnExterior(g)
	case r < g.Stage.ExteriorSpawnWeight+g.Stage.InteriorSpawnWeight:
		s.spawnInterior(g)
	default:
		s.scheduleFall(g)
	}
}

// resolveFalls материализует падения, у которых вышел таймер.
func (s *spawnState) resolveFalls(g *Game) {
	keep := s.pending[:0]
	for _, f := range s.pending {
		if g.NowMS < f.dropAtMS {
			keep = append(keep, f)
			continue
		}
		if len(g.Agents) < g.Stage.ZombieMaxCount {
			a := g.spawnAgentAt(f.x, f.y)
			g.pushEvent(api.EventSpawn, map[string]any{
				"what": "zombie", "mode": "fall", "behavior": a.Behavior.String(),
			})
		}
	}
	s.pending = keep
}

// spawnExterior ставит зомби на внешнюю клетку подальше от игрока.
func (s *spawnState) spawnExterior(g *Game) {
	if len(s.exterior) == 0 {
		s.spawnInterior(g)
		return
	}
	for i := 0; i < domain.ExteriorSpawnCandidates; i++ {
		c := s.exterior[g.Rng.Intn(len(s.exterior))]
		x, y := g.Layout.CellCenter(c)
		if math.Hypot(x-g.Player.X, y-g.Player.Y) < domain.SpawnPlayerBuffer {
			continue
		}
		a := g.spawnAgentAt(x, y)
		g.pushEvent(api.EventSpawn, map[string]any{
			"what": "zombie", "mode": "exterior", "behavior": a.Behavior.String(),
		})
		return
	}
}

func (s *spawnState) spawnInterior(g *Game) {
	c, ok := g.pickFreeCell()
	if !ok {
		return
	}
	x, y := g.Layout.CellCenter(c)
	a := g.spawnAgentAt(x, y)
	g.pushEvent(api.EventSpawn, map[string]any{
		"what": "zombie", "mode": "interior", "behavior": a.Behavior.String(),
	})
}

// scheduleFall ставит падение над случайной fall-клеткой: сперва
// предупреждающая тень, зомби приземляется после полного таймера.
func (s *spawnState) scheduleFall(g *Game) {
	if len(s.fallCells) == 0 {
		s.spawnInterior(g)
		return
	}
	c := s.fallCells[g.Rng.Intn(len(s.fallCells))]
	x, y := g.Layout.CellCenter(c)
	if math.Hypot(x-g.Player.X, y-g.Player.Y) < domain.SpawnPlayerBuffer/2 {
		return
	}
	s.pending = append(s.pending, pendingFall{
		x: x, y: y,
		dropAtMS: g.NowMS + domain.FallPreFxMS + domain.FallDropMS,
	})
	g.pushEvent(api.EventSpawn, map[string]any{"what": "fall_warning", "cx": c.X, "cy": c.Y})
}
