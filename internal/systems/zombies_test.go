package systems

import (
	"math"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

func TestNormalSteerChasesWithinSight(t *testing.T) {
	a := agentAt(1, 100, 100, domain.BehaviorNormal)
	s := &Sense{Target: geom.Vec2{X: 200, Y: 100}, HasTarget: true}

	dx, dy := NormalSteer(a, s)
	if dx != domain.ZombieBaseSpeed || dy != 0 {
		t.Fatalf("chase = (%v, %v), want (%v, 0)", dx, dy, domain.ZombieBaseSpeed)
	}
}

func TestNormalSteerSeparationSlowsChase(t *testing.T) {
	a := agentAt(1, 100, 100, domain.BehaviorNormal)
	crowd := agentAt(2, 101, 100, domain.BehaviorNormal)
	s := &Sense{
		Target:    geom.Vec2{X: 200, Y: 100},
		HasTarget: true,
		Nearby:    []*domain.Agent{crowd},
	}

	dx, _ := NormalSteer(a, s)

	// Сосед вплотную спереди отталкивает назад, чистый seek быстрее
	if dx >= domain.ZombieBaseSpeed {
		t.Fatalf("separation must reduce forward speed, got %v", dx)
	}
}

func TestWanderSteersInwardAtFieldEdge(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	a := agentAt(1, 5, 200, domain.BehaviorNormal)
	a.Wander.Angle = math.Pi // смотрит наружу, в левый край
	a.Wander.NextRollMS = 10_000

	dx, _ := wanderSteer(a, &Sense{Layout: l})
	if dx <= 0 {
		t.Fatalf("edge wander must turn toward field center, dx=%v", dx)
	}
}

func TestWanderReversesBeforeHazard(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.PitfallCells.Add(domain.Cell{X: 2, Y: 1})

	a := agentAt(1, 60, 60, domain.BehaviorNormal)
	a.Wander.Angle = 0 // курс на яму в клетке (2,1)
	a.Wander.NextRollMS = 10_000

	dx, _ := wanderSteer(a, &Sense{Layout: l})
	if dx >= 0 {
		t.Fatalf("hazard ahead must reverse course, dx=%v", dx)
	}

	// Яма и сзади — стоим
	l.PitfallCells.Add(domain.Cell{X: 0, Y: 1})
	a.Wander.Angle = 0
	dx, dy := wanderSteer(a, &Sense{Layout: l})
	if dx != 0 || dy != 0 {
		t.Fatalf("hazard on both sides must stop, got (%v, %v)", dx, dy)
	}
}

func TestSolitarySteerMovesAwayFromCrowd(t *testing.T) {
	a := agentAt(1, 100, 100, domain.BehaviorSolitary)
	crowd := agentAt(2, 60, 100, domain.BehaviorSolitary)
	s := &Sense{CellSize: 40, Nearby: []*domain.Agent{crowd}}

	dx, dy := SolitarySteer(a, s)
	if dx <= 0 || dy != 0 {
		t.Fatalf("must flee crowded west side, got (%v, %v)", dx, dy)
	}
	want := domain.ZombieBaseSpeed * domain.SolitarySpeedScale
	if math.Abs(dx-want) > 1e-9 {
		t.Errorf("solitary speed = %v, want %v", dx, want)
	}

	// До следующей переоценки курс держится, даже если толпа сместилась
	s.Frame = 1
	s.Nearby = []*domain.Agent{agentAt(3, 140, 100, domain.BehaviorSolitary)}
	dx, _ = SolitarySteer(a, s)
	if dx <= 0 {
		t.Fatalf("committed course must persist between decisions, dx=%v", dx)
	}
}

func TestSolitarySteerRejectsExactReversal(t *testing.T) {
	a := agentAt(1, 100, 100, domain.BehaviorSolitary)
	s := &Sense{CellSize: 40, Nearby: []*domain.Agent{agentAt(2, 60, 100, domain.BehaviorSolitary)}}

	// Первое решение: на восток
	SolitarySteer(a, s)
	if a.Lone.DX != 1 {
		t.Fatalf("expected east commit, got %d", a.Lone.DX)
	}

	// Толпа теперь на востоке: чистый разворот отвергается
	s.Frame = domain.SolitaryIntervalFrames
	s.Nearby = []*domain.Agent{agentAt(3, 140, 100, domain.BehaviorSolitary)}
	dx, _ := SolitarySteer(a, s)
	if a.Lone.DX != 1 || dx <= 0 {
		t.Fatalf("exact reversal must be rejected, DX=%d dx=%v", a.Lone.DX, dx)
	}
}

func TestWallProbeDistance(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	for y := 0; y < 10; y++ {
		l.WallCells.Add(domain.Cell{X: 5, Y: y})
	}

	// Стена начинается на x=200; зонд с (150,100) на восток
	d := wallProbeDistance(l, 150, 100, 0, domain.WallHugProbeRange)
	if math.Abs(d-50) > 1.0 {
		t.Errorf("probe east = %v, want ~50", d)
	}

	// Свободный луч возвращает весь диапазон
	d = wallProbeDistance(l, 150, 100, math.Pi, domain.WallHugProbeRange)
	if d != domain.WallHugProbeRange {
		t.Errorf("free probe = %v, want %v", d, domain.WallHugProbeRange)
	}
}

func TestWallHugSteerCommitsToSide(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	for y := 0; y < 10; y++ {
		l.WallCells.Add(domain.Cell{X: 5, Y: y})
	}

	a := agentAt(1, 150, 100, domain.BehaviorWallHugger)
	a.Wander.Angle = 0 // лобовая стена в 50 единицах

	dx, dy := WallHugSteer(a, &Sense{Layout: l, NowMS: 1000})

	if a.Hug.Side == 0 {
		t.Fatal("frontal wall must commit a side")
	}
	if a.Hug.LastWallMS != 1000 {
		t.Errorf("wall memory not updated: %d", a.Hug.LastWallMS)
	}
	if math.Hypot(dx, dy) == 0 {
		t.Fatal("hugger must keep moving")
	}
}

func TestWallHugSteerForgetsLostWall(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)

	a := agentAt(1, 200, 200, domain.BehaviorWallHugger)
	a.Hug.Side = 1
	a.Hug.LastWallMS = 0

	// Стен нет, память истекла — возврат к блужданию
	WallHugSteer(a, &Sense{Layout: l, NowMS: domain.WallHugMemoryMS + 1})
	if a.Hug.Side != 0 {
		t.Fatalf("expired wall memory must reset side, got %d", a.Hug.Side)
	}
}
