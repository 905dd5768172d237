package systems

import (
	"math"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

func TestSteerDeadAgentStandsStill(t *testing.T) {
	a := agentAt(1, 100, 100, domain.BehaviorNormal)
	a.Dead = true

	dx, dy := Steer(a, &Sense{Target: geom.Vec2{X: 200, Y: 100}, HasTarget: true})
	if dx != 0 || dy != 0 {
		t.Fatalf("dead agent moved: (%v, %v)", dx, dy)
	}
	if dx, dy := Steer(nil, &Sense{}); dx != 0 || dy != 0 {
		t.Fatalf("nil agent moved: (%v, %v)", dx, dy)
	}
}

func TestSteerUnknownBehaviorFallsBackToNormal(t *testing.T) {
	a := agentAt(1, 100, 100, domain.Behavior(200))

	dx, dy := Steer(a, &Sense{Target: geom.Vec2{X: 200, Y: 100}, HasTarget: true})
	if dx != domain.ZombieBaseSpeed || dy != 0 {
		t.Fatalf("fallback chase = (%v, %v), want (%v, 0)", dx, dy, domain.ZombieBaseSpeed)
	}
}

func TestSteerOutputAlwaysFinite(t *testing.T) {
	// Цель совпадает с позицией: seek на нулевой дистанции
	a := agentAt(1, 100, 100, domain.BehaviorNormal)
	dx, dy := Steer(a, &Sense{Target: geom.Vec2{X: 100, Y: 100}, HasTarget: true})

	if math.IsNaN(dx) || math.IsNaN(dy) || math.IsInf(dx, 0) || math.IsInf(dy, 0) {
		t.Fatalf("non-finite steer: (%v, %v)", dx, dy)
	}
}

func TestLineOfSightBlockedByWallCell(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.WallCells.Add(domain.Cell{X: 5, Y: 2})

	// Стена в клетке (5,2) перекрывает горизонтальный луч
	if LineOfSight(l, 100, 100, 300, 100) {
		t.Fatal("wall must block sight")
	}
	if !LineOfSight(l, 100, 180, 300, 180) {
		t.Fatal("clear row must be visible")
	}
}

func TestLineOfSightDegenerateCases(t *testing.T) {
	if !LineOfSight(nil, 0, 0, 100, 100) {
		t.Fatal("nil layout means unobstructed world")
	}
	l := domain.NewLayout(4, 4, 40)
	if !LineOfSight(l, 50, 50, 50, 50) {
		t.Fatal("zero-length segment is visible")
	}
}
