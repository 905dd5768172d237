package systems

import (
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

func TestFloorDriftOnTaggedCell(t *testing.T) {
	l := domain.NewLayout(4, 4, 40)
	l.MovingFloorCells[domain.Cell{X: 1, Y: 1}] = domain.FloorRight

	dx, dy := FloorDrift(l, 60, 60)
	if dx != domain.FloorDriftSpeed || dy != 0 {
		t.Fatalf("drift = (%v, %v), want (%v, 0)", dx, dy, domain.FloorDriftSpeed)
	}

	// Тяга вверх — отрицательный Y
	l.MovingFloorCells[domain.Cell{X: 2, Y: 2}] = domain.FloorUp
	dx, dy = FloorDrift(l, 100, 100)
	if dx != 0 || dy != -domain.FloorDriftSpeed {
		t.Fatalf("drift = (%v, %v), want (0, %v)", dx, dy, -domain.FloorDriftSpeed)
	}
}

func TestFloorDriftZeroOffBelt(t *testing.T) {
	l := domain.NewLayout(4, 4, 40)
	l.MovingFloorCells[domain.Cell{X: 1, Y: 1}] = domain.FloorLeft

	if dx, dy := FloorDrift(l, 10, 10); dx != 0 || dy != 0 {
		t.Fatalf("plain floor must not drift, got (%v, %v)", dx, dy)
	}
	if dx, dy := FloorDrift(nil, 10, 10); dx != 0 || dy != 0 {
		t.Fatalf("nil layout must not drift, got (%v, %v)", dx, dy)
	}
}
