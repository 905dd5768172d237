package systems

import (
	"math"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

func TestCellEdgeNudgeSlidesAroundCorner(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.WallCells.Add(domain.Cell{X: 3, Y: 2})
	wall := wallAtCell(3, 2)

	// Тело у верхнего края блокирующей клетки, сосед сверху свободен
	nx, ny := CellEdgeNudge(l, []*domain.Wall{wall}, 100, 82, 1, 0)
	if nx != 0 || ny != -domain.EdgeNudgeStrength {
		t.Fatalf("nudge = (%v, %v), want (0, %v)", nx, ny, -domain.EdgeNudgeStrength)
	}

	// По центру грани сдвига нет
	nx, ny = CellEdgeNudge(l, []*domain.Wall{wall}, 100, 100, 1, 0)
	if nx != 0 || ny != 0 {
		t.Fatalf("mid-face nudge = (%v, %v), want none", nx, ny)
	}
}

func TestCellEdgeNudgeBevelBoost(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.WallCells.Add(domain.Cell{X: 3, Y: 2})
	beveled := domain.NewWall(l.CellRect(domain.Cell{X: 3, Y: 2}), domain.Cell{X: 3, Y: 2},
		domain.WallReinforced, 12, domain.BevelTopLeft, 12)

	_, ny := CellEdgeNudge(l, []*domain.Wall{beveled}, 100, 82, 1, 0)
	want := -domain.EdgeNudgeStrength * domain.EdgeNudgeBevelK
	if math.Abs(ny-want) > 1e-9 {
		t.Fatalf("beveled nudge = %v, want %v", ny, want)
	}
}

func TestCellEdgeNudgeRequiresAxisMove(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.WallCells.Add(domain.Cell{X: 3, Y: 2})

	if nx, ny := CellEdgeNudge(l, nil, 100, 82, 1, 1); nx != 0 || ny != 0 {
		t.Fatalf("diagonal move must not nudge, got (%v, %v)", nx, ny)
	}
	if nx, ny := CellEdgeNudge(l, nil, 100, 82, 0, 0); nx != 0 || ny != 0 {
		t.Fatalf("standstill must not nudge, got (%v, %v)", nx, ny)
	}
}

func TestCellEdgeNudgeNeedsFreeNeighbor(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.WallCells.Add(domain.Cell{X: 3, Y: 2})
	l.WallCells.Add(domain.Cell{X: 3, Y: 1})

	if nx, ny := CellEdgeNudge(l, nil, 100, 82, 1, 0); nx != 0 || ny != 0 {
		t.Fatalf("blocked neighbor must not nudge, got (%v, %v)", nx, ny)
	}
}
