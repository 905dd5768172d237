package systems

import (
	"os"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()

	os.Exit(m.Run())
}

// wallAtCell строит обычную стену в клетке (cx, cy) сетки 40x40.
func wallAtCell(cx, cy int) *domain.Wall {
	return domain.NewWall(
		geom.Rect{X: float64(cx) * 40, Y: float64(cy) * 40, W: 40, H: 40},
		domain.Cell{X: cx, Y: cy},
		domain.WallInner, 10, 0, 0,
	)
}

// agentAt — минимальный живой агент для поведенческих тестов.
func agentAt(idx uint32, x, y float64, b domain.Behavior) *domain.Agent {
	return &domain.Agent{
		Mover:    domain.Mover{X: x, Y: y, Radius: domain.ZombieRadius},
		ID:       domain.PackEntityID(domain.ClassAgent, 1, idx),
		Kind:     domain.KindZombie,
		Behavior: b,
		Speed:    domain.ZombieBaseSpeed,
	}
}

// lookupOf собирает резолвер слабых ссылок по списку агентов.
func lookupOf(agents ...*domain.Agent) func(domain.EntityID) *domain.Agent {
	byID := make(map[domain.EntityID]*domain.Agent, len(agents))
	for _, a := range agents {
		byID[a.ID] = a
	}
	return func(id domain.EntityID) *domain.Agent {
		return byID[id]
	}
}
