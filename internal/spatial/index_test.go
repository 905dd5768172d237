package spatial

import (
	"math/rand"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

type testBody struct {
	m     *domain.Mover
	kinds domain.Kind
}

func scatterBodies(rng *rand.Rand, ix *Index, n int) []testBody {
	kinds := []domain.Kind{
		domain.KindPlayer, domain.KindCar, domain.KindZombie,
		domain.KindZombieDog, domain.KindTrappedZombie,
		domain.KindSurvivor, domain.KindPatrolBot,
	}

	bodies := make([]testBody, 0, n)
	for i := 0; i < n; i++ {
		b := testBody{
			m: &domain.Mover{
				X:      rng.Float64()*800 - 100,
				Y:      rng.Float64()*600 - 100,
				Radius: 4 + rng.Float64()*20,
			},
			kinds: kinds[rng.Intn(len(kinds))],
		}
		bodies = append(bodies, b)
		ix.Insert(b.m, b.kinds)
	}
	return bodies
}

func TestQueryRadiusMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(1234))
	ix := NewIndex(32)
	bodies := scatterBodies(rng, ix, 120)

	for q := 0; q < 200; q++ {
		cx := rng.Float64()*900 - 150
		cy := rng.Float64()*700 - 150
		r := rng.Float64() * 180
		mask := domain.Kind(rng.Uint32()) & domain.KindAll
		if mask == 0 {
			mask = domain.KindAll
		}

		want := make(map[Entity]bool)
		for _, b := range bodies {
			if b.kinds&mask == 0 {
				continue
			}
			dx := b.m.X - cx
			dy := b.m.Y - cy
			if dx*dx+dy*dy <= r*r {
				want[b.m] = true
			}
		}

		got := ix.QueryRadius(cx, cy, r, mask)
		if len(got) != len(want) {
			t.Fatalf("Query %d: expected %d hits, got %d", q, len(want), len(got))
		}
		for _, e := range got {
			if !want[e] {
				t.Fatalf("Query %d: unexpected entity at %v", q, e)
			}
		}
	}
}

func TestQueryAABBMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(777))
	ix := NewIndex(32)
	bodies := scatterBodies(rng, ix, 120)

	for q := 0; q < 200; q++ {
		rect := geom.Rect{
			X: rng.Float64()*900 - 150,
			Y: rng.Float64()*700 - 150,
			W: rng.Float64() * 300,
			H: rng.Float64() * 300,
		}

		want := make(map[Entity]bool)
		for _, b := range bodies {
			if rect.ContainsPoint(b.m.X, b.m.Y) {
				want[b.m] = true
			}
		}

		got := ix.QueryAABB(rect, domain.KindAll)
		if len(got) != len(want) {
			t.Fatalf("Query %d: expected %d hits, got %d", q, len(want), len(got))
		}
		for _, e := range got {
			if !want[e] {
				t.Fatalf("Query %d: unexpected entity at %v", q, e)
			}
		}
	}
}

func TestQueryDeduplicatesStraddlingEntity(t *testing.T) {
	ix := NewIndex(32)

	// Радиус 40 при клетке 32: тело лежит в девяти ведрах сразу
	fat := &domain.Mover{X: 32, Y: 32, Radius: 40}
	ix.Insert(fat, domain.KindZombie)

	got := ix.QueryRadius(32, 32, 100, domain.KindAll)
	if len(got) != 1 {
		t.Fatalf("Expected single hit for straddling entity, got %d", len(got))
	}
}

func TestQueryRadiusBoundaryInclusive(t *testing.T) {
	ix := NewIndex(32)
	edge := &domain.Mover{X: 10, Y: 0, Radius: 3}
	ix.Insert(edge, domain.KindZombie)

	if got := ix.QueryRadius(0, 0, 10, domain.KindAll); len(got) != 1 {
		t.Errorf("Expected center exactly on radius included, got %d hits", len(got))
	}
	if got := ix.QueryRadius(0, 0, 9.999, domain.KindAll); len(got) != 0 {
		t.Errorf("Expected center outside radius excluded, got %d hits", len(got))
	}
}

func TestQueryCompositeKindMask(t *testing.T) {
	ix := NewIndex(32)
	z := &domain.Mover{X: 10, Y: 10, Radius: 10}
	dog := &domain.Mover{X: 20, Y: 10, Radius: 8}
	trapped := &domain.Mover{X: 30, Y: 10, Radius: 10}
	ix.Insert(z, domain.KindZombie)
	ix.Insert(dog, domain.KindZombieDog)
	ix.Insert(trapped, domain.KindTrappedZombie)

	// Все зомби кроме собак
	got := ix.QueryRadius(20, 10, 50, domain.KindZombie|domain.KindTrappedZombie)
	if len(got) != 2 {
		t.Fatalf("Expected 2 hits without dogs, got %d", len(got))
	}
	for _, e := range got {
		if e == Entity(dog) {
			t.Error("Expected dog filtered out")
		}
	}
}

func TestResetClearsIndex(t *testing.T) {
	ix := NewIndex(32)
	ix.Insert(&domain.Mover{X: 5, Y: 5, Radius: 5}, domain.KindZombie)
	ix.Reset()

	if got := ix.QueryRadius(5, 5, 50, domain.KindAll); len(got) != 0 {
		t.Fatalf("Expected empty index after reset, got %d hits", len(got))
	}
}

func TestWallIndexRebuildDropsDead(t *testing.T) {
	a := domain.NewWall(geom.Rect{X: 0, Y: 0, W: 40, H: 40}, domain.Cell{X: 0, Y: 0}, domain.WallInner, 3, 0, 0)
	b := domain.NewWall(geom.Rect{X: 90, Y: 0, W: 40, H: 40}, domain.Cell{X: 2, Y: 0}, domain.WallInner, 3, 0, 0)

	wx := NewWallIndex(100)
	wx.Rebuild([]*domain.Wall{a, b})

	// Стена b лежит на границе ведер 0 и 1 - вернуться должна один раз
	near := wx.NearCircle(70, 20, 60)
	if len(near) != 2 {
		t.Fatalf("Expected both walls near, got %d", len(near))
	}

	a.TakeDamage(10)
	wx.Rebuild([]*domain.Wall{a, b})

	near = wx.NearCircle(70, 20, 60)
	if len(near) != 1 || near[0] != b {
		t.Fatalf("Expected only surviving wall after rebuild, got %d", len(near))
	}
}
