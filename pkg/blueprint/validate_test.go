package blueprint

import (
	"errors"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// Небольшой чертеж-песочница: внешний мир, внешняя стена с выходом
// справа, игрок слева.
const tinyLevel = `
OOOOOOOOOO
OBBBBBBBBO
OB......BO
OB.P....EO
OB......BO
OBBBBBBBBO
OOOOOOOOOO
`

func TestHumanoidReachFindsExit(t *testing.T) {
	g := ParseGrid(tinyLevel)
	players := g.Find(TilePlayerSpawn)
	if len(players) != 1 {
		t.Fatalf("Expected 1 player spawn, got %d", len(players))
	}

	reach := humanoidReach(g, players[0])
	exits := g.Find(TileExit)
	if !anyReachable(reach, exits) {
		t.Error("Expected exit reachable on an open floor")
	}
}

func TestHumanoidReachBlockedByWallLine(t *testing.T) {
	g := ParseGrid(`
OOOOOOOOOO
OBBBBBBBBO
OB..1...BO
OB.P1...EO
OB..1...BO
OBBBBBBBBO
OOOOOOOOOO
`)
	reach := humanoidReach(g, g.Find(TilePlayerSpawn)[0])
	if anyReachable(reach, g.Find(TileExit)) {
		t.Error("Expected full-height wall line to cut the exit off")
	}
}

func TestHumanoidReachPitfallImpassable(t *testing.T) {
	g := ParseGrid(`
OOOOOOOOOO
OBBBBBBBBO
OB......BO
OB.PxxxxEO
OB..x...BO
OBBBBBBBBO
OOOOOOOOOO
`)
	reach := humanoidReach(g, g.Find(TilePlayerSpawn)[0])
	// Ямы непроходимы, но обход по верхнему ряду открыт
	if !anyReachable(reach, g.Find(TileExit)) {
		t.Error("Expected route over the top row")
	}
	for _, pit := range g.Find(TilePitfall) {
		if reach.Has(pit) {
			t.Errorf("Expected pitfall %v excluded from reach", pit)
		}
	}
}

// Единственный проход перекрыт движущимся полом, толкающим влево:
// войти слева (шаг вправо, против тяги) нельзя, справа — можно.
func TestMovingFloorIsOneWay(t *testing.T) {
	g := ParseGrid(`
OOOOOOOOOO
OBBBBBBBBO
OB.P1...BO
OB..<...EO
OB..1...BO
OBBBBBBBBO
OOOOOOOOOO
`)
	fromLeft := humanoidReach(g, g.Find(TilePlayerSpawn)[0])
	if anyReachable(fromLeft, g.Find(TileExit)) {
		t.Error("Expected push-left belt to block eastbound entry")
	}

	// От выхода в обратную сторону тот же пояс проходим
	exit := g.Find(TileExit)[0]
	fromRight := humanoidReach(g, domain.Cell{X: exit.X - 1, Y: exit.Y})
	if !fromRight.Has(g.Find(TilePlayerSpawn)[0]) {
		t.Error("Expected westbound entry to ride the belt through")
	}
}

func TestCarReachRespectsHazards(t *testing.T) {
	g := ParseGrid(`
OOOOOOOOOO
OBBBBBBBBO
OB.C1wm.BO
OB......EO
OB..FFF.BO
OBBBBBBBBO
OOOOOOOOOO
`)
	reach := carReach(g, g.Find(TileCarSpawn)[0])

	// Горящий пол для машины непроходим, лужа и металл — проходимы
	for _, f := range g.Find(TileFireFloor) {
		if reach.Has(f) {
			t.Errorf("Expected fire floor %v blocked for car", f)
		}
	}
	if !reach.Has(g.Find(TilePuddle)[0]) {
		t.Error("Expected puddle passable for car")
	}
	if !reach.Has(g.Find(TileMetalFloor)[0]) {
		t.Error("Expected metal floor passable for car")
	}
}

func TestCarReachContinuesOutside(t *testing.T) {
	g := ParseGrid(tinyLevel)
	// Машина от клетки игрока: через выход должна выбраться наружу
	reach := carReach(g, g.Find(TilePlayerSpawn)[0])
	exit := g.Find(TileExit)[0]
	if !reach.Has(exit) {
		t.Fatal("Expected exit reachable")
	}
	if !reach.Has(domain.Cell{X: exit.X + 1, Y: exit.Y}) {
		t.Error("Expected outside cell behind the exit reachable")
	}

	// Без проема наружу не выехать
	sealed := ParseGrid(`
OOOOOO
OBBBBO
OB.PBO
OBBBBO
OOOOOO
`)
	sealedReach := carReach(sealed, sealed.Find(TilePlayerSpawn)[0])
	for _, c := range sealed.Find(TileOutside) {
		if sealedReach.Has(c) {
			t.Fatalf("Expected outside cell %v unreachable in a sealed box", c)
		}
	}
}

func TestValidateConnectivityFuelChain(t *testing.T) {
	g := ParseGrid(`
OOOOOOOOOOOO
OBBBBBBBBBBO
OB.P.e.f.CBO
OB........EO
OBBBBBBBBBBO
OOOOOOOOOOOO
`)
	opts := Options{RequireCar: true, RequireFuelChain: true, RequirePlayerExitPath: true}
	reach, err := ValidateConnectivity(g, opts)
	if err != nil {
		t.Fatalf("Expected valid level, got %v", err)
	}
	if !reach.Has(g.Find(TileExit)[0]) {
		t.Error("Expected exit in car-reachable set")
	}
}

func TestValidateConnectivityBrokenChain(t *testing.T) {
	// Канистра замурована: цепочка заправки рвется на первом звене
	g := ParseGrid(`
OOOOOOOOOOOO
OBBBBBBBBBBO
OB.P.1e1.CBO
OB...111..EO
OBBBBBBBBBBO
OOOOOOOOOOOO
`)
	opts := Options{RequireCar: true, RequireFuelChain: true}
	if _, err := ValidateConnectivity(g, opts); err == nil {
		t.Error("Expected walled-in fuel can to fail validation")
	}
}

func TestValidateConnectivityMissingSpawns(t *testing.T) {
	g := ParseGrid(`
OOOO
OBEO
OOOO
`)
	if _, err := ValidateConnectivity(g, Options{}); !errors.Is(err, errNoPlayerSpawn) {
		t.Errorf("Expected errNoPlayerSpawn, got %v", err)
	}

	g2 := ParseGrid(`
OOOO
OPBO
OOOO
`)
	if _, err := ValidateConnectivity(g2, Options{}); !errors.Is(err, errNoExit) {
		t.Errorf("Expected errNoExit, got %v", err)
	}
}
