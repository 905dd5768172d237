package systems

import (
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

func materialLookup(mats ...*domain.Material) func(domain.EntityID) *domain.Material {
	byID := make(map[domain.EntityID]*domain.Material, len(mats))
	for _, m := range mats {
		byID[m.ID] = m
	}
	return func(id domain.EntityID) *domain.Material {
		return byID[id]
	}
}

func TestCarrierPickupRequiresFullOverlap(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)

	bot := domain.NewCarrierBot(25, 25, true, 1, 10, 14)
	bot.ID = domain.PackEntityID(domain.ClassCarrierBot, 1, 1)

	mat := domain.NewMaterial(55, 25, 12, domain.Cell{X: 1, Y: 0})
	mat.ID = domain.PackEntityID(domain.ClassMaterial, 1, 1)
	l.MaterialCells.Add(mat.Cell)

	mats := []*domain.Material{mat}
	lookup := materialLookup(mat)

	// Два тика: бот в (45, 25), зазор 10 > |14 - 6| — перекрытие
	// неполное, подбора нет
	CarrierBotTick(bot, l, nil, nil, mats, lookup)
	CarrierBotTick(bot, l, nil, nil, mats, lookup)

	if bot.X != 45 || bot.Carrying() {
		t.Fatalf("Expected bot at 45 without cargo, got X=%f carrying=%v", bot.X, bot.Carrying())
	}

	// Третий тик: центры совпали, полное перекрытие — подбор и разворот
	CarrierBotTick(bot, l, nil, nil, mats, lookup)

	if !bot.Carrying() || bot.CarryingID != mat.ID {
		t.Fatal("Expected pickup on full overlap")
	}
	if bot.Dir != -1 {
		t.Errorf("Expected reverse after pickup, dir=%f", bot.Dir)
	}
	if !mat.Carried() || mat.CarriedBy != bot.ID {
		t.Error("Expected material back-reference to bot")
	}
	if l.MaterialCells.Has(mat.Cell) {
		t.Error("Expected cell freed on pickup")
	}
}

func TestCarrierCargoFollowsBot(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)

	bot := domain.NewCarrierBot(100, 60, true, 1, 10, 14)
	bot.ID = domain.PackEntityID(domain.ClassCarrierBot, 1, 1)

	mat := domain.NewMaterial(100, 60, 12, domain.Cell{X: 2, Y: 1})
	mat.ID = domain.PackEntityID(domain.ClassMaterial, 1, 1)
	mat.CarriedBy = bot.ID
	bot.CarryingID = mat.ID

	CarrierBotTick(bot, l, nil, nil, []*domain.Material{mat}, materialLookup(mat))

	if bot.X != 110 {
		t.Fatalf("Expected bot at 110, got %f", bot.X)
	}
	if mat.X != bot.X || mat.Y != bot.Y {
		t.Errorf("Expected cargo at bot position, got (%f, %f)", mat.X, mat.Y)
	}
}

func TestCarrierDropsCargoAtObstacle(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	walls := []*domain.Wall{wallAtCell(2, 0)} // rect 80..120 x 0..40

	bot := domain.NewCarrierBot(65, 25, true, 1, 10, 14)
	bot.ID = domain.PackEntityID(domain.ClassCarrierBot, 1, 1)

	mat := domain.NewMaterial(65, 25, 12, domain.Cell{})
	mat.ID = domain.PackEntityID(domain.ClassMaterial, 1, 1)
	mat.CarriedBy = bot.ID
	bot.CarryingID = mat.ID

	mats := []*domain.Material{mat}
	lookup := materialLookup(mat)

	CarrierBotTick(bot, l, walls, nil, mats, lookup)

	if bot.Carrying() {
		t.Fatal("Expected cargo dropped at wall")
	}
	if bot.Dir != -1 {
		t.Errorf("Expected reverse at wall, dir=%f", bot.Dir)
	}
	// Первая годная клетка — текущая (1, 0), груз ложится в её центр
	if mat.X != 60 || mat.Y != 20 {
		t.Errorf("Expected drop at cell center (60, 20), got (%f, %f)", mat.X, mat.Y)
	}
	if !l.MaterialCells.Has(domain.Cell{X: 1, Y: 0}) {
		t.Error("Expected dropped material to occupy its cell")
	}
	if bot.LastDroppedID != mat.ID {
		t.Error("Expected drop cooldown armed")
	}

	// Кулдаун дистанционный: не отойдя от точки сброса, бот не
	// подбирает тот же материал заново
	CarrierBotTick(bot, l, walls, nil, mats, lookup)
	if bot.Carrying() {
		t.Error("Expected drop cooldown to block immediate re-pickup")
	}
}

func TestCarrierReversesAtHazardCell(t *testing.T) {
	l := domain.NewLayout(10, 10, 40)
	l.PitfallCells.Add(domain.Cell{X: 3, Y: 1})

	bot := domain.NewCarrierBot(105, 60, true, 1, 10, 14)
	bot.ID = domain.PackEntityID(domain.ClassCarrierBot, 1, 1)

	// Упреждающая клетка по курсу — яма: разворот вместо хода
	CarrierBotTick(bot, l, nil, nil, nil, materialLookup())

	if bot.X != 105 {
		t.Fatalf("Expected no move into pit, got X=%f", bot.X)
	}
	if bot.Dir != -1 {
		t.Errorf("Expected reverse before pit, dir=%f", bot.Dir)
	}
}
