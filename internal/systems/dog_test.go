package systems

import (
	"math"
	"testing"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

func dogAt(idx uint32, x, y float64) *domain.Agent {
	a := agentAt(idx, x, y, domain.BehaviorDog)
	a.Kind = domain.KindZombieDog
	a.Radius = domain.DogRadius
	a.Speed = domain.DogPatrolSpeed
	a.FacingX = 1
	return a
}

func TestDogTryBiteHonorsInterval(t *testing.T) {
	dog := dogAt(1, 0, 0)
	victim := agentAt(2, 10, 0, domain.BehaviorNormal)
	victim.Vitals = domain.NewVitals(domain.ZombieMaxHealth, domain.ZombieDecayDurationFrames,
		domain.ZombieDecayMinSpeedRatio, domain.ZombieCarbonizeDecayFrames)

	if !DogTryBite(dog, victim, 100, 1_600) {
		t.Fatal("Expected first bite to land")
	}
	if victim.Vitals.Health != domain.ZombieMaxHealth-domain.DogBiteDamage {
		t.Errorf("Expected bite damage, health=%d", victim.Vitals.Health)
	}

	// Следующий кадр: интервал укуса еще не вышел
	if DogTryBite(dog, victim, 101, 1_616) {
		t.Error("Expected bite interval to gate the second bite")
	}

	if !DogTryBite(dog, victim, 100+domain.DogBiteFrames, 2_100) {
		t.Error("Expected bite after interval")
	}
}

func TestDogTryBiteRequiresHeadContact(t *testing.T) {
	dog := dogAt(1, 0, 0)
	dog.FacingX = -1 // голова смотрит от жертвы

	victim := agentAt(2, 25, 0, domain.BehaviorNormal)
	victim.Vitals = domain.NewVitals(domain.ZombieMaxHealth, domain.ZombieDecayDurationFrames,
		domain.ZombieDecayMinSpeedRatio, domain.ZombieCarbonizeDecayFrames)

	if DogTryBite(dog, victim, 100, 1_600) {
		t.Error("Expected miss when head points away")
	}
}

func TestDogTryBiteFinishesDecayedVictim(t *testing.T) {
	dog := dogAt(1, 0, 0)

	// Распад доест жертву в пределах секунды: добивающий укус в ноль
	victim := agentAt(2, 10, 0, domain.BehaviorNormal)
	victim.Vitals = domain.NewVitals(60, domain.FPS, 0.35, 10)

	if !DogTryBite(dog, victim, 100, 1_600) {
		t.Fatal("Expected finishing bite")
	}
	if victim.Vitals.Health != 0 {
		t.Errorf("Expected victim finished, health=%d", victim.Vitals.Health)
	}
}

func TestDogSteerLocksChargeOnVisiblePlayer(t *testing.T) {
	dog := dogAt(1, 100, 100)

	s := &Sense{
		Layout:    domain.NewLayout(20, 20, 40),
		Target:    geom.Vec2{X: 250, Y: 100},
		HasTarget: true,
	}

	dx, dy := DogSteer(dog, s)

	if dog.Dog.Mode != domain.DogCharge {
		t.Fatalf("Expected charge lock, mode=%v", dog.Dog.Mode)
	}
	if dog.Dog.ChargeDX != 1 || dog.Dog.ChargeDY != 0 {
		t.Errorf("Expected charge direction (1, 0), got (%f, %f)", dog.Dog.ChargeDX, dog.Dog.ChargeDY)
	}
	if math.Abs(dx-domain.DogChargeSpeed) > 1e-9 || dy != 0 {
		t.Errorf("Expected full charge speed, got (%f, %f)", dx, dy)
	}
}

func TestDogSteerChargeBreaksAtWallAhead(t *testing.T) {
	l := domain.NewLayout(20, 20, 40)
	l.WallCells.Add(domain.Cell{X: 3, Y: 2})

	dog := dogAt(1, 100, 100)
	dog.Dog.Mode = domain.DogCharge
	dog.Dog.ChargeDX = 1

	s := &Sense{
		Layout:    l,
		Target:    geom.Vec2{X: 250, Y: 100},
		HasTarget: true,
	}

	dx, dy := DogSteer(dog, s)

	if dog.Dog.Mode != domain.DogWander {
		t.Errorf("Expected charge broken at wall, mode=%v", dog.Dog.Mode)
	}
	if dx != 0 || dy != 0 {
		t.Errorf("Expected stop on break frame, got (%f, %f)", dx, dy)
	}
}

func TestDogSteerChasesPackVictim(t *testing.T) {
	dog := dogAt(1, 100, 100)
	victim := agentAt(2, 160, 100, domain.BehaviorNormal)
	victim.Vitals = domain.NewVitals(domain.ZombieMaxHealth, domain.ZombieDecayDurationFrames,
		domain.ZombieDecayMinSpeedRatio, domain.ZombieCarbonizeDecayFrames)

	s := &Sense{
		Layout: domain.NewLayout(20, 20, 40),
		Nearby: []*domain.Agent{victim},
	}

	DogSteer(dog, s)
	if dog.Dog.Mode != domain.DogChase {
		t.Fatalf("Expected chase mode near pack victim, mode=%v", dog.Dog.Mode)
	}

	dx, _ := DogSteer(dog, s)
	if dx <= 0 {
		t.Errorf("Expected chase toward victim, dx=%f", dx)
	}
}
