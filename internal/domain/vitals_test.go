package domain

import (
	"math"
	"testing"
)

func TestVitalsDecayReachesZeroExactly(t *testing.T) {
	// 10 здоровья за 25 кадров: 0.4 за кадр, дробный остаток
	// обязан накапливаться без потерь
	v := NewVitals(10, 25, 0.3, 5)

	killed := 0
	v.OnKill = func() { killed++ }

	for i := 0; i < 25; i++ {
		v.ApplyDecay()
	}

	if v.Health != 0 {
		t.Errorf("Expected health 0 after full decay window, got %d", v.Health)
	}
	if killed != 1 {
		t.Errorf("Expected OnKill exactly once, fired %d times", killed)
	}

	// Распад мертвого - no-op
	v.ApplyDecay()
	if killed != 1 {
		t.Error("Expected no second OnKill")
	}
}

func TestVitalsSpeedRatioFloor(t *testing.T) {
	v := NewVitals(100, 1000, 0.35, 10)

	if r := v.SpeedRatio(); r != 1.0 {
		t.Errorf("Expected full speed at full health, got %f", r)
	}

	v.TakeDamage(50, 1000, "test")
	want := 0.35 + 0.65*0.5
	if r := v.SpeedRatio(); math.Abs(r-want) > 1e-9 {
		t.Errorf("Expected speed ratio %f at half health, got %f", want, r)
	}

	v.TakeDamage(49, 2000, "test")
	if r := v.SpeedRatio(); r < 0.35 {
		t.Errorf("Expected speed ratio floor 0.35, got %f", r)
	}

	if v.LastDamageMS != 2000 || v.LastDamageSource != "test" {
		t.Error("Expected last damage bookkeeping")
	}
}

func TestVitalsCarbonizeClampsRemainingLife(t *testing.T) {
	// Распад на 600 кадров, обугленное тело должно дотлеть за 60:
	// кламп здоровья до round(100 * 60/600) = 10
	v := NewVitals(100, 600, 0.35, 60)

	carbonized := 0
	v.OnCarbonize = func() { carbonized++ }

	v.Carbonize()

	if !v.Carbonized {
		t.Fatal("Expected carbonized flag")
	}
	if v.Health != 10 {
		t.Errorf("Expected health clamped to 10, got %d", v.Health)
	}
	if v.SpeedRatio() != 0 {
		t.Error("Expected carbonized zombie to stop moving")
	}
	if carbonized != 1 {
		t.Errorf("Expected OnCarbonize once, fired %d", carbonized)
	}

	// Повторная карбонизация - no-op
	v.Carbonize()
	if carbonized != 1 {
		t.Error("Expected no second OnCarbonize")
	}

	// Уже ослабевший зомби не лечится карбонизацией
	v2 := NewVitals(100, 600, 0.35, 60)
	v2.TakeDamage(95, 0, "test")
	v2.Carbonize()
	if v2.Health != 5 {
		t.Errorf("Expected min(current, clamp), got %d", v2.Health)
	}
}

func TestVitalsParalyzeExtendsOnlyForward(t *testing.T) {
	v := NewVitals(10, 100, 0.35, 10)

	v.Paralyze(5000)
	if !v.Paralyzed(4000) {
		t.Error("Expected paralyzed before deadline")
	}
	if v.Paralyzed(5000) {
		t.Error("Expected free at deadline")
	}

	// Более ранняя отметка не укорачивает паралич
	v.Paralyze(3000)
	if !v.Paralyzed(4500) {
		t.Error("Expected paralysis kept at max deadline")
	}

	v.Paralyze(8000)
	if !v.Paralyzed(7000) {
		t.Error("Expected paralysis extended")
	}
}

func TestVitalsParalyzeContactDamage(t *testing.T) {
	v := NewVitals(10, 100000, 0.35, 10)

	// Каждый 4-й кадр контакта наносит 1 урона
	for i := 0; i < 8; i++ {
		v.ParalyzeContactTick(4, 1, int64(i)*17)
	}

	if v.Health != 8 {
		t.Errorf("Expected 2 damage over 8 contact frames, health %d", v.Health)
	}
}
