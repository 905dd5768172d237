package domain

import "math"

// Vitals — здоровье и распад зомби.
//
// Здоровье монотонно утекает в ноль за DecayDurationFrames кадров
// (дробный остаток копится в carry, чтобы медленный распад не терялся
// на целочисленном здоровье). Отношение здоровья к максимуму даёт
// коэффициент скорости: ослабевшие зомби замедляются до
// DecayMinSpeedRatio от базовой скорости.
//
// Колбэки (OnHealthRatio, OnKill, OnCarbonize) — слабая связь с
// владельцем: Vitals не знает про агента и уж тем более про спрайты.
type Vitals struct {
	MaxHealth int
	Health    int

	DecayDurationFrames  int
	DecayMinSpeedRatio   float64
	CarbonizeDecayFrames int

	Carbonized bool

	LastDamageMS     int64
	LastDamageSource string

	ParalyzedUntilMS int64

	OnHealthRatio func(ratio float64)
	OnKill        func()
	OnCarbonize   func()

	decayCarry       float64
	paralyzeDmgCount int
	killed           bool
}

// NewVitals создает жизненные показатели. maxHealth поднимается до 1,
// decayDurationFrames — до 1: нулевые знаменатели недопустимы.
func NewVitals(maxHealth, decayDurationFrames int, minSpeedRatio float64, carbonizeDecayFrames int) *Vitals {
	if maxHealth < 1 {
		maxHealth = 1
	}
	if decayDurationFrames < 1 {
		decayDurationFrames = 1
	}
	return &Vitals{
		MaxHealth:            maxHealth,
		Health:               maxHealth,
		DecayDurationFrames:  decayDurationFrames,
		DecayMinSpeedRatio:   minSpeedRatio,
		CarbonizeDecayFrames: carbonizeDecayFrames,
	}
}

// HealthRatio возвращает долю оставшегося здоровья [0..1].
func (v *Vitals) HealthRatio() float64 {
	return float64(v.Health) / float64(v.MaxHealth)
}

// SpeedRatio возвращает коэффициент скорости по текущему здоровью.
// Карбонизированные не двигаются вовсе.
func (v *Vitals) SpeedRatio() float64 {
	if v.Carbonized {
		return 0
	}
	return v.DecayMinSpeedRatio + (1-v.DecayMinSpeedRatio)*v.HealthRatio()
}

// setHealth — единственная точка изменения здоровья: клампит, дёргает
// OnHealthRatio и ровно один раз OnKill при достижении нуля.
func (v *Vitals) setHealth(h int) {
	if h < 0 {
		h = 0
	}
	if h > v.MaxHealth {
		h = v.MaxHealth
	}
	v.Health = h

	if v.OnHealthRatio != nil {
		v.OnHealthRatio(v.HealthRatio())
	}
	if v.Health == 0 && !v.killed {
		v.killed = true
		if v.OnKill != nil {
			v.OnKill()
		}
	}
}

// ApplyDecay списывает кадровую долю распада. Вызывается один раз
// за кадр, в том числе для парализованных и карбонизированных.
func (v *Vitals) ApplyDecay() {
	if v.Health == 0 {
		return
	}
	v.decayCarry += float64(v.MaxHealth) / float64(v.DecayDurationFrames)
	whole := int(v.decayCarry)
	if whole > 0 {
		v.decayCarry -= float64(whole)
		v.setHealth(v.Health - whole)
	}
}

// TakeDamage наносит урон и запоминает время и источник.
// Неположительный урон игнорируется.
func (v *Vitals) TakeDamage(amount int, nowMS int64, source string) {
	if amount <= 0 {
		return
	}
	v.LastDamageMS = nowMS
	v.LastDamageSource = source
	v.setHealth(v.Health - amount)
}

// Carbonize обугливает зомби: остаток жизни клампится так, чтобы тело
// дотлело за CarbonizeDecayFrames, накопленный остаток распада
// сбрасывается. Повторные вызовы — no-op.
func (v *Vitals) Carbonize() {
	if v.Carbonized {
		return
	}
	v.Carbonized = true

	scale := float64(v.CarbonizeDecayFrames) / float64(v.DecayDurationFrames)
	if scale > 1 {
		scale = 1
	}
	capped := int(math.Round(float64(v.MaxHealth) * scale))
	if capped < 1 {
		capped = 1
	}
	if v.Health > capped {
		v.Health = capped
	}
	v.decayCarry = 0

	if v.OnHealthRatio != nil {
		v.OnHealthRatio(0)
	}
	if v.OnCarbonize != nil {
		v.OnCarbonize()
	}
}

// Paralyze продлевает паралич до отметки untilMS (только вперёд).
func (v *Vitals) Paralyze(untilMS int64) {
	if untilMS > v.ParalyzedUntilMS {
		v.ParalyzedUntilMS = untilMS
	}
}

// Paralyzed сообщает, парализован ли зомби в данный момент.
func (v *Vitals) Paralyzed(nowMS int64) bool {
	return nowMS < v.ParalyzedUntilMS
}

// ParalyzeContactTick — кадровый счетчик урона от контакта с патрульным
// ботом: каждый interval-й кадр контакта наносит damage.
func (v *Vitals) ParalyzeContactTick(interval, damage int, nowMS int64) {
	if interval < 1 {
		interval = 1
	}
	v.paralyzeDmgCount = (v.paralyzeDmgCount + 1) % interval
	if v.paralyzeDmgCount == 0 {
		v.TakeDamage(damage, nowMS, "patrol_bot")
	}
}

// FramesToZero оценивает, за сколько кадров распад доест остаток жизни.
func (v *Vitals) FramesToZero() float64 {
	perFrame := float64(v.MaxHealth) / float64(v.DecayDurationFrames)
	return float64(v.Health) / perFrame
}

// Dead сообщает, что здоровье исчерпано.
func (v *Vitals) Dead() bool {
	return v.Health == 0
}
