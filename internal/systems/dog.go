package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// DogSteer — зомби-собака: три режима. Блуждает на своем интервале;
// увидев игрока в DogSightRange, срывается в рывок по зафиксированному
// при захвате направлению (рывок кончается у стены, ямы или при потере
// игрока); без игрока гонится за ближним не-собачьим зомби в радиусе
// стаи, чтобы кусать его.
func DogSteer(a *domain.Agent, s *Sense) (float64, float64) {
	ratio := 1.0
	if a.Vitals != nil {
		ratio = a.Vitals.SpeedRatio()
	}

	switch a.Dog.Mode {
	case domain.DogCharge:
		if s.Layout != nil {
			ahead := s.Layout.CellAt(
				a.X+a.Dog.ChargeDX*s.Layout.CellSize*0.6,
				a.Y+a.Dog.ChargeDY*s.Layout.CellSize*0.6,
			)
			if s.Layout.IsSolid(ahead) || s.Layout.PitfallCells.Has(ahead) {
				a.Dog.Mode = domain.DogWander
				return 0, 0
			}
		}
		if !s.HasTarget ||
			math.Hypot(s.Target.X-a.X, s.Target.Y-a.Y) > domain.DogSightRange*1.5 {
			a.Dog.Mode = domain.DogWander
			return 0, 0
		}
		speed := domain.DogChargeSpeed * ratio
		return a.Dog.ChargeDX * speed, a.Dog.ChargeDY * speed

	case domain.DogChase:
		if tryLockCharge(a, s) {
			speed := domain.DogChargeSpeed * ratio
			return a.Dog.ChargeDX * speed, a.Dog.ChargeDY * speed
		}
		victim := nearestBiteVictim(a, s)
		if victim == nil {
			a.Dog.Mode = domain.DogWander
			return dogWander(a, s)
		}
		dx, dy := seek(a.X, a.Y, victim.Pos(), domain.DogChargeSpeed*0.9*ratio)
		sx, sy := separation(a, s.Nearby, domain.DogSeparation)
		return dx + sx, dy + sy

	default:
		if tryLockCharge(a, s) {
			speed := domain.DogChargeSpeed * ratio
			return a.Dog.ChargeDX * speed, a.Dog.ChargeDY * speed
		}
		if nearestBiteVictim(a, s) != nil {
			a.Dog.Mode = domain.DogChase
		}
		return dogWander(a, s)
	}
}

// tryLockCharge фиксирует направление рывка на видимого игрока.
func tryLockCharge(a *domain.Agent, s *Sense) bool {
	if !s.HasTarget {
		return false
	}
	dx := s.Target.X - a.X
	dy := s.Target.Y - a.Y
	d := math.Hypot(dx, dy)
	if d == 0 || d > domain.DogSightRange {
		return false
	}
	if !LineOfSight(s.Layout, a.X, a.Y, s.Target.X, s.Target.Y) {
		return false
	}
	a.Dog.Mode = domain.DogCharge
	a.Dog.ChargeDX = dx / d
	a.Dog.ChargeDY = dy / d
	return true
}

func dogWander(a *domain.Agent, s *Sense) (float64, float64) {
	return wanderCore(a, s, domain.DogWanderIntervalMS, domain.DogWanderIntervalMS/2)
}

// nearestBiteVictim ищет ближнего живого не-собачьего зомби в радиусе
// стаи. Обугленные не считаются: грызть нечего.
func nearestBiteVictim(a *domain.Agent, s *Sense) *domain.Agent {
	var best *domain.Agent
	bestDist := math.Inf(1)
	for _, o := range s.Nearby {
		if o == nil || o == a || o.Dead || o.Behavior == domain.BehaviorDog || o.Carbonized() {
			continue
		}
		d := math.Hypot(o.X-a.X, o.Y-a.Y)
		if d <= domain.DogPackChaseRange && d < bestDist {
			best = o
			bestDist = d
		}
	}
	return best
}

// DogHeadCircle возвращает круг головы по текущему развороту тела.
func DogHeadCircle(a *domain.Agent) (float64, float64, float64) {
	fx, fy := a.FacingX, a.FacingY
	l := math.Hypot(fx, fy)
	if l == 0 {
		fx, fy, l = 1, 0, 1
	}
	off := a.Radius * domain.DogLongAxisRatio * 0.5
	return a.X + fx/l*off, a.Y + fy/l*off, a.Radius * domain.DogHeadRadiusRatio
}

// DogTryBite кусает жертву головой с кадровым интервалом. Жертве,
// которой распад и так обнулит здоровье в пределах секунды, достается
// добивающий укус на весь остаток.
func DogTryBite(a *domain.Agent, victim *domain.Agent, frame int64, nowMS int64) bool {
	if a == nil || victim == nil || victim.Dead || victim.Vitals == nil {
		return false
	}
	if frame-a.Dog.BiteFrame < domain.DogBiteFrames {
		return false
	}

	hx, hy, hr := DogHeadCircle(a)
	if math.Hypot(victim.X-hx, victim.Y-hy) > hr+victim.Radius {
		return false
	}

	a.Dog.BiteFrame = frame
	if victim.Vitals.FramesToZero() <= domain.FPS {
		victim.Vitals.TakeDamage(victim.Vitals.Health, nowMS, "dog_finish")
	} else {
		victim.Vitals.TakeDamage(domain.DogBiteDamage, nowMS, "dog")
	}
	return true
}
