package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
)

// TrackerSteer — следопыт: видимая цель преследуется напрямую, вне
// видимости агент идет по следам. След, не дающий сближения дольше
// таймаута, теряется: его метка времени становится новой границей
// игнорирования, и протухшие следы больше не перехватываются.
func TrackerSteer(a *domain.Agent, s *Sense) (float64, float64) {
	if s.HasTarget {
		d := math.Hypot(s.Target.X-a.X, s.Target.Y-a.Y)
		if d <= domain.ZombieSightRange && LineOfSight(s.Layout, a.X, a.Y, s.Target.X, s.Target.Y) {
			a.Scent.HasTarget = false
			dx, dy := seek(a.X, a.Y, s.Target, a.EffectiveSpeed())
			sx, sy := separation(a, s.Nearby, domain.ZombieSeparation)
			return dx + sx, dy + sy
		}
	}

	if a.Scent.HasTarget {
		d := math.Hypot(a.Scent.TargetPos.X-a.X, a.Scent.TargetPos.Y-a.Y)

		if d < cellSizeOf(s)*0.4 {
			// След дочитан: точка пройдена, метка сгорает
			a.Scent.IgnoreBeforeOrAt = maxInt64(a.Scent.IgnoreBeforeOrAt, a.Scent.LastTargetTime)
			a.Scent.HasTarget = false
			return wanderSteer(a, s)
		}

		if d < a.Scent.BestDist-1.0 {
			a.Scent.BestDist = d
			a.Scent.LastProgressMS = s.NowMS
		}
		if s.NowMS-a.Scent.LastProgressMS > domain.ScentLostTimeoutMS {
			// След потерян: граница сдвигается, курс блуждания
			// смещается к последней точке следа
			a.Scent.IgnoreBeforeOrAt = maxInt64(a.Scent.IgnoreBeforeOrAt, a.Scent.LastTargetTime)
			a.Scent.HasTarget = false
			a.Wander.Angle = math.Atan2(a.Scent.TargetPos.Y-a.Y, a.Scent.TargetPos.X-a.X)
			return wanderSteer(a, s)
		}

		return seek(a.X, a.Y, a.Scent.TargetPos, a.EffectiveSpeed())
	}

	if s.NowMS >= a.Scent.NextScanMS {
		a.Scent.NextScanMS = s.NowMS + domain.ScentScanIntervalMS
		if fp, ok := TrackerScanFootprints(a, s); ok {
			a.Scent.TargetPos = geom.Vec2{X: fp.X, Y: fp.Y}
			a.Scent.LastTargetTime = fp.Time
			a.Scent.HasTarget = true
			a.Scent.BestDist = math.Inf(1)
			a.Scent.LastProgressMS = s.NowMS
			return seek(a.X, a.Y, a.Scent.TargetPos, a.EffectiveSpeed())
		}
	}

	return wanderSteer(a, s)
}

// TrackerScanFootprints выбирает след для наводки: перебор от свежих к
// старым, побеждает первый видимый из подходящих. Подходит след строго
// новее границы игнорирования, не раньше отметки повторной наводки и в
// радиусе обоняния — свежий след слышен с дальнего радиуса, остывший
// только с ближнего.
func TrackerScanFootprints(a *domain.Agent, s *Sense) (domain.Footprint, bool) {
	if a == nil || s == nil || len(s.Footprints) == 0 {
		return domain.Footprint{}, false
	}

	checked := 0
	for i := len(s.Footprints) - 1; i >= 0 && checked < domain.ScentTopK; i-- {
		fp := s.Footprints[i]
		if fp.Time <= a.Scent.IgnoreBeforeOrAt || fp.Time < a.Scent.RelockAfter {
			continue
		}

		reach := domain.ScentRadius
		if s.NowMS-fp.Time <= domain.ScentNewerFootprintMS {
			reach = domain.ScentFarRadius
		}
		d := math.Hypot(fp.X-a.X, fp.Y-a.Y)
		if d > reach {
			continue
		}

		checked++
		if LineOfSight(s.Layout, a.X, a.Y, fp.X, fp.Y) {
			return fp, true
		}
	}
	return domain.Footprint{}, false
}

// trackerBucket — ключ группировки для разгона толпы: грубая полоса
// поля плюс октант курса на цель.
type trackerBucket struct {
	bandX, bandY int
	octant       int
}

// TrackerCrowdControl разгоняет скученных следопытов: идущие по следу
// агенты группируются по полосе поля и октанту курса, и в каждой
// группе от порога и выше один агент принудительно бросает след до
// отметки RelockAfter.
func TrackerCrowdControl(agents []*domain.Agent, nowMS int64) {
	if len(agents) == 0 {
		return
	}

	buckets := make(map[trackerBucket][]*domain.Agent)
	for _, a := range agents {
		if a == nil || a.Dead || a.Behavior != domain.BehaviorTracker || !a.Scent.HasTarget {
			continue
		}
		angle := math.Atan2(a.Scent.TargetPos.Y-a.Y, a.Scent.TargetPos.X-a.X)
		oct := int(math.Floor((angle + math.Pi) / (math.Pi / 4)))
		if oct > 7 {
			oct = 7
		}
		b := trackerBucket{
			bandX:  int(math.Floor(a.X / domain.TrackerCrowdBandSize)),
			bandY:  int(math.Floor(a.Y / domain.TrackerCrowdBandSize)),
			octant: oct,
		}
		buckets[b] = append(buckets[b], a)
	}

	for _, group := range buckets {
		if len(group) < domain.TrackerCrowdThreshold {
			continue
		}
		loner := group[len(group)-1]
		loner.Scent.HasTarget = false
		loner.Scent.RelockAfter = nowMS + domain.ScentRelockGraceMS
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
