package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// TransportBotTick продвигает вагонетку на один кадр. Возвращает true
// в кадр прибытия на концевую точку (движок высаживает пассажиров).
//
// На концах маршрута бот стоит TransportEndWaitMS, двери открываются
// через TransportDoorDelayMS после остановки. Блокировка по курсу
// разворачивает маршрут.
func TransportBotTick(t *domain.TransportBot, walls []*domain.Wall, nowMS int64) bool {
	if t == nil || t.Dead || len(t.Waypoints) < 2 {
		return false
	}
	if nowMS < t.WaitUntilMS {
		return false
	}

	target := t.Waypoints[t.TargetIdx]
	dx := target.X - t.X
	dy := target.Y - t.Y
	d := math.Hypot(dx, dy)

	if d <= t.Speed {
		t.X = target.X
		t.Y = target.Y
		if t.AtEndpoint() {
			t.Dir = -t.Dir
			t.WaitUntilMS = nowMS + domain.TransportEndWaitMS
			t.DoorReadyMS = nowMS + domain.TransportDoorDelayMS
			t.TargetIdx = clampInt(t.TargetIdx+t.Dir, 0, len(t.Waypoints)-1)
			return true
		}
		t.TargetIdx = clampInt(t.TargetIdx+t.Dir, 0, len(t.Waypoints)-1)
		return false
	}

	newX := t.X + dx/d*t.Speed
	newY := t.Y + dy/d*t.Speed

	for _, w := range walls {
		if w != nil && w.Alive() && w.CollidesCircle(newX, newY, t.Radius) {
			t.Dir = -t.Dir
			t.TargetIdx = clampInt(t.TargetIdx+t.Dir, 0, len(t.Waypoints)-1)
			return false
		}
	}

	t.X = newX
	t.Y = newY
	return false
}

// TransportDoorsOpen сообщает, открыты ли двери: бот стоит на концевой
// выдержке и дверной таймер вышел.
func TransportDoorsOpen(t *domain.TransportBot, nowMS int64) bool {
	return t != nil && !t.Dead && nowMS < t.WaitUntilMS && nowMS >= t.DoorReadyMS
}

// TransportBoarding сажает гуманоидов в открытые двери: сперва игрока,
// затем выживших в радиусе посадки.
func TransportBoarding(t *domain.TransportBot, player *domain.Player, survivors []*domain.Survivor, nowMS int64) {
	if !TransportDoorsOpen(t, nowMS) {
		return
	}

	if player != nil && !player.Dead && player.OnFoot() {
		if math.Hypot(player.X-t.X, player.Y-t.Y) <= domain.TransportBoardRadius {
			player.RidingID = t.ID
			t.PassengerIDs = append(t.PassengerIDs, player.ID)
		}
	}

	for _, sv := range survivors {
		if sv == nil || sv.Dead || !sv.RidingID.IsNil() {
			continue
		}
		if math.Hypot(sv.X-t.X, sv.Y-t.Y) <= domain.TransportBoardRadius {
			sv.RidingID = t.ID
			t.PassengerIDs = append(t.PassengerIDs, sv.ID)
		}
	}
}

// TransportSyncPassengers прижимает пассажиров к позиции вагонетки.
func TransportSyncPassengers(t *domain.TransportBot, player *domain.Player, survivors []*domain.Survivor) {
	if t == nil {
		return
	}
	if player != nil && player.RidingID == t.ID {
		player.X = t.X
		player.Y = t.Y
	}
	for _, sv := range survivors {
		if sv != nil && sv.RidingID == t.ID {
			sv.X = t.X
			sv.Y = t.Y
		}
	}
}

// TransportAlightAll высаживает всех пассажиров со сдвигом в сторону
// от корпуса.
func TransportAlightAll(t *domain.TransportBot, player *domain.Player, survivors []*domain.Survivor) {
	if t == nil {
		return
	}
	off := t.Radius + domain.PlayerRadius + 2
	if player != nil && player.RidingID == t.ID {
		player.RidingID = domain.NilEntityID
		player.X = t.X
		player.Y = t.Y + off
	}
	for _, sv := range survivors {
		if sv != nil && sv.RidingID == t.ID {
			sv.RidingID = domain.NilEntityID
			sv.X = t.X
			sv.Y = t.Y + off
		}
	}
	t.PassengerIDs = t.PassengerIDs[:0]
}

// TransportPushBystanders выталкивает посторонних из-под корпуса
// радиально на границу зоны.
func TransportPushBystanders(t *domain.TransportBot, agents []*domain.Agent) {
	if t == nil || t.Dead {
		return
	}
	for _, a := range agents {
		if a == nil || a.Dead {
			continue
		}
		dx := a.X - t.X
		dy := a.Y - t.Y
		d := math.Hypot(dx, dy)
		if d >= domain.TransportPushRadius {
			continue
		}
		if d == 0 {
			a.X = t.X + domain.TransportPushRadius
			continue
		}
		a.X = t.X + dx/d*domain.TransportPushRadius
		a.Y = t.Y + dy/d*domain.TransportPushRadius
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
