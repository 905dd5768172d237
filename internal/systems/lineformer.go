package systems

import (
	"math"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

// TrainMarker — метка на месте погибшего участника поезда. Полежав
// TrainMarkerPromoteMS, метка продвигается обратно в живого агента
// (движок спавнит лайнформера на ее месте).
type TrainMarker struct {
	X, Y   float64
	DropMS int64
}

// Train — поезд лайнформеров: голова ведет состав на цель, остальные
// идут цепочкой за впередиидущим.
type Train struct {
	ID int

	// Members — участники, [0] всегда голова.
	Members []domain.EntityID

	// TargetID — добыча головы (не-лайнформер), слабая ссылка.
	TargetID    domain.EntityID
	TargetSetMS int64

	Markers []TrainMarker
}

// TrainSet — реестр поездов.
type TrainSet struct {
	trains map[int]*Train
	nextID int

	// orphans — метки распущенных поездов. Живут по тому же циклу
	// продвижения, что и метки живых составов.
	orphans []TrainMarker
}

// NewTrainSet создает пустой реестр.
func NewTrainSet() *TrainSet {
	return &TrainSet{trains: make(map[int]*Train), nextID: 1}
}

// Get возвращает поезд по номеру, nil для нулевого или неизвестного.
func (ts *TrainSet) Get(id int) *Train {
	if ts == nil || id == 0 {
		return nil
	}
	return ts.trains[id]
}

// Len возвращает число живых поездов.
func (ts *TrainSet) Len() int {
	return len(ts.trains)
}

func (ts *TrainSet) newTrain() *Train {
	t := &Train{ID: ts.nextID}
	ts.nextID++
	ts.trains[t.ID] = t
	return t
}

// dissolve распускает поезд. Непродвинутые метки переживают роспуск:
// они уходят в общий пул и созревают в обычном порядке.
func (ts *TrainSet) dissolve(t *Train, lookup func(domain.EntityID) *domain.Agent) {
	for _, id := range t.Members {
		if a := lookup(id); a != nil {
			a.Line.TrainID = 0
			a.Line.FollowID = domain.NilEntityID
		}
	}
	ts.orphans = append(ts.orphans, t.Markers...)
	delete(ts.trains, t.ID)
}

// LineformerSteer — участник поезда. Ведомый держит дистанцию
// TrainFollowDistance с допуском до впередиидущего и отталкивается от
// него напрямую при нарушении дистанции столкновения. Голова
// преследует добычу поезда. Протухшая ссылка и одиночество дают
// блуждание.
func LineformerSteer(a *domain.Agent, s *Sense) (float64, float64) {
	if !a.Line.FollowID.IsNil() && s.Lookup != nil {
		leader := s.Lookup(a.Line.FollowID)
		if leader == nil || leader.Dead {
			a.Line.FollowID = domain.NilEntityID
			return wanderSteer(a, s)
		}

		d := math.Hypot(leader.X-a.X, leader.Y-a.Y)
		switch {
		case d < domain.TrainCollisionRange && d > 0:
			speed := a.EffectiveSpeed()
			return (a.X - leader.X) / d * speed, (a.Y - leader.Y) / d * speed
		case d > domain.TrainFollowDistance+domain.TrainFollowTolerance:
			return seek(a.X, a.Y, leader.Pos(), a.EffectiveSpeed())
		default:
			return 0, 0
		}
	}

	if t := s.Trains.Get(a.Line.TrainID); t != nil && s.Lookup != nil {
		if prey := s.Lookup(t.TargetID); prey != nil && !prey.Dead {
			return seek(a.X, a.Y, prey.Pos(), a.EffectiveSpeed())
		}
	}

	return wanderSteer(a, s)
}

// UpdateTrains — кадровое обслуживание реестра поездов: чистка мертвых
// участников (их места превращаются в метки), роспуск осиротевших
// поездов, прием одиночек в хвост, назначение и перехват добычи,
// продвижение отлежавшихся меток. Возвращает метки, созревшие в живых
// агентов: спавн за движком.
func UpdateTrains(ts *TrainSet, agents []*domain.Agent, lookup func(domain.EntityID) *domain.Agent, nowMS int64) []TrainMarker {
	if ts == nil || lookup == nil {
		return nil
	}

	// --- Чистка составов ---
	for _, t := range ts.trains {
		alive := t.Members[:0]
		headDead := false
		for i, id := range t.Members {
			a := lookup(id)
			if a == nil || a.Dead {
				if i == 0 {
					headDead = true
				}
				if a != nil {
					t.Markers = append(t.Markers, TrainMarker{X: a.X, Y: a.Y, DropMS: nowMS})
				}
				continue
			}
			alive = append(alive, id)
		}
		t.Members = alive

		if headDead || len(t.Members) == 0 {
			ts.dissolve(t, lookup)
			continue
		}

		// Перепрошивка цепочки следования после выпадения участников
		for i, id := range t.Members {
			a := lookup(id)
			if a == nil {
				continue
			}
			a.Line.TrainID = t.ID
			if i == 0 {
				a.Line.FollowID = domain.NilEntityID
			} else {
				a.Line.FollowID = t.Members[i-1]
			}
		}
	}

	// --- Прием одиночек ---
	for _, a := range agents {
		if a == nil || a.Dead || a.Behavior != domain.BehaviorLineformer || a.Line.TrainID != 0 {
			continue
		}
		if t, tail := ts.nearestTail(a, lookup); t != nil {
			t.Members = append(t.Members, a.ID)
			a.Line.TrainID = t.ID
			a.Line.FollowID = tail
			continue
		}
		// Поезда рядом нет: пара свободных лайнформеров образует новый
		if mate := nearestFreeLineformer(a, agents); mate != nil {
			t := ts.newTrain()
			t.Members = []domain.EntityID{a.ID, mate.ID}
			a.Line.TrainID = t.ID
			a.Line.FollowID = domain.NilEntityID
			mate.Line.TrainID = t.ID
			mate.Line.FollowID = a.ID
		}
	}

	// --- Добыча ---
	assignTrainTargets(ts, agents, lookup, nowMS)

	// --- Продвижение меток ---
	var promoted []TrainMarker
	for _, t := range ts.trains {
		keep := t.Markers[:0]
		for _, m := range t.Markers {
			if nowMS-m.DropMS >= domain.TrainMarkerPromoteMS {
				promoted = append(promoted, m)
				continue
			}
			keep = append(keep, m)
		}
		t.Markers = keep
	}

	keepOrphans := ts.orphans[:0]
	for _, m := range ts.orphans {
		if nowMS-m.DropMS >= domain.TrainMarkerPromoteMS {
			promoted = append(promoted, m)
			continue
		}
		keepOrphans = append(keepOrphans, m)
	}
	ts.orphans = keepOrphans
	return promoted
}

// nearestTail ищет поезд, к хвосту которого агент может пристроиться.
func (ts *TrainSet) nearestTail(a *domain.Agent, lookup func(domain.EntityID) *domain.Agent) (*Train, domain.EntityID) {
	var best *Train
	var bestTail domain.EntityID
	bestDist := math.Inf(1)
	for _, t := range ts.trains {
		if len(t.Members) == 0 {
			continue
		}
		tailID := t.Members[len(t.Members)-1]
		tail := lookup(tailID)
		if tail == nil || tail.Dead {
			continue
		}
		d := math.Hypot(tail.X-a.X, tail.Y-a.Y)
		if d <= domain.TrainJoinRadius && d < bestDist {
			best = t
			bestTail = tailID
			bestDist = d
		}
	}
	return best, bestTail
}

func nearestFreeLineformer(a *domain.Agent, agents []*domain.Agent) *domain.Agent {
	var best *domain.Agent
	bestDist := math.Inf(1)
	for _, o := range agents {
		if o == nil || o == a || o.Dead || o.Behavior != domain.BehaviorLineformer || o.Line.TrainID != 0 {
			continue
		}
		d := math.Hypot(o.X-a.X, o.Y-a.Y)
		if d <= domain.TrainJoinRadius && d < bestDist {
			best = o
			bestDist = d
		}
	}
	return best
}

// assignTrainTargets закрепляет добычу за поездами. Цель — живой
// не-лайнформер; занятая цель перехватывается, только если претендент
// заметно ближе текущего владельца. Слишком старая цель сбрасывается.
func assignTrainTargets(ts *TrainSet, agents []*domain.Agent, lookup func(domain.EntityID) *domain.Agent, nowMS int64) {
	owner := make(map[domain.EntityID]*Train)
	for _, t := range ts.trains {
		if t.TargetID.IsNil() {
			continue
		}
		prey := lookup(t.TargetID)
		if prey == nil || prey.Dead || nowMS-t.TargetSetMS > domain.TrainTargetTimeoutMS {
			t.TargetID = domain.NilEntityID
			continue
		}
		owner[t.TargetID] = t
	}

	for _, t := range ts.trains {
		if !t.TargetID.IsNil() || len(t.Members) == 0 {
			continue
		}
		head := lookup(t.Members[0])
		if head == nil {
			continue
		}

		var bestID domain.EntityID
		bestDist := math.Inf(1)
		for _, prey := range agents {
			if prey == nil || prey.Dead || prey.Behavior == domain.BehaviorLineformer {
				continue
			}
			d := math.Hypot(prey.X-head.X, prey.Y-head.Y)
			if d > domain.ZombieSightRange || d >= bestDist {
				continue
			}
			if cur, taken := owner[prey.ID]; taken {
				// Перехват: претендент должен быть ближе владельца
				curHead := lookup(cur.Members[0])
				if curHead == nil || math.Hypot(prey.X-curHead.X, prey.Y-curHead.Y) <= d {
					continue
				}
				cur.TargetID = domain.NilEntityID
				delete(owner, prey.ID)
			}
			bestID = prey.ID
			bestDist = d
		}
		if !bestID.IsNil() {
			t.TargetID = bestID
			t.TargetSetMS = nowMS
			owner[bestID] = t
		}
	}
}

// MarkersNear возвращает метки всех поездов в радиусе от точки
// (затаптывание метки игроком до продвижения).
func (ts *TrainSet) MarkersNear(x, y, radius float64) []TrainMarker {
	if ts == nil {
		return nil
	}
	var out []TrainMarker
	for _, t := range ts.trains {
		for _, m := range t.Markers {
			if math.Hypot(m.X-x, m.Y-y) <= radius {
				out = append(out, m)
			}
		}
	}
	for _, m := range ts.orphans {
		if math.Hypot(m.X-x, m.Y-y) <= radius {
			out = append(out, m)
		}
	}
	return out
}

// RemoveMarkersNear удаляет метки в радиусе от точки и возвращает
// число удаленных.
func (ts *TrainSet) RemoveMarkersNear(x, y, radius float64) int {
	if ts == nil {
		return 0
	}
	removed := 0
	for _, t := range ts.trains {
		keep := t.Markers[:0]
		for _, m := range t.Markers {
			if math.Hypot(m.X-x, m.Y-y) <= radius {
				removed++
				continue
			}
			keep = append(keep, m)
		}
		t.Markers = keep
	}
	keepOrphans := ts.orphans[:0]
	for _, m := range ts.orphans {
		if math.Hypot(m.X-x, m.Y-y) <= radius {
			removed++
			continue
		}
		keepOrphans = append(keepOrphans, m)
	}
	ts.orphans = keepOrphans
	return removed
}
