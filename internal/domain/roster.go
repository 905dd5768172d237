package domain

// Roster — арена слотов с поколениями для выдачи и разрешения EntityID.
//
// Get по устаревшему ID (слот переиспользован или освобождён) возвращает
// nil. Это основа контракта "цель ищется по ID каждый тик": поезда
// лайнформеров, перенос материалов и командование ботами переживают
// смерть цели без каких-либо проверок на стороне вызывающего кода.
type Roster struct {
	slots []rosterSlot
	free  []uint32
}

type rosterSlot struct {
	value any
	gen   uint16
	live  bool
}

func NewRoster() *Roster {
	return &Roster{}
}

// Add помещает сущность в свободный слот и возвращает её ID.
func (r *Roster) Add(class EntityClass, value any) EntityID {
	var idx uint32
	if n := len(r.free); n > 0 {
		idx = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		r.slots = append(r.slots, rosterSlot{})
		idx = uint32(len(r.slots) - 1)
	}

	slot := &r.slots[idx]
	// Поколение 0 зарезервировано под NilEntityID
	if slot.gen == 0 {
		slot.gen = 1
	}
	slot.value = value
	slot.live = true

	return PackEntityID(class, slot.gen, idx)
}

// Remove освобождает слот и увеличивает поколение, делая все
// выданные ранее ID этого слота устаревшими.
func (r *Roster) Remove(id EntityID) {
	idx := id.Index()
	if int(idx) >= len(r.slots) {
		return
	}
	slot := &r.slots[idx]
	if !slot.live || slot.gen != id.Generation() {
		return
	}
	slot.value = nil
	slot.live = false
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	r.free = append(r.free, idx)
}

// Get разрешает ID в сущность. Устаревший или нулевой ID дает nil.
func (r *Roster) Get(id EntityID) any {
	if id.IsNil() {
		return nil
	}
	idx := id.Index()
	if int(idx) >= len(r.slots) {
		return nil
	}
	slot := &r.slots[idx]
	if !slot.live || slot.gen != id.Generation() {
		return nil
	}
	return slot.value
}

// Agent разрешает ID в агента (nil, если слот занят другим классом).
func (r *Roster) Agent(id EntityID) *Agent {
	a, _ := r.Get(id).(*Agent)
	return a
}

// Material разрешает ID в материал.
func (r *Roster) Material(id EntityID) *Material {
	m, _ := r.Get(id).(*Material)
	return m
}

// Len возвращает количество живых слотов.
func (r *Roster) Len() int {
	return len(r.slots) - len(r.free)
}
