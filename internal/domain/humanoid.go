package domain

// JumpState — полет гуманоида над провалом.
//
// Прыжок — это не корутина и не анимация, а пара отметок: когда начали
// и куда летим. Все проверки — простые сравнения с текущим nowMS.
type JumpState struct {
	Active  bool
	StartMS int64
	DX, DY  float64 // нормализованное направление полета
}

// Begin запускает прыжок в указанном направлении.
func (j *JumpState) Begin(nowMS int64, dx, dy float64) {
	j.Active = true
	j.StartMS = nowMS
	j.DX = dx
	j.DY = dy
}

// Expired сообщает, что длительность полета вышла.
func (j *JumpState) Expired(nowMS int64, durationMS int64) bool {
	return j.Active && nowMS-j.StartMS >= durationMS
}

// Player — управляемый игрок.
type Player struct {
	Mover

	ID    EntityID
	Speed float64

	FacingX float64
	FacingY float64

	Jump JumpState

	// DrivingID — машина, в которой сидит игрок (NilEntityID — пешком).
	DrivingID EntityID

	// RidingID — транспортный бот, который везет игрока.
	RidingID EntityID

	HasFuel        bool
	FlashlightJars int
	SpareShoes     int

	// WallTargetCell — клетка стены, которую игрок приказал ломать
	// спутникам. TTL в миллисекундах.
	WallTargetCell    Cell
	HasWallTarget     bool
	WallTargetUntilMS int64

	// LastFootprint — позиция последнего оставленного следа.
	LastFootprintX float64
	LastFootprintY float64
	HasFootprint   bool

	Dead bool
	Won  bool
}

// OnFoot сообщает, что игрок передвигается пешком (след оставляется
// только пешком).
func (p *Player) OnFoot() bool {
	return p.DrivingID.IsNil() && p.RidingID.IsNil()
}

// Survivor — выживший: либо "buddy" (ходит за игроком и ломает стены),
// либо обычный, подходящий к игроку в радиусе спасения.
type Survivor struct {
	Mover

	ID    EntityID
	Speed float64

	Buddy     bool
	Following bool
	Rescued   bool

	FacingX float64
	FacingY float64

	Jump JumpState

	// RidingID — транспортный бот, который везет выжившего.
	RidingID EntityID

	// BumpHoldFrames — оставшиеся кадры удержания разворота после
	// утыкания во внутреннюю стену.
	BumpHoldFrames int

	Dead bool
}
