package domain

import "github.com/tos-kamiya/zombie-escape-sub001/internal/geom"

// DogMode — режим зомби-собаки.
type DogMode uint8

const (
	DogWander DogMode = iota
	DogCharge
	DogChase
)

// Agent — автономный враждебный агент (зомби и его варианты).
//
// Состояние каждой машины поведения лежит на самом агенте и мутируется
// только его собственной функцией поведения. Агенты не владеют друг
// другом: любые "цели" — это EntityID, разрешаемый через Roster каждый
// тик.
type Agent struct {
	Mover

	ID       EntityID
	Kind     Kind
	Behavior Behavior

	Speed float64

	// FacingX/Y — последнее ненулевое направление движения.
	// Нужно собачьему укусу (смещение головы) и state-снимкам.
	FacingX float64
	FacingY float64

	Dead bool

	Vitals *Vitals

	Wander WanderState
	Hug    WallHugState
	Scent  ScentState
	Line   LineState
	Lone   LoneState
	Dog    DogState
}

// WanderState — общее блуждание: текущий курс и время перевыбора.
type WanderState struct {
	Angle      float64
	NextRollMS int64
}

// WallHugState — состояние обхода стен.
type WallHugState struct {
	// Side: 0 — сторона не выбрана, -1 — стена слева, +1 — справа.
	Side int8

	// LastWallMS — когда зонд в последний раз видел стену.
	// Память с таймаутом: недавно потерянная стена еще не повод
	// бросать обход.
	LastWallMS int64
}

// ScentState — состояние следопыта.
type ScentState struct {
	TargetPos geom.Vec2
	HasTarget bool

	// LastTargetTime — метка времени следа, на который навелись.
	LastTargetTime int64

	// IgnoreBeforeOrAt — граница потерянного следа: отметки времени
	// не новее этой никогда не перехватываются заново.
	IgnoreBeforeOrAt int64

	// RelockAfter — после принудительного блуждания наводиться можно
	// только на следы не старше этой отметки.
	RelockAfter int64

	// BestDist — лучшее достигнутое расстояние до цели; сближение
	// засчитывается как прогресс и отодвигает таймаут потери следа.
	BestDist float64

	LastProgressMS int64
	NextScanMS     int64
}

// LineState — членство в поезде лайнформеров.
type LineState struct {
	TrainID  int      // 0 — вне поезда
	FollowID EntityID // участник впереди (для головы — NilEntityID)
}

// LoneState — дискретное направление одиночки.
type LoneState struct {
	DX, DY            int8
	NextDecisionFrame int64
}

// DogState — состояние зомби-собаки.
type DogState struct {
	Mode     DogMode
	ChargeDX float64
	ChargeDY float64

	// BiteFrame — кадр последнего укуса (интервал между укусами).
	BiteFrame int64
}

// EffectiveSpeed возвращает скорость с учетом распада здоровья.
func (a *Agent) EffectiveSpeed() float64 {
	if a.Vitals == nil {
		return a.Speed
	}
	return a.Speed * a.Vitals.SpeedRatio()
}

// Carbonized сообщает, обуглен ли агент.
func (a *Agent) Carbonized() bool {
	return a.Vitals != nil && a.Vitals.Carbonized
}

// ActiveThreat сообщает, опасен ли агент для игрока прямо сейчас:
// живой, не обугленный и не парализованный.
func (a *Agent) ActiveThreat(nowMS int64) bool {
	if a.Dead || a.Carbonized() {
		return false
	}
	if a.Vitals != nil && a.Vitals.Paralyzed(nowMS) {
		return false
	}
	return true
}

// SetFacing запоминает последнее ненулевое направление движения.
func (a *Agent) SetFacing(dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	a.FacingX = dx
	a.FacingY = dy
}
