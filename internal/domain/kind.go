package domain

// Kind — битовая маска категории сущности для пространственного индекса.
//
// Степени двойки позволяют фильтровать составные наборы одним AND:
// "все зомби кроме собак" = KindZombie|KindTrappedZombie без ветвлений
// по конкретным видам.
type Kind uint32

const (
	KindPlayer Kind = 1 << iota
	KindCar
	KindZombie
	KindZombieDog
	KindTrappedZombie
	KindSurvivor
	KindPatrolBot
)

// KindAll — все категории сразу.
const KindAll = KindPlayer | KindCar | KindZombie | KindZombieDog |
	KindTrappedZombie | KindSurvivor | KindPatrolBot

// Has проверяет, входит ли категория other в маску.
func (k Kind) Has(other Kind) bool {
	return k&other != 0
}

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindCar:
		return "car"
	case KindZombie:
		return "zombie"
	case KindZombieDog:
		return "zombie_dog"
	case KindTrappedZombie:
		return "trapped_zombie"
	case KindSurvivor:
		return "survivor"
	case KindPatrolBot:
		return "patrol_bot"
	}
	return "mixed"
}

// Behavior — вариант машины состояний движения зомби.
//
// Закрытое перечисление: диспетчеризация поведения идёт через таблицу
// Behavior -> функция в пакете systems, без виртуальных вызовов.
type Behavior uint8

const (
	BehaviorNormal Behavior = iota
	BehaviorWallHugger
	BehaviorTracker
	BehaviorLineformer
	BehaviorSolitary
	BehaviorDog
)

func (b Behavior) String() string {
	switch b {
	case BehaviorNormal:
		return "normal"
	case BehaviorWallHugger:
		return "wall_hugger"
	case BehaviorTracker:
		return "tracker"
	case BehaviorLineformer:
		return "lineformer"
	case BehaviorSolitary:
		return "solitary"
	case BehaviorDog:
		return "dog"
	}
	return "unknown"
}
