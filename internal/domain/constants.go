package domain

import "math"

// Настроечные константы симуляции. Времена в миллисекундах, расстояния
// в мировых единицах, скорости в единицах за кадр (логика фиксирована
// на 60 кадров в секунду).

// Кадровая сетка
const (
	FPS          = 60
	FrameMS      = 1000 / FPS
	TickDuration = FrameMS
)

// Поле
const (
	DefaultTileSize      = 40.0
	DefaultGridW         = 48
	DefaultGridH         = 27
	SpatialIndexCellSize = 32.0
	WallIndexCellSize    = 100.0
)

// Игрок
const (
	PlayerRadius          = 10.0
	PlayerSpeed           = 3.0
	PlayerJumpRange       = 60.0
	JumpDurationMS        = 420
	FootprintStepDistance = 24.0
	FootprintMax          = 120
	WallTargetTTLMS       = 5000
)

// Зомби: база
const (
	ZombieRadius           = 10.0
	ZombieBaseSpeed        = 1.1
	ZombiePatrolSpeed      = 0.8
	ZombieSightRange       = 220.0
	ZombieWanderIntervalMS = 2200
	ZombieWanderJitterMS   = 1300
	ZombieSeparation       = 22.0
	ZombieWallDamage       = 1
	ZombieMaxCount         = 120
	ZombieEdgeMargin       = 30.0
)

// Зомби: здоровье и распад
const (
	ZombieMaxHealth            = 60
	ZombieDecayDurationFrames  = FPS * 120
	ZombieDecayMinSpeedRatio   = 0.35
	ZombieCarbonizeDecayFrames = FPS * 8
)

// Wall hugger
const (
	WallHugProbeAngle = math.Pi / 4
	WallHugProbeRange = 80.0
	WallHugTargetGap  = 14.0
	WallHugMemoryMS   = 900
	WallHugTurnAngle  = math.Pi / 2.2
)

// Tracker (запаховый след)
const (
	ScentRadius           = 160.0
	ScentFarRadius        = 520.0
	ScentScanIntervalMS   = 250
	ScentLostTimeoutMS    = 4000
	ScentNewerFootprintMS = 1500
	ScentTopK             = 4
	ScentRelockGraceMS    = 2500
)

// Crowd control следопытов
const (
	TrackerCrowdBandSize  = 120.0
	TrackerCrowdThreshold = 5
)

// Solitary (одиночка)
const (
	SolitaryIntervalFrames = 18
	SolitarySpeedScale     = 2.2
)

// Lineformer (поезда)
const (
	TrainFollowDistance  = 26.0
	TrainFollowTolerance = 6.0
	TrainJoinRadius      = 60.0
	TrainCollisionRange  = 16.0
	TrainTargetTimeoutMS = 6000
	TrainMarkerPromoteMS = 1200
	TrainMarkerRadius    = 8.0
)

// Зомби-собака
const (
	DogRadius           = 8.0
	DogPatrolSpeed      = 1.4
	DogChargeSpeed      = 3.4
	DogSightRange       = 260.0
	DogPackChaseRange   = 240.0
	DogWanderIntervalMS = 1600
	DogBiteFrames       = 30
	DogBiteDamage       = 6
	DogLongAxisRatio    = 1.6
	DogShortAxisRatio   = 0.9
	DogHeadRadiusRatio  = 0.45
	DogSeparation       = 18.0
)

// Бот-носильщик и материалы
const (
	CarrierBotRadius        = 14.0
	CarrierBotSpeed         = 10.0
	MaterialSize            = 12.0
	CarrierDropCooldownDist = 30.0
)

// Патрульный бот
const (
	PatrolBotRadius             = 16.0
	PatrolBotSpeed              = 1.6
	PatrolBotWallMargin         = 1.0
	PatrolBotHumanoidPauseMS    = 1500
	PatrolBotHumanoidPauseRange = 26.0
	PatrolBotCommandRadius      = 12.0
	PatrolParalyzeMS            = 900
	PatrolDamageFrames          = 20
	PatrolContactDamage         = 1
	PatrolStuckWindowMS         = 5000
	PatrolStuckDistance         = 4.0
	PatrolBackoffMin            = 0.5
)

// Транспортный бот
const (
	TransportBotRadius   = 18.0
	TransportSpeed       = 2.4
	TransportDoorDelayMS = 700
	TransportEndWaitMS   = 2000
	TransportBoardRadius = 30.0
	TransportPushRadius  = 24.0
)

// Машина
const (
	CarWidth  = 60.0
	CarHeight = 34.0
	CarRadius = 18.0
	CarSpeed  = 4.2
)

// Выжившие
const (
	SurvivorRadius         = 9.0
	SurvivorApproachRadius = 140.0
	SurvivorApproachSpeed  = 1.3
	SurvivorJumpRange      = 52.0
	BuddyFollowSpeed       = 2.6
	BuddyWallDamage        = 1
	BuddyWallDamageRange   = 70.0
	BuddyPushbackScale     = 1.05
	HumanoidBumpHoldFrames = 10
)

// Движение
const (
	DefaultRollback   = 1.0
	BuddyRollback     = 1.5
	PitfallRepel      = 2.2
	EdgeNudgeMargin   = 3.0
	EdgeNudgeStrength = 0.35
	EdgeNudgeBevelK   = 1.25
	FloorDriftSpeed   = 1.4
	SeparateScale     = 2.1
	SeparateAttempts  = 4
	SeparateClearance = 6.0
)

// Спавн
const (
	SpawnIntervalMS         = 2500
	SpawnPlayerBuffer       = 180.0
	FallPreFxMS             = 350
	FallDropMS              = 450
	FallDustMS              = 220
	OffscreenSpawnAttempts  = 18
	ExteriorSpawnCandidates = 5
)
