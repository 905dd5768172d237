package engine

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/blueprint"
)

// Config хранит параметры запуска движка.
type Config struct {
	// Seed - мастер-зерно. От него зависят сессии со случайным сидом.
	Seed int64

	Port int

	// TickHz частота логики. Менять имеет смысл только в тестах.
	TickHz int

	// ReplayDir каталог журналов повторов. Пустая строка — повторы
	// не пишутся.
	ReplayDir string

	// CatalogPath путь к sqlite-каталогу сессий. Пустая строка —
	// каталог не ведется.
	CatalogPath string

	// StageFile YAML с таблицей стадий. Пустая строка — встроенная
	// таблица.
	StageFile string
}

// NewConfig создает конфиг по умолчанию (случайный сид).
func NewConfig() Config {
	return Config{
		Seed:   time.Now().UnixNano(),
		Port:   8080,
		TickHz: domain.FPS,
	}
}

// Stage описывает одну стадию: цель побега, генерацию уровня и состав
// населения. Нулевые значения числовых полей заменяются дефолтами в
// normalized().
type Stage struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Цели стадии.
	RequiresFuel    bool  `yaml:"requires_fuel"`
	BuddyCount      int   `yaml:"buddy_count"`       // спутники, обязательные для посадки
	RescueStage     bool  `yaml:"rescue_stage"`      // эвакуация выживших на машинах ожидания
	WaitingCarCount int   `yaml:"waiting_car_count"` // сколько машин ожидания снаружи
	EnduranceStage  bool  `yaml:"endurance_stage"`   // продержаться до рассвета
	EnduranceGoalMS int64 `yaml:"endurance_goal_ms"`

	// Геометрия уровня.
	GridCols      int     `yaml:"grid_cols"`
	GridRows      int     `yaml:"grid_rows"`
	TileSize      float64 `yaml:"tile_size"`
	WallAlgorithm string  `yaml:"wall_algorithm"`

	PitfallDensity   float64          `yaml:"pitfall_density"`
	PitfallZones     []blueprint.Zone `yaml:"pitfall_zones"`
	FireFloorDensity float64          `yaml:"fire_floor_density"`
	MetalDensity     float64          `yaml:"metal_density"`
	PuddleDensity    float64          `yaml:"puddle_density"`
	SpikyDensity     float64          `yaml:"spiky_density"`

	MovingFloorRuns []blueprint.FloorRun `yaml:"moving_floor_runs"`

	WallRubbleRatio     float64          `yaml:"wall_rubble_ratio"`
	FallSpawnFloorRatio float64          `yaml:"fall_spawn_floor_ratio"`
	FallSpawnZones      []blueprint.Zone `yaml:"fall_spawn_zones"`

	// Спавн зомби.
	ExteriorSpawnWeight     float64 `yaml:"exterior_spawn_weight"`
	InteriorSpawnWeight     float64 `yaml:"interior_spawn_weight"`
	InteriorFallSpawnWeight float64 `yaml:"interior_fall_spawn_weight"`
	InitialInteriorRate     float64 `yaml:"initial_interior_spawn_rate"`
	ZombieMaxCount          int     `yaml:"zombie_max_count"`
	SpawnIntervalMS         int64   `yaml:"spawn_interval_ms"`

	// Доли поведений при спавне (нормализуются по сумме).
	NormalRatio     float64 `yaml:"zombie_normal_ratio"`
	TrackerRatio    float64 `yaml:"zombie_tracker_ratio"`
	WallHugRatio    float64 `yaml:"zombie_wall_hugging_ratio"`
	SolitaryRatio   float64 `yaml:"zombie_solitary_ratio"`
	LineformerRatio float64 `yaml:"zombie_lineformer_ratio"`
	DogRatio        float64 `yaml:"zombie_dog_ratio"`

	// DecayDurationFrames срок распада зомби до нуля (0 — дефолт).
	DecayDurationFrames int `yaml:"zombie_aging_duration_frames"`

	// Предметы и сервисные боты.
	FuelSpawnCount    int     `yaml:"fuel_spawn_count"`
	EmptyCanCount     int     `yaml:"empty_can_count"`
	FlashlightCount   int     `yaml:"initial_flashlight_count"`
	ShoesCount        int     `yaml:"initial_shoes_count"`
	SurvivorSpawnRate float64 `yaml:"survivor_spawn_rate"`

	CarrierBotCount   int `yaml:"carrier_bot_count"`
	PatrolBotCount    int `yaml:"patrol_bot_count"`
	TransportBotCount int `yaml:"transport_bot_count"`
}

// DefaultStageID — стадия, запускаемая при пустом поле stage в START.
const DefaultStageID = "stage1"

// normalized заполняет дефолты нулевых полей.
func (s Stage) normalized() Stage {
	if s.GridCols == 0 {
		s.GridCols = domain.DefaultGridW
	}
	if s.GridRows == 0 {
		s.GridRows = domain.DefaultGridH
	}
	if s.TileSize == 0 {
		s.TileSize = domain.DefaultTileSize
	}
	if s.WallAlgorithm == "" {
		s.WallAlgorithm = "default"
	}
	if s.ExteriorSpawnWeight == 0 && s.InteriorSpawnWeight == 0 && s.InteriorFallSpawnWeight == 0 {
		s.ExteriorSpawnWeight = 0.97
		s.InteriorSpawnWeight = 0.03
	}
	if s.NormalRatio == 0 && s.TrackerRatio == 0 && s.WallHugRatio == 0 &&
		s.SolitaryRatio == 0 && s.LineformerRatio == 0 && s.DogRatio == 0 {
		s.NormalRatio = 1.0
	}
	if s.ZombieMaxCount == 0 {
		s.ZombieMaxCount = domain.ZombieMaxCount
	}
	if s.SpawnIntervalMS == 0 {
		s.SpawnIntervalMS = domain.SpawnIntervalMS
	}
	if s.DecayDurationFrames == 0 {
		s.DecayDurationFrames = domain.ZombieDecayDurationFrames
	}
	if s.RequiresFuel && s.EmptyCanCount == 0 {
		s.EmptyCanCount = 1
	}
	if s.RequiresFuel && s.FuelSpawnCount == 0 {
		s.FuelSpawnCount = 1
	}
	return s
}

// BlueprintOptions собирает параметры генерации чертежа для стадии.
func (s Stage) BlueprintOptions() blueprint.Options {
	s = s.normalized()
	return blueprint.Options{
		Cols:             s.GridCols,
		Rows:             s.GridRows,
		WallAlgo:         s.WallAlgorithm,
		ExitsPerSide:     1,
		PitfallDensity:   s.PitfallDensity,
		PitfallZones:     s.PitfallZones,
		FireFloorDensity: s.FireFloorDensity,
		MetalFloorDensity: s.MetalDensity,
		PuddleDensity:    s.PuddleDensity,
		SpikyDensity:     s.SpikyDensity,
		MovingFloorRuns:  s.MovingFloorRuns,
		ZombieSpawns:     3,
		CarSpawns:        1,
		FuelStations:     s.FuelSpawnCount,
		EmptyCans:        s.EmptyCanCount,
		Flashlights:      s.FlashlightCount,
		Shoes:            s.ShoesCount,

		// Стадии на выживание не требуют машины: достаточно дожить,
		// путь игрока к выходу проверяется всегда.
		RequireCar:            !s.EnduranceStage,
		RequireFuelChain:      s.RequiresFuel && !s.EnduranceStage,
		RequirePlayerExitPath: true,
	}
}

// DefaultStages возвращает встроенную таблицу стадий.
func DefaultStages() []Stage {
	return []Stage{
		{
			ID:   "stage1",
			Name: "Побег",
		},
		{
			ID:           "stage2",
			Name:         "Дозаправка",
			RequiresFuel: true,
		},
		{
			ID:           "stage3",
			Name:         "Напарник",
			RequiresFuel: true,
			BuddyCount:   1,
		},
		{
			ID:                "stage4",
			Name:              "Эвакуация",
			RescueStage:       true,
			WaitingCarCount:   2,
			SurvivorSpawnRate: 0.25,
		},
		{
			ID:                  "stage5",
			Name:                "До рассвета",
			RequiresFuel:        true,
			EnduranceStage:      true,
			EnduranceGoalMS:     1_200_000,
			FuelSpawnCount:      0,
			ExteriorSpawnWeight: 0.4,
			InteriorSpawnWeight: 0.6,
			InitialInteriorRate: 0.04,
		},
		{
			ID:                  "stage6",
			Name:                "Следопыты",
			RequiresFuel:        true,
			ExteriorSpawnWeight: 0.8,
			InteriorSpawnWeight: 0.2,
			NormalRatio:         0.4,
			TrackerRatio:        0.6,
			DecayDurationFrames: domain.ZombieDecayDurationFrames * 2,
		},
		{
			ID:                  "stage7",
			Name:                "Лабиринт",
			WallAlgorithm:       "grid_wire",
			RequiresFuel:        true,
			BuddyCount:          1,
			ExteriorSpawnWeight: 0.7,
			InteriorSpawnWeight: 0.3,
			NormalRatio:         0.4,
			TrackerRatio:        0.3,
			WallHugRatio:        0.3,
			DecayDurationFrames: domain.ZombieDecayDurationFrames * 2,
			CarrierBotCount:     2,
			PatrolBotCount:      1,
		},
	}
}

// LoadStages читает таблицу стадий из YAML-файла.
func LoadStages(path string) ([]Stage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stage file: %w", err)
	}

	var stages []Stage
	if err := yaml.Unmarshal(data, &stages); err != nil {
		return nil, fmt.Errorf("parse stage file %s: %w", path, err)
	}
	if len(stages) == 0 {
		return nil, fmt.Errorf("stage file %s: empty stage table", path)
	}
	for i, s := range stages {
		if s.ID == "" {
			return nil, fmt.Errorf("stage file %s: stage #%d has no id", path, i)
		}
	}
	return stages, nil
}

// StageByID ищет стадию в таблице.
func StageByID(stages []Stage, id string) (Stage, bool) {
	if id == "" {
		id = DefaultStageID
	}
	for _, s := range stages {
		if s.ID == id {
			return s.normalized(), true
		}
	}
	return Stage{}, false
}
