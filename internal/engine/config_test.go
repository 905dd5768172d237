package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
)

func TestDefaultStagesHaveUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range DefaultStages() {
		require.NotEmpty(t, s.ID)
		require.False(t, seen[s.ID], "duplicate stage id %s", s.ID)
		seen[s.ID] = true
	}
	require.True(t, seen[DefaultStageID], "default stage missing from table")
}

func TestStageByIDEmptyFallsBackToDefault(t *testing.T) {
	s, ok := StageByID(DefaultStages(), "")
	require.True(t, ok)
	assert.Equal(t, DefaultStageID, s.ID)

	_, ok = StageByID(DefaultStages(), "no-such-stage")
	assert.False(t, ok)
}

func TestStageNormalizedFillsDefaults(t *testing.T) {
	s := Stage{ID: "bare"}.normalized()

	assert.Equal(t, domain.DefaultGridW, s.GridCols)
	assert.Equal(t, domain.DefaultGridH, s.GridRows)
	assert.Equal(t, domain.DefaultTileSize, s.TileSize)
	assert.Equal(t, "default", s.WallAlgorithm)
	assert.Equal(t, 1.0, s.NormalRatio)
	assert.Equal(t, domain.ZombieMaxCount, s.ZombieMaxCount)
	assert.Equal(t, int64(domain.SpawnIntervalMS), s.SpawnIntervalMS)
	assert.Equal(t, domain.ZombieDecayDurationFrames, s.DecayDurationFrames)
}

func TestStageNormalizedFuelImpliesItems(t *testing.T) {
	s := Stage{ID: "fuel", RequiresFuel: true}.normalized()

	// Стадии с дозаправкой обязаны раскладывать канистру и станцию
	assert.Equal(t, 1, s.EmptyCanCount)
	assert.Equal(t, 1, s.FuelSpawnCount)
}

func TestBlueprintOptionsEnduranceSkipsCarChecks(t *testing.T) {
	s := Stage{ID: "e", EnduranceStage: true, RequiresFuel: true}.normalized()
	opts := s.BlueprintOptions()

	assert.False(t, opts.RequireCar)
	assert.False(t, opts.RequireFuelChain)
	assert.True(t, opts.RequirePlayerExitPath)
}

func TestLoadStagesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stages.yaml")
	data := `
- id: custom1
  name: "Тест"
  requires_fuel: true
  grid_cols: 32
  grid_rows: 20
  zombie_tracker_ratio: 0.5
  zombie_normal_ratio: 0.5
- id: custom2
  wall_algorithm: grid_wire
  carrier_bot_count: 2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	stages, err := LoadStages(path)
	require.NoError(t, err)
	require.Len(t, stages, 2)

	assert.Equal(t, "custom1", stages[0].ID)
	assert.True(t, stages[0].RequiresFuel)
	assert.Equal(t, 32, stages[0].GridCols)
	assert.Equal(t, 0.5, stages[0].TrackerRatio)
	assert.Equal(t, "grid_wire", stages[1].WallAlgorithm)
	assert.Equal(t, 2, stages[1].CarrierBotCount)
}

func TestLoadStagesRejectsBadTables(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("[]"), 0o644))
	_, err := LoadStages(empty)
	assert.Error(t, err)

	noID := filepath.Join(dir, "noid.yaml")
	require.NoError(t, os.WriteFile(noID, []byte("- name: nameless\n"), 0o644))
	_, err = LoadStages(noID)
	assert.Error(t, err)

	_, err = LoadStages(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
