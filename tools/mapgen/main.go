package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/engine"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/blueprint"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/utils"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "gen":
		if len(os.Args) < 4 {
			fmt.Println("Usage: mapgen gen <stage> <seed>")
			return
		}
		runGen(os.Args[2], os.Args[3])
	case "raw":
		if len(os.Args) < 4 {
			fmt.Println("Usage: mapgen raw <stage> <seed>")
			return
		}
		runRaw(os.Args[2], os.Args[3])
	case "scan":
		if len(os.Args) < 4 {
			fmt.Println("Usage: mapgen scan <stage> <count>")
			return
		}
		n, err := strconv.Atoi(os.Args[3])
		if err != nil {
			fmt.Printf("Invalid count: %v\n", err)
			return
		}
		runScan(os.Args[2], n)
	case "stages":
		for _, s := range engine.DefaultStages() {
			fmt.Printf("%-8s %s\n", s.ID, s.Name)
		}
	default:
		printHelp()
	}
}

// runGen генерирует валидный чертеж стадии и печатает его ASCII-дамп.
func runGen(stageID, seed string) {
	stage, ok := engine.StageByID(engine.DefaultStages(), stageID)
	if !ok {
		fmt.Printf("Unknown stage: %s\n", stageID)
		os.Exit(1)
	}

	bp, err := blueprint.GenerateValid(utils.StringToSeed(seed), stage.BlueprintOptions())
	if err != nil {
		fmt.Printf("Generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(bp.Grid.String())
	fmt.Printf("stage=%s seed=%q steel=%d carReach=%d\n",
		stage.ID, seed, len(bp.SteelCells), len(bp.CarReachable))
}

// runRaw — один проход генератора без перебора, плюс вердикт валидации.
// Удобно смотреть, ПОЧЕМУ конкретный сид бракуется.
func runRaw(stageID, seed string) {
	stage, ok := engine.StageByID(engine.DefaultStages(), stageID)
	if !ok {
		fmt.Printf("Unknown stage: %s\n", stageID)
		os.Exit(1)
	}

	opts := stage.BlueprintOptions()
	rng := rand.New(rand.NewSource(utils.StringToSeed(seed)))
	bp := blueprint.Generate(rng, opts)

	fmt.Print(bp.Grid.String())
	if _, err := blueprint.ValidateConnectivity(bp.Grid, opts); err != nil {
		fmt.Printf("INVALID: %v\n", err)
		return
	}
	fmt.Println("VALID")
}

// runScan перебирает сиды 0..count-1 и печатает сводку по валидности.
func runScan(stageID string, count int) {
	stage, ok := engine.StageByID(engine.DefaultStages(), stageID)
	if !ok {
		fmt.Printf("Unknown stage: %s\n", stageID)
		os.Exit(1)
	}

	opts := stage.BlueprintOptions()
	valid := 0
	for seed := 0; seed < count; seed++ {
		rng := rand.New(rand.NewSource(int64(seed)))
		bp := blueprint.Generate(rng, opts)
		if _, err := blueprint.ValidateConnectivity(bp.Grid, opts); err == nil {
			valid++
		} else if count <= 20 {
			fmt.Printf("seed %d: %v\n", seed, err)
		}
	}
	fmt.Printf("stage=%s: %d/%d seeds valid (%.1f%%)\n",
		stage.ID, valid, count, 100*float64(valid)/float64(count))
}

func printHelp() {
	fmt.Println(`Map Generator - просмотр и проверка чертежей уровней
Commands:
  gen <stage> <seed>   - сгенерировать валидный чертеж и напечатать ASCII
  raw <stage> <seed>   - один проход генератора + вердикт валидации
  scan <stage> <count> - доля валидных сидов в диапазоне 0..count-1
  stages               - список встроенных стадий`)
}
