package main

import (
	"flag"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/engine"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/server"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/storage"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/version"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	var (
		seed       int64
		port       int
		replayDir  string
		catalog    string
		stageFile  string
		replayPath string
	)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.IntVar(&port, "port", 8080, "HTTP port")
	flag.StringVar(&replayDir, "replay-dir", "", "Directory for session replay logs (empty to disable)")
	flag.StringVar(&catalog, "catalog", "", "Path to sqlite session catalog (empty to disable)")
	flag.StringVar(&stageFile, "stages", "", "Path to stage table YAML (empty for builtin)")
	flag.StringVar(&replayPath, "replay", "", "Path to .zer replay file to simulate")
	flag.Parse()

	logger.Log.Info("Starting Zombie Escape server...")
	logger.Log.Info(version.String())

	if p := os.Getenv("ZE_PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	cfg := engine.NewConfig()
	cfg.Port = port
	cfg.ReplayDir = replayDir
	cfg.CatalogPath = catalog
	cfg.StageFile = stageFile
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit master seed: %d", seed)
	} else {
		logger.Log.Infof("🎲 Using random master seed: %d", cfg.Seed)
	}

	// РЕЖИМ РЕПЛЕЯ: прогон ленты ввода без сервера
	if replayPath != "" {
		runPlayback(cfg, replayPath)
		return
	}

	svc, err := engine.NewService(cfg)
	if err != nil {
		logger.Log.Fatal("Service init error: ", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	srv := server.New(svc, strconv.Itoa(port))
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	if err := srv.Shutdown(5 * time.Second); err != nil {
		logger.Log.Warn("HTTP shutdown: ", err)
	}
	svc.Shutdown()

	logger.Log.Info("Done.")
}

// runPlayback детерминированно прогоняет ленту повтора и печатает итог.
func runPlayback(cfg engine.Config, path string) {
	logger.Log.Info("💿 Mode: Replay Simulation")

	rr, err := storage.OpenReplay(path)
	if err != nil {
		logger.Log.Fatal("Failed to open replay: ", err)
	}
	defer rr.Close()

	stages := engine.DefaultStages()
	if cfg.StageFile != "" {
		if loaded, err := engine.LoadStages(cfg.StageFile); err == nil {
			stages = loaded
		}
	}
	stage, ok := engine.StageByID(stages, rr.Header.Stage)
	if !ok {
		logger.Log.Fatalf("Replay references unknown stage %q", rr.Header.Stage)
	}

	game, err := engine.NewGame(stage, rr.Header.Seed)
	if err != nil {
		logger.Log.Fatal("Failed to rebuild level: ", err)
	}

	for !game.Finished() {
		frame, err := rr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Log.Fatal("Replay read error: ", err)
		}
		game.Step(engine.Input{
			Dx: int(frame.Dx), Dy: int(frame.Dy),
			Jump: frame.Jump, Enter: frame.Enter, Mark: frame.Mark,
		})
	}

	logger.Log.Infof("Replay finished: stage=%s seed=%d ticks=%d status=%s (%s)",
		stage.ID, rr.Header.Seed, game.Frame, game.Status, game.Outcome)
}
