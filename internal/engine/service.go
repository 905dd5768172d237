package engine

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/network"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/storage"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/utils"
)

// GameService — реестр сессий. Создает инстансы по START, маршрутизирует
// ввод по каналам, ведет каталог итогов. Сам в симуляцию не лезет:
// каждая игра живет в горутине своего инстанса.
type GameService struct {
	Cfg    Config
	Hub    *network.Broadcaster
	Stages []Stage

	catalog *storage.Catalog

	mu        sync.RWMutex
	instances map[string]*Instance

	// wg считает горутины инстансов: Shutdown дожидается их итогов
	// до закрытия каталога.
	wg sync.WaitGroup
}

// NewService собирает сервис: таблица стадий из файла или встроенная,
// каталог — если задан путь.
func NewService(cfg Config) (*GameService, error) {
	stages := DefaultStages()
	if cfg.StageFile != "" {
		loaded, err := LoadStages(cfg.StageFile)
		if err != nil {
			return nil, err
		}
		stages = loaded
	}

	s := &GameService{
		Cfg:       cfg,
		Hub:       network.NewBroadcaster(),
		Stages:    stages,
		instances: make(map[string]*Instance),
	}

	if cfg.CatalogPath != "" {
		cat, err := storage.OpenCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		s.catalog = cat
	}
	return s, nil
}

// StartSession создает сессию: стадия по ID, сид из строки (пустая —
// производный от мастер-сида сервиса). Возвращает ID новой сессии.
func (s *GameService) StartSession(stageID, seedStr string) (string, error) {
	stage, ok := StageByID(s.Stages, stageID)
	if !ok {
		return "", fmt.Errorf("unknown stage %q", stageID)
	}

	sessionID := utils.GenerateID()
	seed := s.Cfg.Seed + utils.StringToSeed(sessionID)
	if seedStr != "" {
		seed = utils.StringToSeed(seedStr)
	}

	game, err := NewGame(stage, seed)
	if err != nil {
		return "", err
	}

	inst := NewInstance(sessionID, game, s.Hub, s.Cfg.TickHz)
	inst.OnFinish = s.onInstanceFinish

	replayPath := ""
	if s.Cfg.ReplayDir != "" {
		replayPath = filepath.Join(s.Cfg.ReplayDir, sessionID+".zer")
		rw, err := storage.NewReplayWriter(replayPath, seed, stage.ID)
		if err != nil {
			logger.Log.Warnf("replay disabled for session %s: %v", sessionID, err)
			replayPath = ""
		} else {
			inst.Replay = rw
		}
	}

	if s.catalog != nil {
		if err := s.catalog.CreateSession(sessionID, stage.ID, seed, replayPath); err != nil {
			logger.Log.Warnf("catalog insert failed: %v", err)
		}
	}

	s.mu.Lock()
	s.instances[sessionID] = inst
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		inst.Run()
	}()

	logger.Log.WithFields(logrus.Fields{
		"session": sessionID,
		"stage":   stage.ID,
		"seed":    seed,
	}).Info("session started")
	return sessionID, nil
}

// Instance возвращает инстанс сессии.
func (s *GameService) Instance(sessionID string) (*Instance, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instances[sessionID]
	return inst, ok
}

// Attach подписывает клиента на сессию и заказывает ему полный снимок.
func (s *GameService) Attach(clientID, sessionID string) error {
	inst, ok := s.Instance(sessionID)
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	s.Hub.Register(clientID, sessionID)
	select {
	case inst.JoinChan <- clientID:
	default:
	}
	return nil
}

// PushInput передает ввод в сессию. Полный канал — кадр теряется,
// клиент пришлет следующий.
func (s *GameService) PushInput(sessionID string, in Input) error {
	inst, ok := s.Instance(sessionID)
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	select {
	case inst.InputChan <- in:
	default:
	}
	return nil
}

// StopSession останавливает сессию. Повторная остановка безопасна.
func (s *GameService) StopSession(sessionID string) error {
	inst, ok := s.Instance(sessionID)
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	select {
	case <-inst.StopChan:
	default:
		close(inst.StopChan)
	}
	return nil
}

// Sessions возвращает сводку живых сессий для отладочных ручек.
func (s *GameService) Sessions() []api.SessionSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.SessionSummary, 0, len(s.instances))
	for id, inst := range s.instances {
		// Тик и статус — через опубликованный снимок: Game трогает
		// только горутина инстанса
		tick, status := inst.Summary()
		out = append(out, api.SessionSummary{
			ID:          id,
			Stage:       inst.Game.Stage.ID,
			Seed:        inst.Game.Seed,
			Tick:        tick,
			Status:      status,
			Subscribers: s.Hub.SessionSubscribers(id),
		})
	}
	return out
}

// RecentSessions отдает последние записи каталога (nil без каталога).
func (s *GameService) RecentSessions(limit int) ([]storage.SessionRecord, error) {
	if s.catalog == nil {
		return nil, nil
	}
	return s.catalog.RecentSessions(limit)
}

// onInstanceFinish — итог в каталог и снятие с реестра.
func (s *GameService) onInstanceFinish(inst *Instance) {
	if s.catalog != nil {
		outcome := inst.Game.Outcome
		if outcome == "" {
			outcome = "stopped"
		}
		if err := s.catalog.FinishSession(inst.ID, inst.Game.Frame, outcome); err != nil {
			logger.Log.Warnf("catalog finish failed: %v", err)
		}
	}

	s.mu.Lock()
	delete(s.instances, inst.ID)
	s.mu.Unlock()
}

// Shutdown останавливает все сессии и закрывает каталог.
func (s *GameService) Shutdown() {
	s.mu.RLock()
	ids := make([]string, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.StopSession(id)
	}

	// Горутины инстансов дописывают итоги в каталог из onInstanceFinish:
	// закрывать каталог можно только после их выхода
	s.wg.Wait()

	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			logger.Log.Warnf("catalog close: %v", err)
		}
	}
}
