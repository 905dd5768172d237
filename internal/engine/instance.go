package engine

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/network"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/storage"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
)

// Снимки STATE шлются не каждый тик: клиенту хватает 20 Гц, события
// уходят немедленно.
const stateEveryTicks = 3

// Задержка финального кадра перед остановкой цикла (в тиках): клиенты
// успевают получить WON/LOST.
const finishLingerTicks = 60

// Instance — одна запущенная сессия: игра плюс её горутина цикла.
// Всё состояние Game принадлежит горутине Run, внешний мир общается
// с ней только каналами.
type Instance struct {
	ID   string
	Game *Game

	// InputChan — ввод игрока; на тик применяется последний пришедший.
	InputChan chan Input

	// JoinChan — клиенты, которым нужен полный снимок (ATTACH).
	JoinChan chan string

	// StopChan закрывается командой STOP или остановкой сервиса.
	StopChan chan struct{}

	Hub *network.Broadcaster

	TickHz int

	// Replay — лента ввода (nil — повтор не пишется).
	Replay *storage.ReplayWriter

	// OnFinish дергается один раз по завершении цикла (итог в каталог).
	OnFinish func(inst *Instance)

	// Снимок для отладочных ручек: Game принадлежит горутине цикла,
	// HTTP-обработчики читают тик и статус только отсюда.
	sumMu     sync.Mutex
	sumTick   int64
	sumStatus string
}

// NewInstance собирает инстанс вокруг готовой игры.
func NewInstance(id string, game *Game, hub *network.Broadcaster, tickHz int) *Instance {
	if tickHz <= 0 {
		tickHz = domain.FPS
	}
	return &Instance{
		ID:        id,
		Game:      game,
		InputChan: make(chan Input, 100),
		JoinChan:  make(chan string, 10),
		StopChan:  make(chan struct{}),
		Hub:       hub,
		TickHz:    tickHz,
		sumStatus: game.Status,
	}
}

// Summary возвращает последний опубликованный тик и статус сессии.
func (inst *Instance) Summary() (int64, string) {
	inst.sumMu.Lock()
	defer inst.sumMu.Unlock()
	return inst.sumTick, inst.sumStatus
}

func (inst *Instance) publishSummary() {
	inst.sumMu.Lock()
	inst.sumTick = inst.Game.Frame
	inst.sumStatus = inst.Game.Status
	inst.sumMu.Unlock()
}

// Run крутит цикл фиксированного шага до победы, поражения или STOP.
func (inst *Instance) Run() {
	logger.Log.WithFields(logrus.Fields{
		"session": inst.ID,
		"stage":   inst.Game.Stage.ID,
		"seed":    inst.Game.Seed,
	}).Info("instance loop started")

	ticker := time.NewTicker(time.Second / time.Duration(inst.TickHz))
	defer ticker.Stop()
	defer inst.finish()

	linger := 0
	for {
		select {
		case <-inst.StopChan:
			inst.broadcastEvent(api.Event{Name: api.EventSessionStopped, Tick: inst.Game.Frame})
			return

		case clientID := <-inst.JoinChan:
			inst.sendSnapshot(clientID)

		case <-ticker.C:
			if inst.Game.Finished() {
				linger++
				if linger >= finishLingerTicks {
					return
				}
				continue
			}
			inst.tick()
		}
	}
}

// tick — один шаг: последний ввод, шаг симуляции, запись повтора,
// рассылка событий и (с прореживанием) снимка.
func (inst *Instance) tick() {
	in := inst.drainInput()
	inst.Game.Step(in)
	inst.publishSummary()

	if inst.Replay != nil {
		err := inst.Replay.Append(storage.InputFrame{
			Dx: int8(in.Dx), Dy: int8(in.Dy),
			Jump: in.Jump, Enter: in.Enter, Mark: in.Mark,
		})
		if err != nil {
			logger.Log.WithField("session", inst.ID).
				Warnf("replay write failed, disabling: %v", err)
			inst.Replay.Close()
			inst.Replay = nil
		}
	}

	for _, ev := range inst.Game.DrainEvents() {
		inst.broadcastEvent(ev)
	}

	if inst.Game.Finished() || inst.Game.Frame%stateEveryTicks == 0 {
		if inst.Hub.SessionSubscribers(inst.ID) > 0 {
			inst.Hub.BroadcastSession(inst.ID, api.ServerMessage{
				Type:    api.MsgState,
				Session: inst.ID,
				State:   inst.Game.BuildState(false),
			})
		}
	}
}

// drainInput забирает из канала последний ввод тика.
func (inst *Instance) drainInput() Input {
	var in Input
	for {
		select {
		case next := <-inst.InputChan:
			in = next
		default:
			return in
		}
	}
}

// sendSnapshot шлет клиенту полный снимок с разметкой поля.
func (inst *Instance) sendSnapshot(clientID string) {
	inst.Hub.SendTo(clientID, api.ServerMessage{
		Type:    api.MsgState,
		Session: inst.ID,
		State:   inst.Game.BuildState(true),
	})
}

func (inst *Instance) broadcastEvent(ev api.Event) {
	e := ev
	inst.Hub.BroadcastSession(inst.ID, api.ServerMessage{
		Type:    api.MsgEvent,
		Session: inst.ID,
		Event:   &e,
	})
}

// finish закрывает повтор и отчитывается сервису.
func (inst *Instance) finish() {
	if inst.Replay != nil {
		if err := inst.Replay.Close(); err != nil {
			logger.Log.WithField("session", inst.ID).Warnf("replay close: %v", err)
		}
	}
	if inst.OnFinish != nil {
		inst.OnFinish(inst)
	}
	logger.Log.WithFields(logrus.Fields{
		"session": inst.ID,
		"ticks":   inst.Game.Frame,
		"status":  inst.Game.Status,
	}).Info("instance loop finished")
}
