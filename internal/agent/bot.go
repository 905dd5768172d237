package agent

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/engine"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/utils"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Этот код является примером клиента, который подключается к движку
// так же, как и обычный игрок: регистрируется в хабе, получает снимки
// мира и на их основе решает, какой ввод отправить на следующий тик.
//
// Жизненный цикл:
//  1. NewBot -> генерация ClientID.
//  2. Run -> StartSession + Attach, подписка на личный канал хаба.
//  3. На каждый STATE вызывается decide, результат уходит в PushInput.
//  4. WIN/LOSE/SESSION_STOPPED завершают цикл.
//
// Мозг нарочно простой: пока пешком — идти к ближайшей машине,
// отбегая от зомби в упор; за рулем — ехать к ближайшему краю поля.
// Для дымовых прогонов стадий этого достаточно.
type Bot struct {
	ClientID string
	Service  *engine.GameService

	session string

	// dodgeRadius — дистанция, с которой бот начинает убегать от угрозы.
	dodgeRadius float64
}

func NewBot(service *engine.GameService) *Bot {
	return &Bot{
		ClientID:    utils.GenerateID(),
		Service:     service,
		dodgeRadius: 60,
	}
}

// Run создает сессию и играет ее до конца. Блокирует, запускать в горутине.
func (b *Bot) Run(stageID, seed string) {
	sessionID, err := b.Service.StartSession(stageID, seed)
	if err != nil {
		logger.Log.WithError(err).Error("[BOT] start session")
		return
	}
	b.session = sessionID

	if err := b.Service.Attach(b.ClientID, sessionID); err != nil {
		logger.Log.WithError(err).Error("[BOT] attach")
		return
	}
	defer b.Service.Hub.Unregister(b.ClientID)

	inbox, ok := b.Service.Hub.Channel(b.ClientID)
	if !ok {
		logger.Log.Error("[BOT] hub channel missing after attach")
		return
	}

	logger.Log.WithFields(logrus.Fields{
		"client":  b.ClientID,
		"session": sessionID,
	}).Info("[BOT] agent playing")

	var layout *api.LayoutView

	for msg := range inbox {
		switch msg.Type {
		case api.MsgState:
			if msg.State == nil {
				continue
			}
			if msg.State.Layout != nil {
				layout = msg.State.Layout
			}
			in := b.decide(msg.State, layout)
			if err := b.Service.PushInput(b.session, in); err != nil {
				logger.Log.WithError(err).Debug("[BOT] push input")
				return
			}

		case api.MsgEvent:
			if msg.Event == nil {
				continue
			}
			switch msg.Event.Name {
			case api.EventWin, api.EventLose, api.EventSessionStopped:
				logger.Log.WithFields(logrus.Fields{
					"session": b.session,
					"event":   msg.Event.Name,
					"tick":    msg.Event.Tick,
				}).Info("[BOT] session over")
				return
			}
		}
	}
}

// decide — мозг бота: один снимок мира -> один кадр ввода.
func (b *Bot) decide(state *api.State, layout *api.LayoutView) engine.Input {
	p := state.Player
	if p == nil || p.Dead {
		return engine.Input{}
	}

	// За рулем: к ближайшему краю поля.
	if p.Driving {
		return driveToEdge(p, layout)
	}
	if p.Riding {
		return engine.Input{} // везут — сидим смирно
	}

	// Угроза в упор перебивает любую цель.
	if tx, ty, ok := nearestThreat(p, state.Agents); ok {
		dist := math.Hypot(tx-p.X, ty-p.Y)
		if dist < b.dodgeRadius {
			return inputToward(p.X-(tx-p.X), p.Y-(ty-p.Y), p)
		}
	}

	// Пешком: к ближайшей машине, у самой машины — садимся.
	if cx, cy, ok := nearestCar(p, state.Cars); ok {
		if math.Hypot(cx-p.X, cy-p.Y) < 30 {
			in := inputToward(cx, cy, p)
			in.Enter = true
			return in
		}
		return inputToward(cx, cy, p)
	}

	return engine.Input{}
}

// driveToEdge направляет машину к ближайшей границе поля.
func driveToEdge(p *api.PlayerView, layout *api.LayoutView) engine.Input {
	if layout == nil {
		return engine.Input{Dy: -1}
	}
	w := float64(layout.GridW) * layout.CellSize
	h := float64(layout.GridH) * layout.CellSize

	// Расстояния до четырех границ.
	type edge struct {
		dist   float64
		dx, dy int
	}
	edges := []edge{
		{p.X, -1, 0},
		{w - p.X, 1, 0},
		{p.Y, 0, -1},
		{h - p.Y, 0, 1},
	}
	best := edges[0]
	for _, e := range edges[1:] {
		if e.dist < best.dist {
			best = e
		}
	}
	return engine.Input{Dx: best.dx, Dy: best.dy}
}

func nearestCar(p *api.PlayerView, cars []api.CarView) (x, y float64, ok bool) {
	best := math.MaxFloat64
	for _, c := range cars {
		if c.Waiting {
			continue // машины эвакуации — для выживших
		}
		d := math.Hypot(c.X-p.X, c.Y-p.Y)
		if d < best {
			best, x, y, ok = d, c.X, c.Y, true
		}
	}
	return x, y, ok
}

func nearestThreat(p *api.PlayerView, agents []api.AgentView) (x, y float64, ok bool) {
	best := math.MaxFloat64
	for _, a := range agents {
		if a.Carbonized || a.Paralyzed {
			continue
		}
		d := math.Hypot(a.X-p.X, a.Y-p.Y)
		if d < best {
			best, x, y, ok = d, a.X, a.Y, true
		}
	}
	return x, y, ok
}

// inputToward квантует вектор на цель в дискретный ввод {-1,0,1}.
func inputToward(tx, ty float64, p *api.PlayerView) engine.Input {
	var in engine.Input
	const deadband = 2.0 // гасим дрожание у цели

	if tx-p.X > deadband {
		in.Dx = 1
	} else if tx-p.X < -deadband {
		in.Dx = -1
	}
	if ty-p.Y > deadband {
		in.Dy = 1
	} else if ty-p.Y < -deadband {
		in.Dy = -1
	}
	return in
}
