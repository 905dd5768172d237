package server

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/engine"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/logger"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// Client — посредник между одним websocket-соединением и GameService.
// ID сессии клиент узнает из поля Session первого STATE после START.
type Client struct {
	Service *engine.GameService
	Conn    *websocket.Conn

	// Send — исходящая очередь: сюда пишут и форвардер подписки хаба,
	// и обработчики команд (ошибки).
	Send chan api.ServerMessage

	ClientID string
	Session  string

	quit chan struct{}
}

func NewClient(svc *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Service:  svc,
		Conn:     conn,
		Send:     make(chan api.ServerMessage, 256),
		ClientID: utils.GenerateID(),
		quit:     make(chan struct{}),
	}
}

// readPump читает и исполняет команды клиента.
func (c *Client) readPump() {
	defer func() {
		close(c.quit)
		c.Service.Hub.Unregister(c.ClientID)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket")
		}
		logger.Log.WithField("client", c.ClientID).Info("client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.WithError(err).Warn("websocket read")
			}
			return
		}

		cmd, err := api.ParseCommand(raw)
		if err != nil {
			c.sendError(api.ErrCodeBadCommand, err.Error())
			continue
		}
		c.handleCommand(*cmd)
	}
}

func (c *Client) handleCommand(cmd api.ClientCommand) {
	switch cmd.Type {
	case api.CmdStart:
		start, err := api.ParseStart(cmd.Payload)
		if err != nil {
			c.sendError(api.ErrCodeBadCommand, err.Error())
			return
		}
		sessionID, err := c.Service.StartSession(start.Stage, start.Seed)
		if err != nil {
			code := api.ErrCodeInternal
			if start.Stage != "" {
				code = api.ErrCodeUnknownStage
			}
			c.sendError(code, err.Error())
			return
		}
		c.attachTo(sessionID)

	case api.CmdAttach:
		if err := c.Service.Attach(c.ClientID, cmd.Session); err != nil {
			c.sendError(api.ErrCodeUnknownSession, err.Error())
			return
		}
		c.Session = cmd.Session
		c.forwardHub()

	case api.CmdInput:
		in, err := api.ParseInput(cmd.Payload)
		if err != nil {
			c.sendError(api.ErrCodeBadCommand, err.Error())
			return
		}
		err = c.Service.PushInput(cmd.Session, engine.Input{
			Dx: in.Dx, Dy: in.Dy,
			Jump: in.Jump, Enter: in.Enter, Mark: in.Mark,
		})
		if err != nil {
			c.sendError(api.ErrCodeUnknownSession, err.Error())
		}

	case api.CmdStop:
		if err := c.Service.StopSession(cmd.Session); err != nil {
			c.sendError(api.ErrCodeUnknownSession, err.Error())
		}
	}
}

// attachTo подписывает клиента на сессию (регистрация в хабе плюс заказ
// полного снимка) и запускает форвардер.
func (c *Client) attachTo(sessionID string) {
	if err := c.Service.Attach(c.ClientID, sessionID); err != nil {
		c.sendError(api.ErrCodeUnknownSession, err.Error())
		return
	}
	c.Session = sessionID
	c.forwardHub()

	logger.Log.WithFields(logrus.Fields{
		"client":  c.ClientID,
		"session": sessionID,
	}).Info("client attached")
}

// forwardHub перекачивает сообщения личного канала хаба в Send.
// Повторная регистрация закрывает старый канал — старый форвардер
// завершается сам.
func (c *Client) forwardHub() {
	ch, ok := c.Service.Hub.Channel(c.ClientID)
	if !ok {
		return
	}
	go func() {
		for msg := range ch {
			select {
			case c.Send <- msg:
			case <-c.quit:
				return
			default:
				// Очередь забита: кадр дропается
			}
		}
	}()
}

func (c *Client) sendError(code, msg string) {
	select {
	case c.Send <- api.ServerMessage{
		Type:  api.MsgError,
		Error: &api.Error{Code: code, Message: msg},
	}:
	default:
	}
}

// writePump отправляет исходящие сообщения и пинги.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("close websocket in writePump")
		}
	}()

	for {
		select {
		case <-c.quit:
			if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				logger.Log.WithError(err).Debug("write close message")
			}
			return

		case msg := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("set write deadline")
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				logger.Log.WithError(err).Debug("write json")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
