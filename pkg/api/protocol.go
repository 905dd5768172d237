package api

import (
	"encoding/json"
)

// --- КЛИЕНТ -> СЕРВЕР ---

// Типы клиентских команд.
const (
	CmdStart  = "START"  // создать сессию (стадия + сид)
	CmdAttach = "ATTACH" // подключиться наблюдателем/водителем к сессии
	CmdInput  = "INPUT"  // ввод на текущий тик
	CmdStop   = "STOP"   // остановить сессию
)

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
// Payload — JSON-объект, структура которого зависит от Type.
type ClientCommand struct {
	Type string `json:"type"`

	// Session ID сессии. Обязателен для всех команд, кроме START.
	Session string `json:"session,omitempty"`

	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// StartPayload создает новую сессию.
type StartPayload struct {
	// Stage ID стадии (stage1..stageN). Пустая строка — стадия по умолчанию.
	Stage string `json:"stage,omitempty"`

	// Seed строковый сид уровня. Пустая строка — случайный сид.
	// Одинаковый сид всегда дает одинаковый уровень.
	Seed string `json:"seed,omitempty"`
}

// AttachPayload подключает клиента к уже идущей сессии.
type AttachPayload struct {
	Session string `json:"session"`
}

// InputPayload это ввод игрока на один тик.
type InputPayload struct {
	// Dx/Dy направление движения, каждое из {-1, 0, 1}.
	Dx int `json:"dx"`
	Dy int `json:"dy"`

	// Jump запрос прыжка через провал.
	Jump bool `json:"jump,omitempty"`

	// Enter сесть в машину / выйти из нее.
	Enter bool `json:"enter,omitempty"`

	// Mark пометить стену перед собой целью для спутников.
	Mark bool `json:"mark,omitempty"`
}

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы серверных сообщений.
const (
	MsgState = "STATE"
	MsgEvent = "EVENT"
	MsgError = "ERROR"
)

// ServerMessage это корневой объект, который сервер отправляет клиенту.
type ServerMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`

	State *State `json:"state,omitempty"`
	Event *Event `json:"event,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// State это снимок мира на один тик, видимый клиенту.
type State struct {
	Tick  int64 `json:"tick"`
	NowMS int64 `json:"nowMs"`

	// Status статус сессии: RUNNING, WON, LOST.
	Status string `json:"status"`

	Player    *PlayerView `json:"player,omitempty"`
	Agents    []AgentView `json:"agents,omitempty"`
	Cars      []CarView   `json:"cars,omitempty"`
	Bots      []BotView   `json:"bots,omitempty"`
	Walls     []WallView  `json:"walls,omitempty"`
	Layout    *LayoutView `json:"layout,omitempty"`
	Survivors []HumanView `json:"survivors,omitempty"`
}

// Статусы сессии в State.Status.
const (
	StatusRunning = "RUNNING"
	StatusWon     = "WON"
	StatusLost    = "LOST"
)

// LayoutView метаданные поля. Шлется один раз при ATTACH/START и далее
// только при разрушении стен (клиент перестраивает сетку по Walls).
type LayoutView struct {
	GridW    int     `json:"w"`
	GridH    int     `json:"h"`
	CellSize float64 `json:"cellSize"`

	// Blueprint построчный ASCII-дамп исходного чертежа.
	Blueprint string `json:"blueprint,omitempty"`
}

// PlayerView это DTO игрока.
type PlayerView struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Dead    bool    `json:"dead,omitempty"`
	Driving bool    `json:"driving,omitempty"`
	Riding  bool    `json:"riding,omitempty"`
	HasFuel bool    `json:"hasFuel,omitempty"`
	Jumping bool    `json:"jumping,omitempty"`
}

// AgentView это DTO зомби-агента.
type AgentView struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Behavior string  `json:"behavior"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FacingX  float64 `json:"fx,omitempty"`
	FacingY  float64 `json:"fy,omitempty"`

	// Health доля здоровья 0..1 (распад).
	Health     float64 `json:"health"`
	Carbonized bool    `json:"carbonized,omitempty"`
	Paralyzed  bool    `json:"paralyzed,omitempty"`
}

// CarView это DTO машины.
type CarView struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w"`
	H       float64 `json:"h"`
	Fueled  bool    `json:"fueled,omitempty"`
	Waiting bool    `json:"waiting,omitempty"`
}

// BotView это DTO сервисных ботов (носильщик/патруль/вагонетка).
type BotView struct {
	ID   string  `json:"id"`
	Kind string  `json:"kind"` // CARRIER, PATROL, TRANSPORT
	X    float64 `json:"x"`
	Y    float64 `json:"y"`

	Carrying bool `json:"carrying,omitempty"`
}

// HumanView это DTO выжившего.
type HumanView struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Buddy     bool    `json:"buddy,omitempty"`
	Following bool    `json:"following,omitempty"`
	Rescued   bool    `json:"rescued,omitempty"`
	Dead      bool    `json:"dead,omitempty"`
}

// WallView это DTO живой стены. Шлется только дельтами: клиент убирает
// стены, пропавшие из списка.
type WallView struct {
	CellX  int    `json:"cx"`
	CellY  int    `json:"cy"`
	Kind   string `json:"kind"`
	Health int    `json:"health"`
}

// Event уведомляет о дискретном событии симуляции.
type Event struct {
	// Name: WIN, LOSE, SPAWN, WALL_DESTROYED, SURVIVOR_RESCUED...
	Name string `json:"name"`
	Tick int64  `json:"tick"`

	// Detail произвольные поля события.
	Detail map[string]any `json:"detail,omitempty"`
}

// Имена событий.
const (
	EventWin             = "WIN"
	EventLose            = "LOSE"
	EventSpawn           = "SPAWN"
	EventWallDestroyed   = "WALL_DESTROYED"
	EventSurvivorRescued = "SURVIVOR_RESCUED"
	EventSessionStopped  = "SESSION_STOPPED"
)

// SessionSummary — сводка живой сессии для отладочных ручек.
type SessionSummary struct {
	ID          string `json:"id"`
	Stage       string `json:"stage"`
	Seed        int64  `json:"seed"`
	Tick        int64  `json:"tick"`
	Status      string `json:"status"`
	Subscribers int    `json:"subscribers"`
}

// Error описывает отказ сервера выполнить команду.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Коды ошибок.
const (
	ErrCodeBadCommand     = "BAD_COMMAND"
	ErrCodeUnknownSession = "UNKNOWN_SESSION"
	ErrCodeUnknownStage   = "UNKNOWN_STAGE"
	ErrCodeInternal       = "INTERNAL"
)
