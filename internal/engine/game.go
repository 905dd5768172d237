package engine

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/domain"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/geom"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/spatial"
	"github.com/tos-kamiya/zombie-escape-sub001/internal/systems"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/blueprint"
)

// Input — разобранный ввод игрока на один тик.
type Input struct {
	Dx, Dy int
	Jump   bool
	Enter  bool
	Mark   bool
}

// Кадровые интервалы грызни стен.
const (
	zombieGnawIntervalFrames = 30
	buddyGnawIntervalFrames  = 15
)

// Game — полное состояние одной сессии. Живет строго в горутине своего
// инстанса: никакой синхронизации внутри нет и не требуется.
type Game struct {
	Stage Stage
	Seed  int64

	World  *World
	Layout *domain.Layout
	Roster *domain.Roster
	Rng    *rand.Rand

	Player        *domain.Player
	Cars          []*domain.Car
	Survivors     []*domain.Survivor
	Agents        []*domain.Agent
	CarrierBots   []*domain.CarrierBot
	PatrolBots    []*domain.PatrolBot
	TransportBots []*domain.TransportBot
	Materials     []*domain.Material

	Footprints *domain.FootprintTrail
	Trains     *systems.TrainSet

	index     *spatial.Index
	wallIndex *spatial.WallIndex

	Frame int64
	NowMS int64

	Status  string
	Outcome string

	spawn spawnState

	// consumedItems — клетки подобранных предметов.
	consumedItems domain.CellSet
	hasEmptyCan   bool

	survivorsRescued int

	events []api.Event
}

// NewGame генерирует уровень стадии и собирает стартовое население.
func NewGame(stage Stage, seed int64) (*Game, error) {
	stage = stage.normalized()

	bp, err := blueprint.GenerateValid(seed, stage.BlueprintOptions())
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", stage.ID, err)
	}

	rng := rand.New(rand.NewSource(seed))
	world := BuildWorld(bp, stage, rng)

	g := &Game{
		Stage:         stage,
		Seed:          seed,
		World:         world,
		Layout:        world.Layout,
		Roster:        domain.NewRoster(),
		Rng:           rng,
		Footprints:    domain.NewFootprintTrail(domain.FootprintMax),
		Trains:        systems.NewTrainSet(),
		index:         spatial.NewIndex(domain.SpatialIndexCellSize),
		wallIndex:     spatial.NewWallIndex(domain.WallIndexCellSize),
		Status:        api.StatusRunning,
		consumedItems: make(domain.CellSet),
	}
	g.spawn.init(stage)

	world.OnWallDestroyed = func(cell domain.Cell) {
		g.pushEvent(api.EventWallDestroyed, map[string]any{"cx": cell.X, "cy": cell.Y})
	}

	g.placePopulation()
	g.spawn.bind(g)
	g.wallIndex.Rebuild(world.Walls)

	return g, nil
}

// placePopulation расставляет стартовые сущности по кандидатам чертежа.
func (g *Game) placePopulation() {
	l := g.Layout
	w := g.World

	// Игрок
	px, py := l.CellCenter(w.PlayerSpawn)
	p := &domain.Player{
		Mover: domain.Mover{X: px, Y: py, Radius: domain.PlayerRadius},
		Speed: domain.PlayerSpeed,
	}
	p.ID = g.Roster.Add(domain.ClassPlayer, p)
	g.Player = p

	// Машины побега
	for _, c := range w.CarSpawns {
		cx, cy := l.CellCenter(c)
		car := &domain.Car{
			Mover:  domain.Mover{X: cx, Y: cy, Radius: domain.CarRadius},
			W:      domain.CarWidth,
			H:      domain.CarHeight,
			Speed:  domain.CarSpeed,
			Fueled: !g.Stage.RequiresFuel,
		}
		car.ID = g.Roster.Add(domain.ClassCar, car)
		g.Cars = append(g.Cars, car)
	}

	// Машины ожидания снаружи (стадии эвакуации)
	g.placeWaitingCars()

	// Стартовые зомби
	for _, c := range w.ZombieSpawns {
		zx, zy := l.CellCenter(c)
		g.spawnAgentAt(zx, zy)
	}

	// Спутник
	for i := 0; i < g.Stage.BuddyCount; i++ {
		g.spawnSurvivorNear(p.X+domain.PlayerRadius*3, p.Y, true)
	}

	g.placeServiceBots()
}

// placeWaitingCars ставит машины ожидания на внешние клетки за выходами.
func (g *Game) placeWaitingCars() {
	if g.Stage.WaitingCarCount == 0 {
		return
	}
	l := g.Layout
	placed := 0
	for c := range l.ExitCells {
		if placed >= g.Stage.WaitingCarCount {
			break
		}
		out, ok := outsideNeighbor(l, c)
		if !ok {
			continue
		}
		cx, cy := l.CellCenter(out)
		car := &domain.Car{
			Mover:   domain.Mover{X: cx, Y: cy, Radius: domain.CarRadius},
			W:       domain.CarWidth,
			H:       domain.CarHeight,
			Speed:   domain.CarSpeed,
			Fueled:  true,
			Waiting: true,
		}
		car.ID = g.Roster.Add(domain.ClassCar, car)
		g.Cars = append(g.Cars, car)
		placed++
	}
}

func outsideNeighbor(l *domain.Layout, exit domain.Cell) (domain.Cell, bool) {
	for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		n := domain.Cell{X: exit.X + d[0], Y: exit.Y + d[1]}
		if l.OutsideCells.Has(n) {
			return n, true
		}
	}
	return domain.Cell{}, false
}

// placeServiceBots расставляет носильщиков, патрули и вагонетки.
func (g *Game) placeServiceBots() {
	l := g.Layout

	for i := 0; i < g.Stage.CarrierBotCount; i++ {
		c, ok := g.pickFreeCell()
		if !ok {
			break
		}
		x, y := l.CellCenter(c)
		axisX := i%2 == 0
		b := domain.NewCarrierBot(x, y, axisX, 1, domain.CarrierBotSpeed, domain.CarrierBotRadius)
		b.ID = g.Roster.Add(domain.ClassCarrierBot, b)
		g.CarrierBots = append(g.CarrierBots, b)

		// Материал в нескольких клетках по оси патруля
		mc := c
		if axisX {
			mc.X += 3
		} else {
			mc.Y += 3
		}
		if l.IsWalkable(mc) && !l.MaterialCells.Has(mc) {
			mx, my := l.CellCenter(mc)
			m := domain.NewMaterial(mx, my, domain.MaterialSize, mc)
			m.ID = g.Roster.Add(domain.ClassMaterial, m)
			l.MaterialCells.Add(mc)
			g.Materials = append(g.Materials, m)
		}
	}

	for i := 0; i < g.Stage.PatrolBotCount; i++ {
		c, ok := g.pickFreeCell()
		if !ok {
			break
		}
		x, y := l.CellCenter(c)
		b := &domain.PatrolBot{
			Mover: domain.Mover{X: x, Y: y, Radius: domain.PatrolBotRadius},
			Dir:   domain.PatrolDirection{DX: 1, DY: 0},
			Speed: domain.PatrolBotSpeed,
		}
		b.ID = g.Roster.Add(domain.ClassPatrolBot, b)
		g.PatrolBots = append(g.PatrolBots, b)
	}

	for i := 0; i < g.Stage.TransportBotCount; i++ {
		wp := g.transportRoute()
		if len(wp) < 2 {
			break
		}
		b := &domain.TransportBot{
			Mover:     domain.Mover{X: wp[0].X, Y: wp[0].Y, Radius: domain.TransportBotRadius},
			Waypoints: wp,
			TargetIdx: 1,
			Dir:       1,
			Speed:     domain.TransportSpeed,
		}
		b.ID = g.Roster.Add(domain.ClassTransportBot, b)
		g.TransportBots = append(g.TransportBots, b)
	}
}

// transportRoute строит маршрут вагонетки: самый длинный проходимый
// отрезок средней строки поля.
func (g *Game) transportRoute() []geom.Vec2 {
	l := g.Layout
	y := l.GridH / 2
	bestStart, bestLen := -1, 0
	start, length := -1, 0
	for x := 0; x <= l.GridW; x++ {
		c := domain.Cell{X: x, Y: y}
		if x < l.GridW && l.IsWalkable(c) {
			if start < 0 {
				start = x
			}
			length++
			continue
		}
		if length > bestLen {
			bestStart, bestLen = start, length
		}
		start, length = -1, 0
	}
	if bestLen < 4 {
		return nil
	}
	x1, y1 := l.CellCenter(domain.Cell{X: bestStart, Y: y})
	x2, y2 := l.CellCenter(domain.Cell{X: bestStart + bestLen - 1, Y: y})
	return []geom.Vec2{{X: x1, Y: y1}, {X: x2, Y: y2}}
}

// pickFreeCell ищет проходимую клетку подальше от игрока.
func (g *Game) pickFreeCell() (domain.Cell, bool) {
	l := g.Layout
	for i := 0; i < domain.OffscreenSpawnAttempts; i++ {
		c := domain.Cell{
			X: 3 + g.Rng.Intn(l.GridW-6),
			Y: 3 + g.Rng.Intn(l.GridH-6),
		}
		if !l.IsWalkable(c) || l.MaterialCells.Has(c) {
			continue
		}
		x, y := l.CellCenter(c)
		if g.Player != nil && math.Hypot(x-g.Player.X, y-g.Player.Y) < domain.SpawnPlayerBuffer {
			continue
		}
		return c, true
	}
	return domain.Cell{}, false
}

// spawnAgentAt создает зомби с поведением по долям стадии.
func (g *Game) spawnAgentAt(x, y float64) *domain.Agent {
	behavior := g.Stage.rollBehavior(g.Rng)

	kind := domain.KindZombie
	radius := domain.ZombieRadius
	speed := domain.ZombieBaseSpeed
	if behavior == domain.BehaviorDog {
		kind = domain.KindZombieDog
		radius = domain.DogRadius
		speed = domain.DogPatrolSpeed
	}

	a := &domain.Agent{
		Mover:    domain.Mover{X: x, Y: y, Radius: radius},
		Kind:     kind,
		Behavior: behavior,
		Speed:    speed,
		Vitals: domain.NewVitals(
			domain.ZombieMaxHealth,
			g.Stage.DecayDurationFrames,
			domain.ZombieDecayMinSpeedRatio,
			domain.ZombieCarbonizeDecayFrames,
		),
	}
	a.ID = g.Roster.Add(domain.ClassAgent, a)
	g.Agents = append(g.Agents, a)
	return a
}

// rollBehavior выбирает поведение по нормированным долям стадии.
func (s Stage) rollBehavior(rng *rand.Rand) domain.Behavior {
	type slot struct {
		b domain.Behavior
		w float64
	}
	slots := []slot{
		{domain.BehaviorNormal, s.NormalRatio},
		{domain.BehaviorTracker, s.TrackerRatio},
		{domain.BehaviorWallHugger, s.WallHugRatio},
		{domain.BehaviorSolitary, s.SolitaryRatio},
		{domain.BehaviorLineformer, s.LineformerRatio},
		{domain.BehaviorDog, s.DogRatio},
	}
	total := 0.0
	for _, sl := range slots {
		total += sl.w
	}
	if total <= 0 {
		return domain.BehaviorNormal
	}
	r := rng.Float64() * total
	for _, sl := range slots {
		r -= sl.w
		if r < 0 {
			return sl.b
		}
	}
	return domain.BehaviorNormal
}

func (g *Game) spawnSurvivorNear(x, y float64, buddy bool) *domain.Survivor {
	sx, sy, _ := systems.SeparateCircleFromWalls(x, y, domain.SurvivorRadius, g.World.Walls,
		domain.SeparateScale, domain.SeparateAttempts, domain.SeparateClearance)
	s := &domain.Survivor{
		Mover:     domain.Mover{X: sx, Y: sy, Radius: domain.SurvivorRadius},
		Speed:     domain.SurvivorApproachSpeed,
		Buddy:     buddy,
		Following: buddy,
	}
	if buddy {
		s.Speed = domain.BuddyFollowSpeed
	}
	s.ID = g.Roster.Add(domain.ClassSurvivor, s)
	g.Survivors = append(g.Survivors, s)
	return s
}

// pushEvent ставит событие в очередь кадра.
func (g *Game) pushEvent(name string, detail map[string]any) {
	g.events = append(g.events, api.Event{Name: name, Tick: g.Frame, Detail: detail})
}

// DrainEvents отдает накопленные события и очищает очередь.
func (g *Game) DrainEvents() []api.Event {
	ev := g.events
	g.events = nil
	return ev
}

// Finished сообщает, что сессия завершена.
func (g *Game) Finished() bool {
	return g.Status != api.StatusRunning
}

// lose завершает сессию поражением (идемпотентно).
func (g *Game) lose(reason string) {
	if g.Finished() {
		return
	}
	g.Status = api.StatusLost
	g.Outcome = reason
	g.Player.Dead = true
	g.pushEvent(api.EventLose, map[string]any{"reason": reason})
}

// win завершает сессию победой (идемпотентно).
func (g *Game) win(reason string) {
	if g.Finished() {
		return
	}
	g.Status = api.StatusWon
	g.Outcome = reason
	g.Player.Won = true
	g.pushEvent(api.EventWin, map[string]any{"reason": reason})
}

// Step продвигает симуляцию на один тик фиксированного шага.
func (g *Game) Step(in Input) {
	if g.Finished() {
		return
	}
	g.Frame++
	g.NowMS += domain.FrameMS

	g.updatePlayer(in)
	g.recordFootprint()

	if g.Layout.ConsumeWallIndexDirty() {
		g.wallIndex.Rebuild(g.World.AliveWalls())
	}
	g.rebuildIndex()

	promoted := systems.UpdateTrains(g.Trains, g.Agents, g.lookupAgent, g.NowMS)
	for _, m := range promoted {
		a := g.spawnAgentAt(m.X, m.Y)
		a.Behavior = domain.BehaviorLineformer
	}
	systems.TrackerCrowdControl(g.Agents, g.NowMS)

	g.updateAgents()
	g.updateSurvivors()
	g.updateBots()
	g.spawn.update(g)
	g.sweepVitals()
	g.checkEndurance()
}

func (g *Game) lookupAgent(id domain.EntityID) *domain.Agent {
	return g.Roster.Agent(id)
}

// rebuildIndex пересобирает пространственный индекс на начало кадра.
func (g *Game) rebuildIndex() {
	g.index.Reset()
	if p := g.Player; p != nil && !p.Dead {
		g.index.Insert(&p.Mover, domain.KindPlayer)
	}
	for _, c := range g.Cars {
		if !c.Dead {
			g.index.Insert(&c.Mover, domain.KindCar)
		}
	}
	for _, s := range g.Survivors {
		if !s.Dead && !s.Rescued {
			g.index.Insert(&s.Mover, domain.KindSurvivor)
		}
	}
	for _, a := range g.Agents {
		if !a.Dead {
			g.index.Insert(a, a.Kind)
		}
	}
	for _, b := range g.PatrolBots {
		if !b.Dead {
			g.index.Insert(&b.Mover, domain.KindPatrolBot)
		}
	}
}

// --- Игрок ---

func (g *Game) updatePlayer(in Input) {
	p := g.Player
	if p == nil || p.Dead {
		return
	}

	if !p.DrivingID.IsNil() {
		g.drivePlayer(in)
		return
	}
	if !p.RidingID.IsNil() {
		// Позицию ведет вагонетка (TransportSyncPassengers)
		return
	}

	dx := float64(in.Dx)
	dy := float64(in.Dy)
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l*p.Speed, dy/l*p.Speed
	}

	// Завершение прыжка
	if p.Jump.Active {
		dx = p.Jump.DX * p.Speed
		dy = p.Jump.DY * p.Speed
		if p.Jump.Expired(g.NowMS, domain.JumpDurationMS) {
			p.Jump.Active = false
			if g.Layout.PitfallCells.Has(g.Layout.CellAt(p.X, p.Y)) {
				g.lose("fell into a pit")
				return
			}
		}
	}

	fdx, fdy := systems.FloorDrift(g.Layout, p.X, p.Y)
	dx += fdx
	dy += fdy

	nearWalls := g.wallIndex.NearCircle(p.X, p.Y, p.Radius+g.Layout.CellSize)
	jumpReady := in.Jump && !p.Jump.Active &&
		systems.CanHumanoidJump(g.Layout, p.X, p.Y, dx, dy, domain.PlayerJumpRange)

	opt := &systems.AxisMove{
		Collide:   systems.CollideCircleWalls(p.Radius, nearWalls),
		BlockedAt: g.Layout.MaterialCells.Has,
		Layout:    g.Layout,
		Rollback:  domain.DefaultRollback,
		JumpReady: jumpReady,
		Jumping:   p.Jump.Active,
	}
	_, _, jumped := systems.MoveWithRollback(&p.Mover, dx, dy, opt)
	if jumped {
		if l := math.Hypot(dx, dy); l > 0 {
			p.Jump.Begin(g.NowMS, dx/l, dy/l)
		}
	}

	g.clampIntoField(&p.Mover)

	if in.Dx != 0 || in.Dy != 0 {
		p.FacingX = float64(in.Dx)
		p.FacingY = float64(in.Dy)
	}

	g.Trains.RemoveMarkersNear(p.X, p.Y, p.Radius+domain.TrainMarkerRadius)

	g.pickupItems()
	if in.Enter {
		g.tryEnterCar()
		g.tryBoardWaitingCar()
	}
	if in.Mark {
		g.markWallTarget()
	}
	if p.HasWallTarget && g.NowMS >= p.WallTargetUntilMS {
		p.HasWallTarget = false
	}

	g.checkThreatContact()
}

// drivePlayer ведет машину. Коллизия машины нарочно проще гуманоидной:
// один проход раздвижки от ближних стен.
func (g *Game) drivePlayer(in Input) {
	p := g.Player
	car := g.carByID(p.DrivingID)
	if car == nil {
		p.DrivingID = domain.NilEntityID
		return
	}

	if in.Enter {
		p.DrivingID = domain.NilEntityID
		p.X = car.X
		p.Y = car.Y - car.H/2 - p.Radius - 2
		return
	}

	dx := float64(in.Dx)
	dy := float64(in.Dy)
	if l := math.Hypot(dx, dy); l > 0 {
		dx, dy = dx/l*car.Speed, dy/l*car.Speed
		car.FacingX = dx / car.Speed
		car.FacingY = dy / car.Speed
	}

	newX := car.X + dx
	newY := car.Y + dy
	cell := g.Layout.CellAt(newX, newY)
	if g.Layout.PitfallCells.Has(cell) || g.Layout.FireFloorCells.Has(cell) ||
		g.Layout.SpikyCells.Has(cell) {
		return
	}
	if _, moving := g.Layout.MovingFloorCells[cell]; moving {
		return
	}

	nearWalls := g.wallIndex.NearCircle(newX, newY, car.Radius+g.Layout.CellSize)
	newX, newY, ok := systems.SeparateCircleFromWalls(newX, newY, car.Radius, nearWalls, 1.0, 1, 0)
	if !ok {
		return
	}
	car.X, car.Y = newX, newY
	p.X, p.Y = car.X, car.Y

	if car.Fueled && g.Layout.OutsideCells.Has(g.Layout.CellAt(car.X, car.Y)) {
		if g.buddyRequirementMet() {
			g.win("escaped by car")
		}
	}
}

func (g *Game) buddyRequirementMet() bool {
	if g.Stage.BuddyCount == 0 {
		return true
	}
	n := 0
	for _, s := range g.Survivors {
		if s.Buddy && !s.Dead && (s.Following || s.Rescued) {
			n++
		}
	}
	return n >= g.Stage.BuddyCount
}

func (g *Game) carByID(id domain.EntityID) *domain.Car {
	if v, ok := g.Roster.Get(id).(*domain.Car); ok && !v.Dead {
		return v
	}
	return nil
}

// pickupItems подбирает предметы на клетке игрока.
func (g *Game) pickupItems() {
	p := g.Player
	cell := g.Layout.CellAt(p.X, p.Y)
	if g.consumedItems.Has(cell) {
		return
	}

	switch {
	case containsCell(g.World.EmptyCanCells, cell) && !g.hasEmptyCan:
		g.hasEmptyCan = true
		g.consumedItems.Add(cell)
	case containsCell(g.World.FuelStationCells, cell) && g.hasEmptyCan && !p.HasFuel:
		// Станция не расходуется: канистра наполняется на клетке станции
		p.HasFuel = true
	case containsCell(g.World.FlashlightCells, cell):
		p.FlashlightJars++
		g.consumedItems.Add(cell)
	case containsCell(g.World.ShoesCells, cell):
		p.SpareShoes++
		g.consumedItems.Add(cell)
	}
}

func containsCell(cells []domain.Cell, c domain.Cell) bool {
	for _, x := range cells {
		if x == c {
			return true
		}
	}
	return false
}

// tryEnterCar сажает игрока в ближнюю машину побега; полная канистра
// при посадке уходит в бак.
func (g *Game) tryEnterCar() {
	p := g.Player
	for _, car := range g.Cars {
		if car.Dead || car.Waiting {
			continue
		}
		if math.Hypot(car.X-p.X, car.Y-p.Y) > car.Radius+p.Radius+8 {
			continue
		}
		if p.HasFuel && !car.Fueled {
			car.Fueled = true
			p.HasFuel = false
		}
		if !car.Fueled {
			continue
		}
		p.DrivingID = car.ID
		p.X, p.Y = car.X, car.Y
		return
	}
}

// tryBoardWaitingCar отправляет игрока с машиной ожидания (эвакуация):
// игрок уезжает последним, когда выжившие спасены.
func (g *Game) tryBoardWaitingCar() {
	if !g.Stage.RescueStage {
		return
	}
	p := g.Player
	for _, car := range g.Cars {
		if car.Dead || !car.Waiting {
			continue
		}
		if math.Hypot(car.X-p.X, car.Y-p.Y) > car.Radius+p.Radius+8 {
			continue
		}
		if g.survivorsRescued >= g.rescueGoal() {
			g.win("evacuation complete")
		}
		return
	}
}

// rescueGoal — по одному выжившему на машину ожидания.
func (g *Game) rescueGoal() int {
	if g.Stage.WaitingCarCount < 1 {
		return 1
	}
	return g.Stage.WaitingCarCount
}

// markWallTarget помечает стену перед игроком целью для спутников.
func (g *Game) markWallTarget() {
	p := g.Player
	fx, fy := p.FacingX, p.FacingY
	if fx == 0 && fy == 0 {
		return
	}
	c := g.Layout.CellAt(p.X+fx*g.Layout.CellSize, p.Y+fy*g.Layout.CellSize)
	if g.World.WallAt(c) == nil {
		return
	}
	p.WallTargetCell = c
	p.HasWallTarget = true
	p.WallTargetUntilMS = g.NowMS + domain.WallTargetTTLMS
}

// recordFootprint пишет след, если игрок пешком и ушел достаточно далеко.
func (g *Game) recordFootprint() {
	p := g.Player
	if p == nil || p.Dead || !p.OnFoot() {
		return
	}
	if p.HasFootprint {
		if math.Hypot(p.X-p.LastFootprintX, p.Y-p.LastFootprintY) < domain.FootprintStepDistance {
			return
		}
	}
	g.Footprints.Add(p.X, p.Y, g.NowMS)
	p.LastFootprintX = p.X
	p.LastFootprintY = p.Y
	p.HasFootprint = true
}

// checkThreatContact — касание активной угрозы пешим игроком.
func (g *Game) checkThreatContact() {
	p := g.Player
	if !p.OnFoot() || p.Jump.Active {
		return
	}
	for _, e := range g.index.QueryRadius(p.X, p.Y, p.Radius+domain.ZombieRadius+4,
		domain.KindZombie|domain.KindZombieDog|domain.KindTrappedZombie) {
		a, ok := e.(*domain.Agent)
		if !ok || !a.ActiveThreat(g.NowMS) {
			continue
		}
		if math.Hypot(a.X-p.X, a.Y-p.Y) <= a.Radius+p.Radius {
			g.lose("caught by " + a.Behavior.String())
			return
		}
	}
}

// --- Агенты ---

func (g *Game) updateAgents() {
	l := g.Layout
	p := g.Player

	var target geom.Vec2
	hasTarget := p != nil && !p.Dead && p.OnFoot()
	if p != nil {
		target = p.Pos()
	}

	footprints := g.Footprints.All()

	for _, a := range g.Agents {
		if a.Dead || a.Carbonized() {
			continue
		}
		if a.Vitals != nil && a.Vitals.Paralyzed(g.NowMS) {
			continue
		}

		nearWalls := g.wallIndex.NearCircle(a.X, a.Y, a.Radius+l.CellSize)
		nearby := g.nearbyAgents(a)

		s := &systems.Sense{
			Layout:     l,
			CellSize:   l.CellSize,
			Walls:      nearWalls,
			Target:     target,
			HasTarget:  hasTarget,
			Nearby:     nearby,
			Footprints: footprints,
			NowMS:      g.NowMS,
			Frame:      g.Frame,
			Rng:        g.Rng,
			Trains:     g.Trains,
			Lookup:     g.lookupAgent,
		}

		dx, dy := systems.Steer(a, s)
		fdx, fdy := systems.FloorDrift(l, a.X, a.Y)
		dx += fdx
		dy += fdy
		ndx, ndy := systems.CellEdgeNudge(l, nearWalls, a.X, a.Y, dx, dy)
		dx += ndx
		dy += ndy

		opt := &systems.AxisMove{
			Collide:   systems.CollideCircleWalls(a.Radius, nearWalls),
			BlockedAt: l.MaterialCells.Has,
			Layout:    l,
			Rollback:  domain.DefaultRollback,
			OnWallHit: g.gnawClosure(a, dx, dy),
		}
		hitX, hitY, _ := systems.MoveWithRollback(&a.Mover, dx, dy, opt)
		if hitX || hitY {
			// Блокировка сбрасывает курс блуждания
			a.Wander.NextRollMS = 0
		}
		a.SetFacing(dx, dy)

		if !l.FieldRect.ContainsPoint(a.X, a.Y) {
			g.killAgent(a)
			continue
		}
		if l.FireFloorCells.Has(l.CellAt(a.X, a.Y)) && a.Vitals != nil {
			a.Vitals.Carbonize()
			continue
		}

		if a.Behavior == domain.BehaviorDog {
			for _, v := range nearby {
				if systems.DogTryBite(a, v, g.Frame, g.NowMS) {
					break
				}
			}
		}
	}
}

// nearbyAgents собирает соседей-агентов в окрестности.
func (g *Game) nearbyAgents(a *domain.Agent) []*domain.Agent {
	ents := g.index.QueryRadius(a.X, a.Y, domain.DogPackChaseRange,
		domain.KindZombie|domain.KindZombieDog|domain.KindTrappedZombie)
	out := make([]*domain.Agent, 0, len(ents))
	for _, e := range ents {
		if o, ok := e.(*domain.Agent); ok && o != a {
			out = append(out, o)
		}
	}
	return out
}

// gnawClosure — зомби грызет стену, в которую уперся, с кадровым
// интервалом (размазанным по индексу сущности).
func (g *Game) gnawClosure(a *domain.Agent, dx, dy float64) func() {
	return func() {
		if g.Frame%zombieGnawIntervalFrames != int64(a.ID.Index())%zombieGnawIntervalFrames {
			return
		}
		c := g.Layout.CellAt(a.X+dx*2, a.Y+dy*2)
		if w := g.World.WallAt(c); w != nil && w.Kind != domain.WallOuter && w.Kind != domain.WallReinforced {
			w.TakeDamage(domain.ZombieWallDamage)
		}
	}
}

func (g *Game) killAgent(a *domain.Agent) {
	if a.Dead {
		return
	}
	a.Dead = true
	g.Roster.Remove(a.ID)
}

// sweepVitals применяет распад и убирает умерших.
func (g *Game) sweepVitals() {
	alive := g.Agents[:0]
	for _, a := range g.Agents {
		if !a.Dead && a.Vitals != nil {
			a.Vitals.ApplyDecay()
			if a.Vitals.Dead() {
				g.killAgent(a)
			}
		}
		if !a.Dead {
			alive = append(alive, a)
		}
	}
	g.Agents = alive
}

// checkEndurance — рассвет: пережившие до цели побеждают, уличные
// зомби обугливаются.
func (g *Game) checkEndurance() {
	if !g.Stage.EnduranceStage || g.Stage.EnduranceGoalMS == 0 {
		return
	}
	if g.NowMS < g.Stage.EnduranceGoalMS {
		return
	}
	for _, a := range g.Agents {
		if !a.Dead && a.Vitals != nil && g.Layout.OutsideCells.Has(g.Layout.CellAt(a.X, a.Y)) {
			a.Vitals.Carbonize()
		}
	}
	g.win("survived until dawn")
}

// --- Выжившие ---

func (g *Game) updateSurvivors() {
	l := g.Layout
	p := g.Player

	for _, s := range g.Survivors {
		if s.Dead || s.Rescued || !s.RidingID.IsNil() {
			continue
		}

		var dx, dy float64
		d := math.Hypot(p.X-s.X, p.Y-s.Y)

		switch {
		case s.Following:
			if d > p.Radius+s.Radius+10 {
				dx = (p.X - s.X) / d * s.Speed
				dy = (p.Y - s.Y) / d * s.Speed
			}
		case d <= domain.SurvivorApproachRadius && d > 0:
			dx = (p.X - s.X) / d * s.Speed
			dy = (p.Y - s.Y) / d * s.Speed
			if d <= p.Radius+s.Radius+6 {
				s.Following = true
				g.pushEvent(api.EventSurvivorRescued, map[string]any{"id": s.ID.String(), "joined": true})
			}
		}

		if s.BumpHoldFrames > 0 {
			s.BumpHoldFrames--
			dx, dy = -dx, -dy
		}

		nearWalls := g.wallIndex.NearCircle(s.X, s.Y, s.Radius+l.CellSize)
		opt := &systems.AxisMove{
			Collide:  systems.CollideCircleWalls(s.Radius, nearWalls),
			Layout:   l,
			Rollback: domain.BuddyRollback,
		}
		hitX, hitY, _ := systems.MoveWithRollback(&s.Mover, dx, dy, opt)
		if (hitX || hitY) && s.BumpHoldFrames == 0 {
			s.BumpHoldFrames = domain.HumanoidBumpHoldFrames
		}
		g.clampIntoField(&s.Mover)

		// Спутник грызет помеченную стену
		if s.Buddy && s.Following && p.HasWallTarget && g.Frame%buddyGnawIntervalFrames == 0 {
			if w := g.World.WallAt(p.WallTargetCell); w != nil {
				tx, ty := l.CellCenter(p.WallTargetCell)
				if math.Hypot(tx-s.X, ty-s.Y) <= domain.BuddyWallDamageRange {
					w.TakeDamage(domain.BuddyWallDamage)
				}
			} else {
				p.HasWallTarget = false
			}
		}

		// Эвакуация: ведомый выживший у машины ожидания уезжает
		if g.Stage.RescueStage && s.Following {
			for _, car := range g.Cars {
				if car.Waiting && !car.Dead &&
					math.Hypot(car.X-s.X, car.Y-s.Y) <= car.Radius+s.Radius+6 {
					s.Rescued = true
					g.survivorsRescued++
					g.Roster.Remove(s.ID)
					g.pushEvent(api.EventSurvivorRescued, map[string]any{"id": s.ID.String()})
					break
				}
			}
		}
	}
}

// --- Сервисные боты ---

func (g *Game) updateBots() {
	l := g.Layout
	p := g.Player

	for _, b := range g.CarrierBots {
		systems.CarrierBotTick(b, l, g.World.Walls, g.Cars, g.Materials, g.Roster.Material)
	}

	var playerPos *geom.Vec2
	var humanoids []geom.Vec2
	if p != nil && !p.Dead && p.OnFoot() {
		pos := p.Pos()
		playerPos = &pos
		humanoids = append(humanoids, pos)
	}
	for _, s := range g.Survivors {
		if !s.Dead && !s.Rescued {
			humanoids = append(humanoids, s.Pos())
		}
	}
	for _, b := range g.PatrolBots {
		systems.PatrolBotTick(b, l, g.World.Walls, g.Cars, g.PatrolBots, playerPos, humanoids, g.NowMS)
	}
	systems.PatrolShockContacts(g.PatrolBots, g.Agents, g.NowMS)

	for _, t := range g.TransportBots {
		if systems.TransportBotTick(t, g.World.Walls, g.NowMS) {
			systems.TransportAlightAll(t, p, g.Survivors)
		}
		systems.TransportBoarding(t, p, g.Survivors, g.NowMS)
		systems.TransportSyncPassengers(t, p, g.Survivors)
		systems.TransportPushBystanders(t, g.Agents)
	}
}

// clampIntoField удерживает гуманоида в пределах мировых границ.
func (g *Game) clampIntoField(m *domain.Mover) {
	fr := g.Layout.FieldRect
	if m.X < fr.X+m.Radius {
		m.X = fr.X + m.Radius
	}
	if m.X > fr.Right()-m.Radius {
		m.X = fr.Right() - m.Radius
	}
	if m.Y < fr.Y+m.Radius {
		m.Y = fr.Y + m.Radius
	}
	if m.Y > fr.Bottom()-m.Radius {
		m.Y = fr.Bottom() - m.Radius
	}
}
