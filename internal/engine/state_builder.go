package engine

import (
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
)

// BuildState собирает снимок мира для клиентов. includeLayout — полные
// метаданные поля (шлются один раз при подключении, а не каждый тик).
func (g *Game) BuildState(includeLayout bool) *api.State {
	st := &api.State{
		Tick:   g.Frame,
		NowMS:  g.NowMS,
		Status: g.Status,
	}

	if p := g.Player; p != nil {
		st.Player = &api.PlayerView{
			ID:      p.ID.String(),
			X:       p.X,
			Y:       p.Y,
			Dead:    p.Dead,
			Driving: !p.DrivingID.IsNil(),
			Riding:  !p.RidingID.IsNil(),
			HasFuel: p.HasFuel,
			Jumping: p.Jump.Active,
		}
	}

	st.Agents = make([]api.AgentView, 0, len(g.Agents))
	for _, a := range g.Agents {
		if a.Dead {
			continue
		}
		v := api.AgentView{
			ID:       a.ID.String(),
			Kind:     a.Kind.String(),
			Behavior: a.Behavior.String(),
			X:        a.X,
			Y:        a.Y,
			FacingX:  a.FacingX,
			FacingY:  a.FacingY,
		}
		if a.Vitals != nil {
			v.Health = a.Vitals.HealthRatio()
			v.Carbonized = a.Vitals.Carbonized
			v.Paralyzed = a.Vitals.Paralyzed(g.NowMS)
		}
		st.Agents = append(st.Agents, v)
	}

	for _, c := range g.Cars {
		if c.Dead {
			continue
		}
		st.Cars = append(st.Cars, api.CarView{
			ID:      c.ID.String(),
			X:       c.X,
			Y:       c.Y,
			W:       c.W,
			H:       c.H,
			Fueled:  c.Fueled,
			Waiting: c.Waiting,
		})
	}

	for _, s := range g.Survivors {
		if s.Dead && !s.Rescued {
			continue
		}
		st.Survivors = append(st.Survivors, api.HumanView{
			ID:        s.ID.String(),
			X:         s.X,
			Y:         s.Y,
			Buddy:     s.Buddy,
			Following: s.Following,
			Rescued:   s.Rescued,
			Dead:      s.Dead,
		})
	}

	st.Bots = g.buildBotViews()
	st.Walls = g.buildWallViews()

	if includeLayout {
		st.Layout = &api.LayoutView{
			GridW:     g.Layout.GridW,
			GridH:     g.Layout.GridH,
			CellSize:  g.Layout.CellSize,
			Blueprint: g.World.Grid.String(),
		}
	}
	return st
}

func (g *Game) buildBotViews() []api.BotView {
	var out []api.BotView
	for _, b := range g.CarrierBots {
		if b.Dead {
			continue
		}
		out = append(out, api.BotView{
			ID: b.ID.String(), Kind: "CARRIER", X: b.X, Y: b.Y, Carrying: b.Carrying(),
		})
	}
	for _, b := range g.PatrolBots {
		if b.Dead {
			continue
		}
		out = append(out, api.BotView{ID: b.ID.String(), Kind: "PATROL", X: b.X, Y: b.Y})
	}
	for _, b := range g.TransportBots {
		if b.Dead {
			continue
		}
		out = append(out, api.BotView{ID: b.ID.String(), Kind: "TRANSPORT", X: b.X, Y: b.Y})
	}
	return out
}

func (g *Game) buildWallViews() []api.WallView {
	out := make([]api.WallView, 0, len(g.World.Walls))
	for _, w := range g.World.Walls {
		if !w.Alive() {
			continue
		}
		out = append(out, api.WallView{
			CellX:  w.Cell.X,
			CellY:  w.Cell.Y,
			Kind:   w.Kind.String(),
			Health: w.Health,
		})
	}
	return out
}
