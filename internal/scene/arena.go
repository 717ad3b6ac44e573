package scene

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"warvr/internal/geo"
	"warvr/internal/loader/schema"
)

// TargetID is a dense handle into the fixed teleport-target arena. Handles
// are stable for the life of the session.
type TargetID int

// NoTarget is the null handle.
const NoTarget TargetID = -1

// Arena wraps the ECS world with handle-based access to the teleport
// targets. Targets never change position or radius after Build; only their
// Highlight component mutates.
type Arena struct {
	targets   []ecs.Entity
	boards    []ecs.Entity
	targetMap ecs.Map3[Position, Disc, Highlight]
	boardMap  ecs.Map2[Position, Board]
	decorMap  ecs.Map2[Position, Decor]
}

// Build populates the world from the manifest room description and returns
// the arena. Targets are laid out on a ring starting at angle 0 (positive X),
// optionally plus a center target appended last.
func Build(world *ecs.World, room schema.Room, panels []schema.Panel) *Arena {
	a := &Arena{
		targetMap: *ecs.NewMap3[Position, Disc, Highlight](world),
		boardMap:  *ecs.NewMap2[Position, Board](world),
		decorMap:  *ecs.NewMap2[Position, Decor](world),
	}

	layout := room.Targets
	for i := 0; i < layout.Count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(layout.Count)
		e := a.targetMap.NewEntity(
			&Position{X: layout.RingRadius * math.Cos(angle), Y: 0, Z: layout.RingRadius * math.Sin(angle)},
			&Disc{Radius: layout.DiscRadius},
			&Highlight{},
		)
		a.targets = append(a.targets, e)
	}
	if layout.IncludeCenter {
		e := a.targetMap.NewEntity(
			&Position{},
			&Disc{Radius: layout.DiscRadius},
			&Highlight{},
		)
		a.targets = append(a.targets, e)
	}

	// Panel ring: slot 0 faces the front of the room (-Z), the rest spread
	// clockwise.
	n := len(panels)
	for i, p := range panels {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		a.boards = append(a.boards, a.boardMap.NewEntity(
			&Position{
				X: room.PanelRadius * math.Cos(angle),
				Y: room.EyeHeight,
				Z: room.PanelRadius * math.Sin(angle),
			},
			&Board{Slot: i, Kind: p.Kind, Title: p.Title},
		))
	}

	for _, d := range room.Decor {
		a.decorMap.NewEntity(
			&Position{X: d.X, Y: 0, Z: d.Z},
			&Decor{Kind: d.Kind},
		)
	}

	return a
}

// TargetCount returns the number of targets in the arena.
func (a *Arena) TargetCount() int { return len(a.targets) }

// Valid reports whether id is a live handle.
func (a *Arena) Valid(id TargetID) bool {
	return id >= 0 && int(id) < len(a.targets)
}

// TargetPosition returns the floor point of a target. The zero value is
// returned for an invalid handle.
func (a *Arena) TargetPosition(id TargetID) geo.Vec3 {
	if !a.Valid(id) {
		return geo.Vec3{}
	}
	pos, _, _ := a.targetMap.Get(a.targets[id])
	return geo.Vec3{X: pos.X, Y: 0, Z: pos.Z}
}

// SetHovered flips the hover flag of a target. Invalid handles are ignored.
func (a *Arena) SetHovered(id TargetID, hovered bool) {
	if !a.Valid(id) {
		return
	}
	_, _, hl := a.targetMap.Get(a.targets[id])
	hl.Hovered = hovered
}

// Hovered reports the hover flag of a target.
func (a *Arena) Hovered(id TargetID) bool {
	if !a.Valid(id) {
		return false
	}
	_, _, hl := a.targetMap.Get(a.targets[id])
	return hl.Hovered
}

// Pick resolves a ray against the target set and returns the hit target, or
// (NoTarget, false) on a miss. All discs lie on the ground plane, so the ray
// is cast to y=0 once; among overlapping discs the one whose center is
// closest to the hit point wins, ties broken by lowest handle. Deterministic
// and side-effect-free.
func (a *Arena) Pick(r geo.Ray) (TargetID, bool) {
	t, ok := r.IntersectGround()
	if !ok {
		return NoTarget, false
	}
	p := r.At(t)

	best := NoTarget
	bestDist := math.Inf(1)
	for i, e := range a.targets {
		pos, disc, _ := a.targetMap.Get(e)
		d := math.Hypot(p.X-pos.X, p.Z-pos.Z)
		if d <= disc.Radius && d < bestDist {
			best = TargetID(i)
			bestDist = d
		}
	}
	return best, best != NoTarget
}
