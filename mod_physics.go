package totter

import (
	"cmp"
	"slices"
)

// StepReport is rebuilt by every physics step and records which entities
// were part of at least one resolved contact this frame. The game logic
// reads it to drive landing detection.
type StepReport struct {
	Contacts map[EntityId]bool
}

func NewStepReport() *StepReport {
	return &StepReport{Contacts: make(map[EntityId]bool)}
}

func (r *StepReport) reset() {
	clear(r.Contacts)
}

func (r *StepReport) mark(eid EntityId) {
	r.Contacts[eid] = true
}

// Touched reports whether the entity was in a resolved contact during the
// last physics step.
func (r *StepReport) Touched(eid EntityId) bool {
	return r.Contacts[eid]
}

// PhysicsModule installs the solver resources and the per-frame physics
// system. Share the same Tuning pointer with GameModule when assembling an
// app by hand; NewGameApp does this for you.
type PhysicsModule struct {
	Tuning *Tuning
}

func (m PhysicsModule) Install(app *App, cmd *Commands) {
	tuning := m.Tuning
	if tuning == nil {
		tuning = DefaultTuning()
	}

	cmd.AddResources(
		tuning,
		NewPhysicsWorld(tuning),
		NewSpatialHashGrid(tuning.BroadphaseCellSize),
		NewStepReport(),
	)

	app.UseSystem(
		System(physicsSystem).
			InStage(Update).
			RunAlways(),
	)
}

// physicsSystem advances the simulation by one frame: integrate forces,
// then run a fixed number of Gauss-Seidel detect/resolve passes over all
// body pairs and every dynamic body against the floor. Bodies are
// processed in entity-id order so a seeded run replays identically.
func physicsSystem(cmd *Commands, time *Time, world *PhysicsWorld, grid *SpatialHashGrid, floor *Floor, report *StepReport) {
	dt := time.Seconds()
	if dt <= 0 {
		return
	}

	report.reset()

	var bodies []*bodyState
	MakeQuery3[TransformComponent, RigidBodyComponent, ColliderComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, rb *RigidBodyComponent, col *ColliderComponent) bool {
		if len(col.Shapes) == 0 {
			return true
		}
		bodies = append(bodies, newBodyState(eid, tr, rb, col))
		return true
	})
	if len(bodies) == 0 {
		return
	}
	slices.SortFunc(bodies, func(a, b *bodyState) int {
		return cmp.Compare(a.eid, b.eid)
	})

	// Integrate gravity and velocities.
	for _, b := range bodies {
		b.rb.TouchingFloor = false
		if b.rb.IsStatic {
			continue
		}
		b.rb.Velocity[1] += world.Gravity * dt
		b.tr.Position = b.tr.Position.Add(b.rb.Velocity.Mul(dt))
		b.tr.Rotation += b.rb.AngularVelocity * dt
		b.refresh()
	}

	restingCutoff := world.Gravity * dt * world.RestingVelFactor

	for iter := 0; iter < world.Iterations; iter++ {
		// Positional correction moves bodies mid-frame, so the broad
		// phase is rebuilt every iteration; it only ever prunes.
		pairs := candidatePairs(grid, bodies)
		for _, pair := range pairs {
			contact, ok := collideBodies(pair[0], pair[1])
			if !ok {
				continue
			}
			correctPositions(&contact, world.Slop)
			resolveContact(&contact, restingCutoff)
			report.mark(pair[0].eid)
			report.mark(pair[1].eid)
		}

		for _, b := range bodies {
			if b.rb.IsStatic {
				continue
			}
			contact, ok := collideFloor(b, floor)
			if !ok {
				continue
			}
			b.rb.TouchingFloor = true
			correctPositions(&contact, world.Slop)
			resolveContact(&contact, restingCutoff)
			report.mark(b.eid)
		}
	}

	// Elasticity decay: a body settled on the floor long enough stops
	// bouncing for the rest of its life, but keeps integrating and
	// colliding normally.
	for _, b := range bodies {
		if b.rb.IsStatic {
			continue
		}
		if b.rb.TouchingFloor {
			b.rb.FloorContactTime += dt
			if b.rb.FloorContactTime > world.RestitutionDecayTime {
				b.rb.Restitution = 0
			}
		} else {
			b.rb.FloorContactTime = 0
		}
	}
}

// candidatePairs runs the broad phase: bodies are binned by AABB and only
// overlapping bins produce pairs. Static-static pairs are dropped here,
// and the pair list keeps the deterministic body order.
func candidatePairs(grid *SpatialHashGrid, bodies []*bodyState) [][2]*bodyState {
	grid.Clear()
	byId := make(map[EntityId]*bodyState, len(bodies))
	for _, b := range bodies {
		byId[b.eid] = b
		grid.Insert(b.eid, AABB{Min: b.aabbMin, Max: b.aabbMax})
	}

	var pairs [][2]*bodyState
	seen := make(map[[2]EntityId]struct{})
	for _, a := range bodies {
		candidates := grid.QueryAABB(AABB{Min: a.aabbMin, Max: a.aabbMax})
		slices.Sort(candidates)
		for _, id := range candidates {
			if id <= a.eid {
				continue
			}
			b := byId[id]
			if a.rb.IsStatic && b.rb.IsStatic {
				continue
			}
			key := [2]EntityId{a.eid, id}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, [2]*bodyState{a, b})
		}
	}
	return pairs
}
