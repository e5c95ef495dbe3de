package totter

import (
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Game states. A run moves Title -> Aiming -> Falling -> (Placing ->)
// Aiming, ends in GameOver, and Quit terminates the app.
const (
	StateTitle State = iota + 1
	StateAiming
	StateFalling
	StatePlacing
	StateGameOver
	StateQuit
)

// Rng is the shared random source. Seed it to make a whole run, species
// picks included, replayable.
type Rng struct {
	*rand.Rand
}

func NewRng(seed int64) *Rng {
	return &Rng{Rand: rand.New(rand.NewSource(seed))}
}

// GameSession is the mutable state of the current run: score, the active
// difficulty, and which entity (if any) is currently being aimed or
// placed.
type GameSession struct {
	Difficulty DifficultyLevel
	Params     DifficultyParams
	Score      int

	Current    EntityId
	HasCurrent bool

	AimTimeLeft float64
	ContactTime float64

	Board         EntityId
	HasBoard      bool
	BoardTimeLeft float64
}

// AnimalComponent tags a body as a dropped animal of a given species.
type AnimalComponent struct {
	Species AssetId
}

// BoardComponent tags a support board.
type BoardComponent struct {
	Variant BoardVariant
}

// PlacingComponent marks an entity that follows the pointer and is not yet
// part of the simulation. It carries no rigid body until committed, so
// physics never sees it.
type PlacingComponent struct{}

// GameModule installs the session, the random source and every
// state-machine system. Share the Tuning pointer with PhysicsModule;
// NewGameApp wires both from one config.
type GameModule struct {
	Tuning *Tuning
	Seed   int64
}

func (m GameModule) Install(app *App, cmd *Commands) {
	tuning := m.Tuning
	if tuning == nil {
		tuning = DefaultTuning()
	}
	seed := m.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session := &GameSession{
		Difficulty: DifficultyNormal,
		Params:     tuning.Difficulties[DifficultyNormal],
	}
	cmd.AddResources(session, NewRng(seed))

	app.UseSystem(System(titleSystem).InState(OnExecute(StateTitle)))
	app.UseSystem(System(aimEnterSystem).InState(OnEnter(StateAiming)))
	app.UseSystem(System(aimSystem).InState(OnExecute(StateAiming)))
	app.UseSystem(System(fallSystem).InState(OnExecute(StateFalling)))
	app.UseSystem(System(placeEnterSystem).InState(OnEnter(StatePlacing)))
	app.UseSystem(System(placeSystem).InState(OnExecute(StatePlacing)))
	app.UseSystem(System(gameOverInputSystem).InState(OnExecute(StateGameOver)))

	for _, state := range []State{StateAiming, StateFalling, StatePlacing} {
		app.UseSystem(
			System(overflowSystem).
				InStage(PostUpdate).
				InState(OnExecute(state)),
		)
	}
}

// titleSystem handles the menu: difficulty keys 1..3, start, quit.
func titleSystem(cmd *Commands, input *Input, session *GameSession, tuning *Tuning) {
	switch {
	case input.JustPressed[Key1]:
		setDifficulty(session, tuning, DifficultyEasy)
	case input.JustPressed[Key2]:
		setDifficulty(session, tuning, DifficultyNormal)
	case input.JustPressed[Key3]:
		setDifficulty(session, tuning, DifficultyHard)
	}

	if input.JustPressed[KeyEscape] {
		cmd.ChangeState(StateQuit)
		return
	}

	if input.JustPressed[KeySpace] || input.JustPressed[KeyEnter] {
		startRun(cmd, session)
	}
}

func setDifficulty(session *GameSession, tuning *Tuning, level DifficultyLevel) {
	session.Difficulty = level
	session.Params = tuning.Difficulties[level]
}

// startRun wipes every body from a previous run and enters Aiming.
func startRun(cmd *Commands, session *GameSession) {
	MakeQuery1[TransformComponent](cmd).Map(func(eid EntityId, tr *TransformComponent) bool {
		cmd.RemoveEntity(eid)
		return true
	})
	session.Score = 0
	session.HasCurrent = false
	session.HasBoard = false
	session.ContactTime = 0
	cmd.Logger().Infof("run started, difficulty=%s", session.Difficulty)
	cmd.ChangeState(StateAiming)
}

// aimEnterSystem spawns the next animal at the top of the viewport. The
// body is dynamic from the start, so gravity pulls on it while the player
// steers it; dropping only ends the steering.
func aimEnterSystem(cmd *Commands, session *GameSession, tuning *Tuning, assets *AssetServer, rng *Rng, vp *Viewport) {
	asset := assets.RandomSpecies(rng)
	if asset == nil {
		cmd.Logger().Errorf("no species registered, cannot spawn")
		cmd.ChangeState(StateGameOver)
		return
	}

	restitution := asset.Restitution * session.Params.RestitutionScale
	if restitution > 1 {
		restitution = 1
	}

	session.Current = cmd.AddEntity(
		TransformComponent{Position: mgl64.Vec2{vp.Width / 2.0, tuning.SpawnHeight}},
		RigidBodyComponent{
			Mass:        asset.Mass,
			Friction:    asset.Friction,
			Restitution: restitution,
		},
		ColliderComponent{Shapes: copyShapes(asset.Shapes, 1.0)},
		ColorComponent{Color: asset.Color},
		AnimalComponent{Species: asset.Id},
	)
	session.HasCurrent = true
	session.AimTimeLeft = tuning.AimTime
	session.ContactTime = 0
}

// aimSystem moves the held animal laterally and drops it on input or when
// the aim timer runs out.
func aimSystem(cmd *Commands, time *Time, input *Input, session *GameSession, tuning *Tuning, vp *Viewport) {
	if !session.HasCurrent || !cmd.Alive(session.Current) {
		session.HasCurrent = false
		cmd.ChangeState(StateGameOver)
		return
	}

	dt := time.Seconds()
	session.AimTimeLeft -= dt

	tr := ComponentOf[TransformComponent](cmd, session.Current)
	if tr == nil {
		return
	}

	if input.Pressed[KeyLeft] {
		tr.Position[0] -= tuning.AimMoveSpeed * dt
	}
	if input.Pressed[KeyRight] {
		tr.Position[0] += tuning.AimMoveSpeed * dt
	}
	tr.Position[0] = clampf(tr.Position[0], 0, vp.Width)

	drop := input.JustPressed[KeySpace] || input.JustPressed[KeyEnter] || session.AimTimeLeft <= 0
	if drop {
		cmd.ChangeState(StateFalling)
	}
}

// fallSystem waits for the dropped animal to come to rest. Settling is a
// resolved contact with velocity below the landing thresholds, or contact
// held continuously past the timeout (the piece is pinned but jittering).
func fallSystem(cmd *Commands, time *Time, session *GameSession, tuning *Tuning, report *StepReport) {
	if !session.HasCurrent || !cmd.Alive(session.Current) {
		session.HasCurrent = false
		cmd.ChangeState(StateGameOver)
		return
	}

	dt := time.Seconds()
	touched := report.Touched(session.Current)
	if touched {
		session.ContactTime += dt
	} else {
		session.ContactTime = 0
	}

	rb := ComponentOf[RigidBodyComponent](cmd, session.Current)
	if rb == nil {
		return
	}
	speedSq := rb.Velocity.LenSqr()
	angSq := rb.AngularVelocity * rb.AngularVelocity

	settled := touched && speedSq < tuning.LandSpeedSq && angSq < tuning.LandAngSpeedSq
	if !settled && session.ContactTime <= tuning.LandContactTimeout {
		return
	}

	session.Score++
	session.HasCurrent = false
	cmd.Logger().Debugf("landed, score=%d", session.Score)

	if session.Params.BoardInterval > 0 && session.Score%session.Params.BoardInterval == 0 {
		cmd.ChangeState(StatePlacing)
	} else {
		cmd.ChangeState(StateAiming)
	}
}

// placeEnterSystem creates the ghost board under the pointer. It has no
// rigid body yet, so it neither falls nor collides.
func placeEnterSystem(cmd *Commands, input *Input, session *GameSession, tuning *Tuning, assets *AssetServer, rng *Rng, vp *Viewport) {
	variant := session.Params.Boards[rng.Intn(len(session.Params.Boards))]
	board, ok := assets.Board(variant)
	if !ok {
		cmd.Logger().Warnf("board variant %d not registered, skipping interlude", variant)
		cmd.ChangeState(StateAiming)
		return
	}

	pos := mgl64.Vec2{
		clampf(input.MouseX, 0, vp.Width),
		clampf(input.MouseY, 0, vp.Height),
	}

	session.Board = cmd.AddEntity(
		TransformComponent{Position: pos},
		BoardComponent{Variant: variant},
		ColliderComponent{Shapes: copyShapes(board.Shapes, session.Params.BoardScale)},
		ColorComponent{Color: board.Color},
		PlacingComponent{},
	)
	session.HasBoard = true
	session.BoardTimeLeft = tuning.BoardPlaceTime
}

// placeSystem follows the pointer with the spinning board. A click anchors
// it as a static obstacle; letting the timer lapse forfeits it.
func placeSystem(cmd *Commands, time *Time, input *Input, session *GameSession, tuning *Tuning, assets *AssetServer, vp *Viewport) {
	if !session.HasBoard || !cmd.Alive(session.Board) {
		session.HasBoard = false
		cmd.ChangeState(StateAiming)
		return
	}

	dt := time.Seconds()
	session.BoardTimeLeft -= dt

	tr := ComponentOf[TransformComponent](cmd, session.Board)
	bc := ComponentOf[BoardComponent](cmd, session.Board)
	if tr == nil || bc == nil {
		return
	}

	tr.Position[0] = clampf(input.MouseX, 0, vp.Width)
	tr.Position[1] = clampf(input.MouseY, 0, vp.Height)
	tr.Rotation += tuning.BoardSpinRate * dt

	commit := input.JustPressed[MouseButtonLeft] || input.JustPressed[KeySpace] || input.JustPressed[KeyEnter]
	switch {
	case commit:
		friction := 0.5
		if board, ok := assets.Board(bc.Variant); ok {
			friction = board.Friction
		}
		cmd.AddComponents(session.Board, RigidBodyComponent{
			Friction: friction,
			IsStatic: true,
		})
		cmd.RemoveComponents(session.Board, PlacingComponent{})
		session.HasBoard = false
		cmd.ChangeState(StateAiming)
	case session.BoardTimeLeft <= 0:
		cmd.RemoveEntity(session.Board)
		session.HasBoard = false
		cmd.ChangeState(StateAiming)
	}
}

// overflowSystem ends the run when any body has fallen well below the
// viewport. It runs after physics so positions are final for the frame.
func overflowSystem(cmd *Commands, session *GameSession, tuning *Tuning, vp *Viewport) {
	limit := vp.Height + tuning.GameOverMargin
	over := false
	MakeQuery2[TransformComponent, RigidBodyComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, rb *RigidBodyComponent) bool {
		if tr.Position.Y() > limit {
			over = true
			return false
		}
		return true
	})
	if over {
		cmd.Logger().Infof("game over, score=%d", session.Score)
		cmd.ChangeState(StateGameOver)
	}
}

func gameOverInputSystem(cmd *Commands, input *Input) {
	if input.JustPressed[KeyEscape] {
		cmd.ChangeState(StateQuit)
		return
	}
	if input.JustPressed[KeyR] || input.JustPressed[KeySpace] || input.JustPressed[KeyEnter] {
		cmd.ChangeState(StateTitle)
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
