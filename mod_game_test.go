package totter

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gameProbe struct {
	input   *Input
	session *GameSession
	tuning  *Tuning
	floor   *Floor
	vp      *Viewport
}

func startGameApp(t *testing.T) (*App, *gameProbe) {
	t.Helper()

	app, err := NewGameApp(GameConfig{
		Width:    800,
		Height:   600,
		Seed:     42,
		FixedDt:  time.Second / 60,
		Headless: true,
	})
	require.NoError(t, err)

	probe := &gameProbe{}
	app.UseSystem(System(func(in *Input, s *GameSession, tn *Tuning, f *Floor, v *Viewport) {
		probe.input = in
		probe.session = s
		probe.tuning = tn
		probe.floor = f
		probe.vp = v
	}).InStage(Prelude).RunAlways())

	app.Start()
	require.Equal(t, StateTitle, app.State())
	app.Step()
	require.NotNil(t, probe.session)
	return app, probe
}

// tap presses and releases a key across two frames.
func tap(app *App, probe *gameProbe, key int) {
	probe.input.PushKeyDown(key)
	app.Step()
	probe.input.PushKeyUp(key)
	app.Step()
}

func startRunAt(t *testing.T, app *App, probe *gameProbe, difficulty int) {
	t.Helper()
	if difficulty != 0 {
		tap(app, probe, difficulty)
	}
	tap(app, probe, KeySpace)
	require.Equal(t, StateAiming, app.State())
}

func TestGame_TitleDifficultySelection(t *testing.T) {
	app, probe := startGameApp(t)

	tap(app, probe, Key3)
	assert.Equal(t, DifficultyHard, probe.session.Difficulty)
	assert.Equal(t, 0.3*800, probe.floor.Width, "The floor resizes with the selected difficulty.")

	tap(app, probe, Key1)
	assert.Equal(t, DifficultyEasy, probe.session.Difficulty)
	assert.Equal(t, 0.75*800, probe.floor.Width)
}

func TestGame_StartSpawnsAnimalAtTop(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)

	require.True(t, probe.session.HasCurrent)
	cmd := app.Commands()

	tr := ComponentOf[TransformComponent](cmd, probe.session.Current)
	require.NotNil(t, tr)
	assert.InDelta(t, 400, tr.Position.X(), 1e-9)
	assert.InDelta(t, probe.tuning.SpawnHeight, tr.Position.Y(), 1.0)

	rb := ComponentOf[RigidBodyComponent](cmd, probe.session.Current)
	require.NotNil(t, rb)
	assert.False(t, rb.IsStatic, "The aimed animal is simulated from the moment it spawns.")
	assert.NotNil(t, ComponentOf[AnimalComponent](cmd, probe.session.Current))
}

func TestGame_GravityActsWhileAiming(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	for i := 0; i < 60; i++ {
		app.Step()
	}

	require.Equal(t, StateAiming, app.State())
	tr := ComponentOf[TransformComponent](cmd, probe.session.Current)
	require.NotNil(t, tr)
	assert.Greater(t, tr.Position.Y(), probe.tuning.SpawnHeight+10.0,
		"A second of aiming pulls the animal well below the spawn point.")
}

func TestGame_AimingMovesLaterally(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	tr := ComponentOf[TransformComponent](cmd, probe.session.Current)
	startX := tr.Position.X()

	probe.input.PushKeyDown(KeyRight)
	for i := 0; i < 30; i++ {
		app.Step()
	}
	probe.input.PushKeyUp(KeyRight)
	app.Step()

	tr = ComponentOf[TransformComponent](cmd, probe.session.Current)
	moved := tr.Position.X() - startX
	assert.InDelta(t, probe.tuning.AimMoveSpeed*0.5, moved, 15.0,
		"Half a second of held right arrow moves at the aim speed.")
	assert.Greater(t, tr.Position.Y(), probe.tuning.SpawnHeight, "Gravity keeps pulling while steering.")
}

func TestGame_DropReleasesBody(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	tap(app, probe, KeySpace)
	require.Equal(t, StateFalling, app.State())

	rb := ComponentOf[RigidBodyComponent](cmd, probe.session.Current)
	require.NotNil(t, rb)
	assert.False(t, rb.IsStatic)
	assert.Greater(t, rb.Velocity.Y(), 0.0, "The dropped body keeps the speed it built up while aimed.")
}

func TestGame_AimTimeoutDrops(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)

	// A bit over the aim window at fixed 1/60 steps.
	frames := int(probe.tuning.AimTime*60) + 5
	for i := 0; i < frames && app.State() == StateAiming; i++ {
		app.Step()
	}
	assert.Equal(t, StateFalling, app.State(), "The aim timer force-drops.")
}

func stepUntilState(app *App, want State, maxFrames int) bool {
	for i := 0; i < maxFrames; i++ {
		if app.State() == want {
			return true
		}
		app.Step()
	}
	return app.State() == want
}

func TestGame_LandingScoresAndRespawns(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)

	first := probe.session.Current
	tap(app, probe, KeySpace)
	require.Equal(t, StateFalling, app.State())

	// Up to 30 simulated seconds for the piece to fall and settle.
	require.True(t, stepUntilState(app, StateAiming, 1800), "The drop should land and return to aiming.")

	assert.Equal(t, 1, probe.session.Score)
	assert.True(t, probe.session.HasCurrent)
	assert.NotEqual(t, first, probe.session.Current, "A fresh animal is spawned after landing.")
}

func TestGame_BoardInterludeEveryInterval(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	// Pretend the run is one landing away from the board interlude.
	probe.session.Score = probe.session.Params.BoardInterval - 1

	tap(app, probe, KeySpace)
	require.Equal(t, StateFalling, app.State())
	require.True(t, stepUntilState(app, StatePlacing, 1800))

	require.True(t, probe.session.HasBoard)
	board := probe.session.Board
	assert.NotNil(t, ComponentOf[PlacingComponent](cmd, board))
	assert.NotNil(t, ComponentOf[BoardComponent](cmd, board))
	assert.Nil(t, ComponentOf[RigidBodyComponent](cmd, board),
		"A board being placed is not part of the simulation yet.")
}

func TestGame_BoardPlacementCommits(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	probe.session.Score = probe.session.Params.BoardInterval - 1
	tap(app, probe, KeySpace)
	require.True(t, stepUntilState(app, StatePlacing, 1800))
	board := probe.session.Board

	probe.input.PushPointerMove(300, 400)
	app.Step()
	tr := ComponentOf[TransformComponent](cmd, board)
	require.NotNil(t, tr)
	assert.Equal(t, mgl64.Vec2{300, 400}, tr.Position, "The ghost board follows the pointer.")
	assert.NotZero(t, tr.Rotation, "The board spins while being placed.")

	probe.input.PushPointerDown(MouseButtonLeft, 300, 400)
	app.Step()

	assert.Equal(t, StateAiming, app.State())
	rb := ComponentOf[RigidBodyComponent](cmd, board)
	require.NotNil(t, rb, "Committing anchors the board as a rigid body.")
	assert.True(t, rb.IsStatic)
	assert.Nil(t, ComponentOf[PlacingComponent](cmd, board))
}

func TestGame_BoardPlacementTimeoutForfeits(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	probe.session.Score = probe.session.Params.BoardInterval - 1
	tap(app, probe, KeySpace)
	require.True(t, stepUntilState(app, StatePlacing, 1800))
	board := probe.session.Board

	frames := int(probe.tuning.BoardPlaceTime*60) + 5
	for i := 0; i < frames && app.State() == StatePlacing; i++ {
		app.Step()
	}

	assert.Equal(t, StateAiming, app.State())
	assert.False(t, cmd.Alive(board), "An unplaced board is discarded.")
	assert.False(t, probe.session.HasBoard)
}

func TestGame_OverflowEndsRun(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	// Teleport the held piece far below the viewport.
	tr := ComponentOf[TransformComponent](cmd, probe.session.Current)
	require.NotNil(t, tr)
	tr.Position[1] = probe.vp.Height + probe.tuning.GameOverMargin + 50

	app.Step()
	assert.Equal(t, StateGameOver, app.State())
}

func TestGame_GameOverRestart(t *testing.T) {
	app, probe := startGameApp(t)
	startRunAt(t, app, probe, 0)
	cmd := app.Commands()

	tr := ComponentOf[TransformComponent](cmd, probe.session.Current)
	tr.Position[1] = 10000
	app.Step()
	require.Equal(t, StateGameOver, app.State())

	tap(app, probe, KeyR)
	assert.Equal(t, StateTitle, app.State())

	// Starting again wipes the previous run's bodies and score.
	tap(app, probe, KeySpace)
	require.Equal(t, StateAiming, app.State())
	assert.Equal(t, 0, probe.session.Score)

	count := 0
	MakeQuery1[AnimalComponent](cmd).Map(func(eid EntityId, a *AnimalComponent) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count, "Only the freshly spawned animal remains.")
}

func TestGame_QuitFromTitle(t *testing.T) {
	app, probe := startGameApp(t)

	tap(app, probe, KeyEscape)
	assert.Equal(t, StateQuit, app.State())
	assert.False(t, app.running)
}

func TestGame_SeededRunsSpawnSameSpecies(t *testing.T) {
	// AssetIds are random uuids, compare via the species name instead.
	nameOf := func() string {
		app, probe := startGameApp(t)
		startRunAt(t, app, probe, 0)
		cmd := app.Commands()
		animal := ComponentOf[AnimalComponent](cmd, probe.session.Current)
		require.NotNil(t, animal)

		var server *AssetServer
		app.UseSystem(System(func(s *AssetServer) { server = s }).InStage(Update).RunAlways())
		app.Step()
		asset, ok := server.Species(animal.Species)
		require.True(t, ok)
		return asset.Name
	}

	assert.Equal(t, nameOf(), nameOf(), "The same seed spawns the same first animal.")
}
