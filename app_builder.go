package totter

import (
	"reflect"
)

// Module is a pluggable unit of engine functionality. Install registers the
// module's resources and systems on the app.
type Module interface {
	Install(app *App, cmd *Commands)
}

type AppBuilder struct {
	app     *App
	modules []Module
}

func NewAppBuilder() *AppBuilder {
	ecs := MakeEcs()
	return &AppBuilder{app: &App{
		resources: make(map[reflect.Type]any),
		stateful:  false,
		ecs:       &ecs,
	}}
}

// UseStates makes the app stateful. States must be a contiguous range;
// reaching finalState terminates Run.
func (b *AppBuilder) UseStates(initialState State, finalState State) *AppBuilder {
	b.app.stateful = true
	b.app.initialState = initialState
	b.app.finalState = finalState

	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build wires the stage tables and installs every module in registration
// order. Modules installed earlier get their systems called earlier within
// a stage.
func (b *AppBuilder) Build() *App {
	app := b.app
	app.stages = defaultStages()
	app.systems = make(map[string]map[State]map[statePhase][]systemFn)
	app.systemsStateless = make(map[string][]systemFn)
	for _, stage := range app.stages {
		app.initStage(stage)
	}

	commands := &Commands{app: app}
	for _, module := range b.modules {
		module.Install(app, commands)
	}
	app.FlushCommands()

	return app
}
