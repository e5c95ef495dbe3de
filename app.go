package totter

import (
	"fmt"
	"reflect"
	"runtime"
)

type systemFn any

// App owns the ECS, the registered systems and the shared resources.
// A stateful app additionally runs a state machine: per stage, systems are
// scheduled on the enter/execute/exit phases of individual states, while
// stateless ("run always") systems execute in every frame regardless of
// the active state.
type App struct {
	stateful           bool
	stateTransitioning bool
	initialState       State
	finalState         State
	nextState          State
	state              State
	running            bool
	started            bool

	stages           []Stage
	systems          map[string]map[State]map[statePhase][]systemFn
	systemsStateless map[string][]systemFn
	resources        map[reflect.Type]any
	ecs              *Ecs

	// Command buffering, flushed between stages
	pendingAdditions    []pendingAdd
	pendingRemovals     []EntityId
	pendingCompAdds     []pendingCompAdd
	pendingCompRemovals []pendingCompRemoval
}

type pendingAdd struct {
	eid        EntityId
	components []any
}

type pendingCompAdd struct {
	eid        EntityId
	components []any
}

type pendingCompRemoval struct {
	eid        EntityId
	components []any
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

// Run drives the app until the final state is reached. Hosts that own
// their own frame pump should call Start once and then Step per frame
// instead.
func (app *App) Run() {
	app.Start()

	for app.running {
		app.Step()
	}
}

// Start enters the initial state. Calling it more than once is a no-op.
func (app *App) Start() {
	if app.started {
		return
	}
	app.started = true
	app.running = true

	if app.stateful {
		app.state = app.initialState
		app.callSystems(app.state, enter)
	}
}

// Step advances the app by exactly one frame: every stage in order, with
// stateless systems first and the active state's execute systems after,
// then any pending state transition.
func (app *App) Step() {
	if !app.started {
		app.Start()
	}

	app.callSystems(app.state, execute)

	if app.stateful {
		if app.stateTransitioning {
			app.stateTransitioning = false
			app.executeChangeState(app.nextState)
		}

		if app.state == app.finalState {
			app.callSystems(app.state, exit)
			app.running = false
		}
	}
}

// State reports the currently active state.
func (app *App) State() State {
	return app.state
}

func (app *App) callSystems(state State, phase statePhase) {
	for _, stage := range app.stages {
		// Stateless systems run only on the execute phase
		if phase == execute {
			for _, system := range app.systemsStateless[stage.Name] {
				app.callSystem(system)
			}
		}

		if app.stateful {
			if systemsInStage, ok := app.systems[stage.Name]; ok {
				if systemsInState, ok := systemsInStage[state]; ok {
					for _, system := range systemsInState[phase] {
						app.callSystem(system)
					}
				}
			}
		}
		app.FlushCommands()
	}
}

func (app *App) changeState(newState State) {
	app.nextState = newState
	app.stateTransitioning = true
}

func (app *App) executeChangeState(newState State) {
	app.callSystems(app.state, exit)
	app.state = newState
	app.callSystems(app.state, enter)
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

var typeOfCommands = reflect.TypeOf(Commands{})

// callSystem invokes a system function, resolving each pointer parameter
// to either a fresh Commands or a registered resource.
func (app *App) callSystem(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			resourceVal := reflect.ValueOf(resource)
			typedResourceVal := reflect.NewAt(underlyingType, resourceVal.UnsafePointer())

			args[i] = typedResourceVal
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

// FlushCommands applies buffered entity/component commands. Removals are
// processed first so the same frame cannot add to a dead entity.
func (app *App) FlushCommands() {
	if len(app.pendingAdditions) == 0 && len(app.pendingRemovals) == 0 &&
		len(app.pendingCompAdds) == 0 && len(app.pendingCompRemovals) == 0 {
		return
	}

	for _, eid := range app.pendingRemovals {
		app.ecs.removeEntity(eid)
	}
	app.pendingRemovals = app.pendingRemovals[:0]

	for _, add := range app.pendingAdditions {
		app.ecs.insertEntity(add.eid, add.components...)
	}
	app.pendingAdditions = app.pendingAdditions[:0]

	for _, add := range app.pendingCompAdds {
		app.ecs.addComponents(add.eid, add.components...)
	}
	app.pendingCompAdds = app.pendingCompAdds[:0]

	for _, rem := range app.pendingCompRemovals {
		app.ecs.removeComponents(rem.eid, rem.components...)
	}
	app.pendingCompRemovals = app.pendingCompRemovals[:0]
}
