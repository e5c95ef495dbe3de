package totter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModule struct {
	name  string
	order *[]string
}

func (m recordingModule) Install(app *App, cmd *Commands) {
	*m.order = append(*m.order, m.name)
}

func TestAppBuilder_InstallOrder(t *testing.T) {
	var order []string

	NewAppBuilder().
		UseModule(
			recordingModule{name: "first", order: &order},
			recordingModule{name: "second", order: &order},
		).
		UseModule(recordingModule{name: "third", order: &order}).
		Build()

	require.Equal(t, []string{"first", "second", "third"}, order)
}

type resourceModule struct{}

func (m resourceModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(NewMockResource1("from module"))
	cmd.AddEntity(struct{ X int }{X: 1})
}

func TestAppBuilder_BuildFlushesInstallCommands(t *testing.T) {
	app := NewAppBuilder().UseModule(resourceModule{}).Build()

	count := 0
	MakeQuery1[struct{ X int }](app.Commands()).Map(func(eid EntityId, s *struct{ X int }) bool {
		count++
		return true
	})

	assert.Equal(t, 1, count, "Entities added during Install should exist after Build.")
}

func TestAppBuilder_StatefulRange(t *testing.T) {
	const (
		first State = iota + 1
		mid
		last
	)

	app := NewAppBuilder().UseStates(first, last).Build()

	// Registration for any state in the declared range works.
	app.UseSystem(System(func(cmd *Commands) {}).InState(OnExecute(mid)))

	require.Panics(t, func() {
		app.UseSystem(System(func(cmd *Commands) {}).InState(OnExecute(last + 1)))
	})
}
