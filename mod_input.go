package totter

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle
)

type inputEventKind int

const (
	eventKeyDown inputEventKind = iota
	eventKeyUp
	eventPointerMove
	eventPointerDown
	eventPointerUp
	eventResize
)

type inputEvent struct {
	kind inputEventKind
	code int
	x, y float64
}

// Input is the per-frame input state resource. Hosts (the glfw platform
// module, or any embedder driving the app headless) push discrete events;
// the input system drains them at the start of each frame into edge and
// level state.
type Input struct {
	Pressed      [256]bool
	JustPressed  [256]bool
	JustReleased [256]bool

	MouseX, MouseY float64

	queue []inputEvent
}

func (in *Input) PushKeyDown(code int) {
	in.queue = append(in.queue, inputEvent{kind: eventKeyDown, code: code})
}

func (in *Input) PushKeyUp(code int) {
	in.queue = append(in.queue, inputEvent{kind: eventKeyUp, code: code})
}

func (in *Input) PushPointerMove(x, y float64) {
	in.queue = append(in.queue, inputEvent{kind: eventPointerMove, x: x, y: y})
}

func (in *Input) PushPointerDown(button int, x, y float64) {
	in.queue = append(in.queue, inputEvent{kind: eventPointerDown, code: button, x: x, y: y})
}

func (in *Input) PushPointerUp(button int, x, y float64) {
	in.queue = append(in.queue, inputEvent{kind: eventPointerUp, code: button, x: x, y: y})
}

// PushResize queues a viewport size change. Dimensions are clamped to a
// minimum of 1 when applied.
func (in *Input) PushResize(width, height float64) {
	in.queue = append(in.queue, inputEvent{kind: eventResize, x: width, y: height})
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func inputSystem(input *Input, vp *Viewport) {
	for i := range input.JustPressed {
		input.JustPressed[i] = false
		input.JustReleased[i] = false
	}

	for _, ev := range input.queue {
		switch ev.kind {
		case eventKeyDown, eventPointerDown:
			if !input.Pressed[ev.code] {
				input.JustPressed[ev.code] = true
			}
			input.Pressed[ev.code] = true
			if ev.kind == eventPointerDown {
				input.MouseX, input.MouseY = ev.x, ev.y
			}
		case eventKeyUp, eventPointerUp:
			if input.Pressed[ev.code] {
				input.JustReleased[ev.code] = true
			}
			input.Pressed[ev.code] = false
		case eventPointerMove:
			input.MouseX, input.MouseY = ev.x, ev.y
		case eventResize:
			vp.Set(ev.x, ev.y)
		}
	}
	input.queue = input.queue[:0]
}
