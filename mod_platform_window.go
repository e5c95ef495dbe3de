package totter

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowState owns the GLFW window handle. The window is created without a
// client API so any renderer can attach its own surface to it.
type WindowState struct {
	windowGlfw *glfw.Window
	Title      string

	bound bool
}

// Window exposes the raw handle for renderers living outside the engine.
func (s *WindowState) Window() *glfw.Window {
	return s.windowGlfw
}

// PlatformWindowModule opens a GLFW window and bridges its events into the
// Input queue. Headless hosts (tests, servers) simply leave this module
// out and push events themselves.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	width, height, title := m.Width, m.Height, m.Title
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 600
	}
	if title == "" {
		title = "Totter"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		panic(err)
	}

	cmd.AddResources(&WindowState{windowGlfw: win, Title: title})

	app.UseSystem(
		System(platformPollSystem).
			InStage(Prelude).
			RunAlways(),
	)
}

// platformPollSystem pumps the OS event loop. Callbacks are bound on the
// first frame, once the Input resource exists for them to close over.
func platformPollSystem(cmd *Commands, s *WindowState, input *Input) {
	if !s.bound {
		s.bound = true
		bindWindowCallbacks(s.windowGlfw, input)
	}

	glfw.PollEvents()

	if s.windowGlfw.ShouldClose() {
		cmd.ChangeState(StateQuit)
	}
}

func bindWindowCallbacks(win *glfw.Window, input *Input) {
	win.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		code, ok := glfwKeyCodes[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			input.PushKeyDown(code)
		case glfw.Release:
			input.PushKeyUp(code)
		}
	})

	win.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		input.PushPointerMove(x, y)
	})

	win.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		code, ok := glfwMouseCodes[button]
		if !ok {
			return
		}
		x, y := w.GetCursorPos()
		switch action {
		case glfw.Press:
			input.PushPointerDown(code, x, y)
		case glfw.Release:
			input.PushPointerUp(code, x, y)
		}
	})

	win.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		input.PushResize(float64(width), float64(height))
	})
}

var glfwKeyCodes = map[glfw.Key]int{
	glfw.KeyA:      KeyA,
	glfw.KeyB:      KeyB,
	glfw.KeyC:      KeyC,
	glfw.KeyD:      KeyD,
	glfw.KeyE:      KeyE,
	glfw.KeyF:      KeyF,
	glfw.KeyG:      KeyG,
	glfw.KeyH:      KeyH,
	glfw.KeyI:      KeyI,
	glfw.KeyJ:      KeyJ,
	glfw.KeyK:      KeyK,
	glfw.KeyL:      KeyL,
	glfw.KeyM:      KeyM,
	glfw.KeyN:      KeyN,
	glfw.KeyO:      KeyO,
	glfw.KeyP:      KeyP,
	glfw.KeyQ:      KeyQ,
	glfw.KeyR:      KeyR,
	glfw.KeyS:      KeyS,
	glfw.KeyT:      KeyT,
	glfw.KeyU:      KeyU,
	glfw.KeyV:      KeyV,
	glfw.KeyW:      KeyW,
	glfw.KeyX:      KeyX,
	glfw.KeyY:      KeyY,
	glfw.KeyZ:      KeyZ,
	glfw.Key0:      Key0,
	glfw.Key1:      Key1,
	glfw.Key2:      Key2,
	glfw.Key3:      Key3,
	glfw.Key4:      Key4,
	glfw.Key5:      Key5,
	glfw.Key6:      Key6,
	glfw.Key7:      Key7,
	glfw.Key8:      Key8,
	glfw.Key9:      Key9,
	glfw.KeySpace:  KeySpace,
	glfw.KeyEnter:  KeyEnter,
	glfw.KeyEscape: KeyEscape,
	glfw.KeyRight:  KeyRight,
	glfw.KeyLeft:   KeyLeft,
	glfw.KeyDown:   KeyDown,
	glfw.KeyUp:     KeyUp,
}

var glfwMouseCodes = map[glfw.MouseButton]int{
	glfw.MouseButtonLeft:   MouseButtonLeft,
	glfw.MouseButtonRight:  MouseButtonRight,
	glfw.MouseButtonMiddle: MouseButtonMiddle,
}
