package totter

// Viewport is the logical play-field size in world units. The platform
// window (or a headless host via Input.PushResize) keeps it in sync with
// the real surface.
type Viewport struct {
	Width  float64
	Height float64
}

// Set clamps both dimensions to a minimum of 1 so floor geometry never
// degenerates.
func (vp *Viewport) Set(width, height float64) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	vp.Width = width
	vp.Height = height
}

// Floor is the finite horizontal segment bodies land on. It is not a rigid
// body; collision against it is the dedicated half-plane test. Width and
// friction follow the active difficulty, and the segment is always
// horizontally centered in the viewport.
type Floor struct {
	Y        float64
	Width    float64
	Friction float64

	centerX float64
}

// Span returns the lateral extent of the floor segment.
func (f *Floor) Span() (left, right float64) {
	half := f.Width / 2.0
	return f.centerX - half, f.centerX + half
}

// Apply recomputes the floor from the viewport and difficulty parameters.
// Called every frame; cheap and idempotent, which makes resizes and
// difficulty switches free.
func (f *Floor) Apply(vp *Viewport, params *DifficultyParams, tuning *Tuning) {
	f.Width = params.FloorWidthFactor * vp.Width
	f.Friction = params.FloorFriction
	f.Y = vp.Height - tuning.FloorMargin
	f.centerX = vp.Width / 2.0
}

// WorldModule owns the viewport and floor resources.
type WorldModule struct {
	Width  float64
	Height float64
}

func (mod WorldModule) Install(app *App, cmd *Commands) {
	vp := &Viewport{}
	vp.Set(mod.Width, mod.Height)
	cmd.AddResources(vp, &Floor{})

	app.UseSystem(
		System(floorSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

func floorSystem(vp *Viewport, floor *Floor, session *GameSession, tuning *Tuning) {
	floor.Apply(vp, &session.Params, tuning)
}
