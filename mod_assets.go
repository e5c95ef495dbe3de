package totter

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type AssetId string

// Color is a cosmetic tint carried through to the render snapshot. The
// engine never reads it.
type Color struct {
	R, G, B uint8
}

type ColorComponent struct {
	Color Color
}

// SpeciesAsset defines one animal kind: its composite silhouette in local
// space and its physical material. Shapes are owned by the asset; spawners
// hand out copies so no two bodies share polygon storage.
type SpeciesAsset struct {
	Id          AssetId
	Name        string
	Shapes      []Polygon
	Mass        float64
	Friction    float64
	Restitution float64
	Color       Color
}

// BoardAsset defines one support-board shape at unit scale; the active
// difficulty scales it at placement time.
type BoardAsset struct {
	Variant  BoardVariant
	Shapes   []Polygon
	Friction float64
	Color    Color
}

// AssetServer is the registry of species and board definitions. Species
// registration order is kept so that random picks are reproducible under a
// seeded generator.
type AssetServer struct {
	species      map[AssetId]*SpeciesAsset
	speciesOrder []AssetId
	boards       map[BoardVariant]*BoardAsset
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		species: make(map[AssetId]*SpeciesAsset),
		boards:  make(map[BoardVariant]*BoardAsset),
	}
}

func newAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// RegisterSpecies validates and stores a species definition, assigning it
// a fresh AssetId.
func (s *AssetServer) RegisterSpecies(asset SpeciesAsset) (AssetId, error) {
	if len(asset.Shapes) == 0 {
		return "", fmt.Errorf("species %q has no shapes", asset.Name)
	}
	for i, shape := range asset.Shapes {
		if len(shape) < 3 {
			return "", fmt.Errorf("species %q shape %d has %d vertices, need at least 3", asset.Name, i, len(shape))
		}
	}
	if asset.Mass <= 0 {
		return "", fmt.Errorf("species %q has non-positive mass %v", asset.Name, asset.Mass)
	}

	asset.Id = newAssetId()
	stored := asset
	s.species[asset.Id] = &stored
	s.speciesOrder = append(s.speciesOrder, asset.Id)
	return asset.Id, nil
}

func (s *AssetServer) Species(id AssetId) (*SpeciesAsset, bool) {
	asset, ok := s.species[id]
	return asset, ok
}

func (s *AssetServer) SpeciesCount() int {
	return len(s.speciesOrder)
}

// RandomSpecies picks a species with the simulation's own generator, so a
// seeded run always spawns the same menagerie. Returns nil when nothing is
// registered.
func (s *AssetServer) RandomSpecies(rng *Rng) *SpeciesAsset {
	if len(s.speciesOrder) == 0 {
		return nil
	}
	id := s.speciesOrder[rng.Intn(len(s.speciesOrder))]
	return s.species[id]
}

func (s *AssetServer) registerBoard(asset BoardAsset) {
	stored := asset
	s.boards[asset.Variant] = &stored
}

func (s *AssetServer) Board(variant BoardVariant) (*BoardAsset, bool) {
	asset, ok := s.boards[variant]
	return asset, ok
}

// copyShapes deep-copies a shape list, optionally scaling it. Each body
// must own its polygons outright.
func copyShapes(shapes []Polygon, scale float64) []Polygon {
	out := make([]Polygon, len(shapes))
	for i, shape := range shapes {
		poly := make(Polygon, len(shape))
		for j, v := range shape {
			poly[j] = v.Mul(scale)
		}
		out[i] = poly
	}
	return out
}

// rectShape builds a w-by-h rectangle centered on the given offset.
func rectShape(cx, cy, w, h float64) Polygon {
	hw, hh := w/2, h/2
	return Polygon{
		{cx - hw, cy - hh},
		{cx + hw, cy - hh},
		{cx + hw, cy + hh},
		{cx - hw, cy + hh},
	}
}

// triShape builds an upward-pointing isosceles triangle centered on the
// offset. Up is -y in screen space.
func triShape(cx, cy, w, h float64) Polygon {
	hw, hh := w/2, h/2
	return Polygon{
		{cx, cy - hh},
		{cx + hw, cy + hh},
		{cx - hw, cy + hh},
	}
}

// starShapes decomposes a five-pointed star into a regular pentagon plus
// five point triangles, since each collision shape must stay convex.
func starShapes(inner, outer float64) []Polygon {
	pent := make(Polygon, 5)
	tips := make([]mgl64.Vec2, 5)
	for i := 0; i < 5; i++ {
		// -90° puts the first tip straight up in screen coordinates.
		pentAngle := mgl64.DegToRad(float64(i)*72 - 90 + 36)
		tipAngle := mgl64.DegToRad(float64(i)*72 - 90)
		pent[i] = mgl64.Vec2{inner * math.Cos(pentAngle), inner * math.Sin(pentAngle)}
		tips[i] = mgl64.Vec2{outer * math.Cos(tipAngle), outer * math.Sin(tipAngle)}
	}

	shapes := []Polygon{pent}
	for i := 0; i < 5; i++ {
		prev := pent[(i+4)%5]
		next := pent[i]
		shapes = append(shapes, Polygon{tips[i], next, prev})
	}
	return shapes
}

// AssetServerModule installs the built-in menagerie and board shapes.
type AssetServerModule struct{}

func (m AssetServerModule) Install(app *App, cmd *Commands) {
	server := NewAssetServer()

	builtin := []SpeciesAsset{
		{
			Name: "rabbit",
			Shapes: []Polygon{
				rectShape(0, 4, 36, 26),
				triShape(-9, -17, 10, 16),
				triShape(9, -17, 10, 16),
			},
			Mass:        3,
			Friction:    0.4,
			Restitution: 0.35,
			Color:       Color{R: 236, G: 231, B: 222},
		},
		{
			Name: "cat",
			Shapes: []Polygon{
				rectShape(0, 0, 44, 30),
				rectShape(26, -8, 10, 22),
			},
			Mass:        5,
			Friction:    0.45,
			Restitution: 0.3,
			Color:       Color{R: 222, G: 158, B: 80},
		},
		{
			Name:        "penguin",
			Shapes:      []Polygon{triShape(0, 0, 40, 44)},
			Mass:        6,
			Friction:    0.5,
			Restitution: 0.25,
			Color:       Color{R: 48, G: 56, B: 74},
		},
		{
			Name:        "panda",
			Shapes:      []Polygon{rectShape(0, 0, 56, 44)},
			Mass:        10,
			Friction:    0.55,
			Restitution: 0.2,
			Color:       Color{R: 240, G: 240, B: 240},
		},
		{
			Name: "giraffe",
			Shapes: []Polygon{
				rectShape(0, 12, 50, 34),
				rectShape(18, -20, 14, 36),
				rectShape(18, -42, 24, 12),
			},
			Mass:        12,
			Friction:    0.5,
			Restitution: 0.15,
			Color:       Color{R: 235, G: 196, B: 92},
		},
		{
			Name: "elephant",
			Shapes: []Polygon{
				rectShape(0, 0, 80, 52),
				rectShape(44, 12, 12, 30),
			},
			Mass:        18,
			Friction:    0.65,
			Restitution: 0.1,
			Color:       Color{R: 152, G: 158, B: 170},
		},
	}

	for _, species := range builtin {
		if _, err := server.RegisterSpecies(species); err != nil {
			panic(err)
		}
	}

	server.registerBoard(BoardAsset{
		Variant:  BoardRectangle,
		Shapes:   []Polygon{rectShape(0, 0, 160, 14)},
		Friction: 0.5,
		Color:    Color{R: 148, G: 104, B: 60},
	})
	server.registerBoard(BoardAsset{
		Variant:  BoardTriangle,
		Shapes:   []Polygon{triShape(0, 0, 110, 60)},
		Friction: 0.5,
		Color:    Color{R: 126, G: 88, B: 52},
	})
	server.registerBoard(BoardAsset{
		Variant:  BoardStar,
		Shapes:   starShapes(26, 56),
		Friction: 0.5,
		Color:    Color{R: 222, G: 186, B: 64},
	})

	cmd.AddResources(server)
}
