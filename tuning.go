package totter

import (
	"encoding/json"
	"fmt"
	"os"
)

type DifficultyLevel int

const (
	DifficultyEasy DifficultyLevel = iota
	DifficultyNormal
	DifficultyHard
)

func (d DifficultyLevel) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

type BoardVariant int

const (
	BoardRectangle BoardVariant = iota
	BoardTriangle
	BoardStar
)

// DifficultyParams are the knobs one difficulty level turns: floor size and
// grip, how often a support board is offered and how big it is, and how
// bouncy the animals get.
type DifficultyParams struct {
	FloorWidthFactor float64        `json:"floor_width_factor"`
	FloorFriction    float64        `json:"floor_friction"`
	BoardScale       float64        `json:"board_scale"`
	BoardInterval    int            `json:"board_interval"`
	Boards           []BoardVariant `json:"boards"`
	RestitutionScale float64        `json:"restitution_scale"`
}

// Tuning is every gameplay-feel constant in one place. The landing
// thresholds and timeouts are empirical values carried over from play
// testing; they are configuration, not derived physics.
type Tuning struct {
	Gravity              float64 `json:"gravity"`
	SolverIterations     int     `json:"solver_iterations"`
	PenetrationSlop      float64 `json:"penetration_slop"`
	RestitutionDecayTime float64 `json:"restitution_decay_time"`
	RestingVelFactor     float64 `json:"resting_vel_factor"`
	BroadphaseCellSize   float64 `json:"broadphase_cell_size"`

	// Landing detection: a falling animal has landed when it touched
	// something this frame and both squared speeds are under these
	// thresholds, or when it has stayed in continuous contact for the
	// timeout regardless of residual jitter.
	LandSpeedSq        float64 `json:"land_speed_sq"`
	LandAngSpeedSq     float64 `json:"land_ang_speed_sq"`
	LandContactTimeout float64 `json:"land_contact_timeout"`

	AimTime        float64 `json:"aim_time"`
	AimMoveSpeed   float64 `json:"aim_move_speed"`
	SpawnHeight    float64 `json:"spawn_height"`
	BoardPlaceTime float64 `json:"board_place_time"`
	BoardSpinRate  float64 `json:"board_spin_rate"`
	GameOverMargin float64 `json:"game_over_margin"`
	FloorMargin    float64 `json:"floor_margin"`

	Difficulties [3]DifficultyParams `json:"difficulties"`
}

func DefaultTuning() *Tuning {
	return &Tuning{
		Gravity:              500,
		SolverIterations:     4,
		PenetrationSlop:      0.2,
		RestitutionDecayTime: 2.0,
		RestingVelFactor:     2.0,
		BroadphaseCellSize:   96,

		LandSpeedSq:        150,
		LandAngSpeedSq:     50,
		LandContactTimeout: 3.0,

		AimTime:        5.0,
		AimMoveSpeed:   250,
		SpawnHeight:    60,
		BoardPlaceTime: 10.0,
		BoardSpinRate:  180,
		GameOverMargin: 100,
		FloorMargin:    60,

		Difficulties: [3]DifficultyParams{
			DifficultyEasy: {
				FloorWidthFactor: 0.75,
				FloorFriction:    0.6,
				BoardScale:       1.25,
				BoardInterval:    5,
				Boards:           []BoardVariant{BoardRectangle},
				RestitutionScale: 1.0,
			},
			DifficultyNormal: {
				FloorWidthFactor: 0.5,
				FloorFriction:    0.5,
				BoardScale:       1.0,
				BoardInterval:    6,
				Boards:           []BoardVariant{BoardRectangle, BoardTriangle},
				RestitutionScale: 1.1,
			},
			DifficultyHard: {
				FloorWidthFactor: 0.3,
				FloorFriction:    0.4,
				BoardScale:       0.8,
				BoardInterval:    7,
				Boards:           []BoardVariant{BoardRectangle, BoardTriangle, BoardStar},
				RestitutionScale: 1.2,
			},
		},
	}
}

// LoadTuning reads a tuning file. A missing file yields the defaults; a
// present but unparsable file is an error rather than a silent fallback.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTuning(), nil
		}
		return nil, fmt.Errorf("reading tuning file: %w", err)
	}

	tuning := DefaultTuning()
	if err := json.Unmarshal(data, tuning); err != nil {
		return nil, fmt.Errorf("parsing tuning file %s: %w", path, err)
	}
	return tuning, nil
}

// SaveTuning writes the tuning as indented JSON, handy for generating a
// starting point to edit.
func SaveTuning(tuning *Tuning, path string) error {
	data, err := json.MarshalIndent(tuning, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
