package perception

import (
	"image"
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/samplerover/rover/rimage"
)

const dilationKernelSize = 2

// RoverState is the shared record one pipeline invocation reads its
// inputs from and writes its outputs into. It is owned by the caller and
// must not be mutated concurrently; the pipeline itself keeps no state
// outside of it.
type RoverState struct {
	// Inputs, refreshed by the caller before each Step.
	Img image.Image // current camera frame
	Pos r2.Point    // world position
	Yaw float64     // heading in degrees, counter-clockwise

	// Outputs, written by Step.
	WorldMap    *WorldMap
	VisionImage *VisionOverlay

	// Navigable terrain cues in the vehicle frame.
	NavDists   []float64
	NavAngles  []float64
	NavDirMean float64 // mean navigable bearing, NaN when nothing is drivable

	// Rock cues in the vehicle frame. The slices are nil whenever
	// RockFound is false.
	RockFound     bool
	RockNavDists  []float64
	RockNavAngles []float64
}

// NewRoverState returns a state record with a fresh world map and overlay
// sized for the given calibration.
func NewRoverState(cfg Calibration) *RoverState {
	return &RoverState{
		WorldMap:    NewWorldMap(cfg.WorldSize),
		VisionImage: NewVisionOverlay(cfg.FrameWidth, cfg.FrameHeight),
	}
}

// Perceptor runs the per-frame perception pipeline. It is safe to reuse
// across frames; all mutable state lives in the RoverState it is handed.
type Perceptor struct {
	cfg    Calibration
	warpM  mat.Matrix
	logger golog.Logger
}

// NewPerceptor validates the calibration and precomputes the rectifying
// homography.
func NewPerceptor(cfg Calibration, logger golog.Logger) (*Perceptor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid calibration")
	}
	m, err := rimage.GetPerspectiveTransform(cfg.SourcePoints, cfg.DestinationPoints())
	if err != nil {
		return nil, errors.Wrap(err, "cannot rectify with this calibration")
	}
	return &Perceptor{cfg: cfg, warpM: m, logger: logger}, nil
}

// Step advances the perception pipeline by one frame: rectify, classify,
// accumulate into the world map, and refresh the navigation cues on
// state. It must complete before the caller supplies the next frame's
// data; at most one invocation may run per state record at a time.
func (p *Perceptor) Step(state *RoverState) {
	warped := rimage.WarpImage(state.Img, p.warpM, image.Point{p.cfg.FrameWidth, p.cfg.FrameHeight})

	nav := ColorThresh(warped, p.cfg.NavThresh)
	obs := ObstacleThresh(warped, p.cfg.NavThresh)
	rocks := RocksThresh(warped, p.cfg.RockThresh)
	rocks, err := rimage.DilateSquare(rocks, dilationKernelSize, p.cfg.DilationIterations)
	if err != nil {
		// unreachable with a validated calibration
		p.logger.Errorw("rock mask dilation failed", "error", err)
		return
	}

	state.VisionImage.SetChannel(NavigableChannel, nav)
	state.VisionImage.SetChannel(ObstacleChannel, obs)

	navX, navY := RoverCoords(nav)
	obsX, obsY := RoverCoords(obs)

	scale := p.cfg.Scale()
	navWX, navWY := PixToWorld(navX, navY, state.Pos, state.Yaw, p.cfg.WorldSize, scale)
	obsWX, obsWY := PixToWorld(obsX, obsY, state.Pos, state.Yaw, p.cfg.WorldSize, scale)
	state.WorldMap.Accumulate(NavigableLayer, navWX, navWY, p.cfg.NavWeight)
	state.WorldMap.Accumulate(ObstacleLayer, obsWX, obsWY, p.cfg.ObstacleWeight)

	state.NavDists, state.NavAngles = ToPolar(navX, navY)
	state.NavDirMean = meanDirection(state.NavAngles)

	if countNonZero(rocks) == 0 {
		state.RockFound = false
		state.RockNavDists = nil
		state.RockNavAngles = nil
		state.VisionImage.ClearChannel(RockChannel)
		return
	}

	rockX, rockY := RoverCoords(rocks)
	rockWX, rockWY := PixToWorld(rockX, rockY, state.Pos, state.Yaw, p.cfg.WorldSize, scale)

	// One nearest pixel stands in for the whole detected blob.
	nearest := 0
	nearestDist := math.Inf(1)
	for i := range rockWX {
		d := math.Hypot(float64(rockWX[i])-state.Pos.X, float64(rockWY[i])-state.Pos.Y)
		if d < nearestDist {
			nearest, nearestDist = i, d
		}
	}
	state.WorldMap.MarkRock(rockWX[nearest], rockWY[nearest])
	state.VisionImage.SetChannel(RockChannel, rocks)

	// Steering cues come from the un-rotated vehicle frame, not the world
	// frame used for the map mark.
	state.RockFound = true
	state.RockNavDists, state.RockNavAngles = ToPolar(rockX, rockY)
}

func countNonZero(m *mat.Dense) int {
	rows, cols := m.Dims()
	n := 0
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if m.At(y, x) != 0 {
				n++
			}
		}
	}
	return n
}

func meanDirection(angles []float64) float64 {
	mean, err := stats.Mean(angles)
	if err != nil {
		return math.NaN()
	}
	return mean
}
