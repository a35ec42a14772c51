package perception

import (
	"image"

	"github.com/pkg/errors"
)

// Calibration bundles the fixed, externally supplied constants of the
// pipeline: the perspective source quadrilateral, ground scale, color
// thresholds, and world grid geometry. The values are not estimated at
// runtime; they come from a one-time calibration of the camera against a
// known-flat grid region.
type Calibration struct {
	// FrameWidth and FrameHeight are the camera frame dimensions.
	FrameWidth  int `json:"frame_width"`
	FrameHeight int `json:"frame_height"`

	// SourcePoints delineate the calibration square in the raw camera
	// frame, ordered bottom-left, bottom-right, top-right, top-left.
	SourcePoints []image.Point `json:"source_points"`

	// DstSize is half the side, in rectified pixels, of the square the
	// source points map onto. One world cell spans 2*DstSize pixels.
	DstSize int `json:"dst_size"`

	// BottomOffset is the blind spot between the bottom of the rectified
	// image and the vehicle's ground reference point.
	BottomOffset int `json:"bottom_offset"`

	NavThresh  Thresholds `json:"nav_thresh"`
	RockThresh Thresholds `json:"rock_thresh"`

	// DilationIterations is how many passes of 2x2 dilation the rock mask
	// receives before coordinate extraction.
	DilationIterations int `json:"dilation_iterations"`

	// NavWeight and ObstacleWeight are the per-hit evidence increments.
	// Navigable evidence deliberately dominates so contested cells lean
	// drivable.
	NavWeight      float64 `json:"nav_weight"`
	ObstacleWeight float64 `json:"obstacle_weight"`

	// WorldSize is the world grid dimension in cells.
	WorldSize int `json:"world_size"`
}

// DefaultCalibration returns the constants for the simulator camera: a
// 320x160 frame with a one square meter calibration grid in front of the
// vehicle.
func DefaultCalibration() Calibration {
	return Calibration{
		FrameWidth:  320,
		FrameHeight: 160,
		SourcePoints: []image.Point{
			{14, 140}, {301, 140}, {200, 96}, {118, 96},
		},
		DstSize:            5,
		BottomOffset:       6,
		NavThresh:          DefaultNavThresh,
		RockThresh:         DefaultRockThresh,
		DilationIterations: 5,
		NavWeight:          10,
		ObstacleWeight:     1,
		WorldSize:          200,
	}
}

// Validate checks the calibration for values the pipeline cannot run with.
func (c Calibration) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return errors.Errorf("frame dimensions must be positive, got %dx%d", c.FrameWidth, c.FrameHeight)
	}
	if len(c.SourcePoints) != 4 {
		return errors.Errorf("need exactly 4 source points, got %d", len(c.SourcePoints))
	}
	if c.DstSize <= 0 {
		return errors.New("dst_size must be positive")
	}
	if c.BottomOffset < 0 {
		return errors.New("bottom_offset cannot be negative")
	}
	if c.DilationIterations < 0 {
		return errors.New("dilation_iterations cannot be negative")
	}
	if c.WorldSize <= 0 {
		return errors.New("world_size must be positive")
	}
	return nil
}

// Scale returns ground units per world cell, fixed at twice the
// rectifier's half-square size.
func (c Calibration) Scale() float64 {
	return 2 * float64(c.DstSize)
}

// DestinationPoints returns where the source quadrilateral lands in the
// rectified image: a 2*DstSize square centered horizontally, BottomOffset
// pixels above the bottom edge, in the same order as SourcePoints.
func (c Calibration) DestinationPoints() []image.Point {
	w, h := c.FrameWidth, c.FrameHeight
	return []image.Point{
		{w/2 - c.DstSize, h - c.BottomOffset},
		{w/2 + c.DstSize, h - c.BottomOffset},
		{w/2 + c.DstSize, h - 2*c.DstSize - c.BottomOffset},
		{w/2 - c.DstSize, h - 2*c.DstSize - c.BottomOffset},
	}
}
