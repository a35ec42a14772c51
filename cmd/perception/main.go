// Command perception runs the perception pipeline over a single frame and
// writes the classification overlay and rendered world map to disk, for
// offline inspection of calibration and thresholds.
package main

import (
	"flag"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r2"
	xdraw "golang.org/x/image/draw"

	"github.com/samplerover/rover/perception"
)

var logger = golog.NewDevelopmentLogger("perception")

func main() {
	if err := realMain(os.Args[1:]); err != nil {
		logger.Fatal(err)
	}
}

func realMain(args []string) error {
	flags := flag.NewFlagSet("perception", flag.ExitOnError)
	framePath := flags.String("frame", "", "camera frame image to process")
	posX := flags.Float64("x", 100, "vehicle world x position")
	posY := flags.Float64("y", 100, "vehicle world y position")
	yaw := flags.Float64("yaw", 0, "vehicle heading in degrees, counter-clockwise")
	overlayOut := flags.String("overlay-out", "overlay.png", "where to write the classification overlay")
	mapOut := flags.String("map-out", "worldmap.png", "where to write the rendered world map")
	mapScale := flags.Int("map-scale", 3, "upscale factor for the world map render")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := perception.DefaultCalibration()
	frame, err := imaging.Open(*framePath)
	if err != nil {
		return err
	}
	if b := frame.Bounds(); b.Dx() != cfg.FrameWidth || b.Dy() != cfg.FrameHeight {
		logger.Infow("resizing frame to calibration dimensions",
			"from", b.Size(), "to", image.Point{cfg.FrameWidth, cfg.FrameHeight})
		frame = imaging.Resize(frame, cfg.FrameWidth, cfg.FrameHeight, imaging.Lanczos)
	}

	p, err := perception.NewPerceptor(cfg, logger)
	if err != nil {
		return err
	}

	state := perception.NewRoverState(cfg)
	state.Img = frame
	state.Pos = r2.Point{X: *posX, Y: *posY}
	state.Yaw = *yaw
	p.Step(state)

	logger.Infow("processed frame",
		"navigable_pixels", len(state.NavDists),
		"mean_nav_direction", state.NavDirMean,
		"rock_found", state.RockFound)

	if err := imaging.Save(state.VisionImage.Image(), *overlayOut); err != nil {
		return err
	}

	rendered := state.WorldMap.Render(state.Pos, state.Yaw)
	side := state.WorldMap.Size() * *mapScale
	big := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.NearestNeighbor.Scale(big, big.Bounds(), rendered, rendered.Bounds(), xdraw.Src, nil)
	return imaging.Save(big, *mapOut)
}
