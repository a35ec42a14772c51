package perception

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/geo/r2"

	"github.com/samplerover/rover/utils"
)

// Render draws the evidence grid with the vehicle pose marked, for
// telemetry display. Obstacle evidence shows red, rock marks green,
// navigable evidence blue; world +y points up the image.
func (wm *WorldMap) Render(pos r2.Point, yaw float64) image.Image {
	size := wm.size
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, size-1-y, color.RGBA{
				evidenceIntensity(wm.At(ObstacleLayer, x, y)),
				evidenceIntensity(wm.At(RockLayer, x, y)),
				evidenceIntensity(wm.At(NavigableLayer, x, y)),
				255,
			})
		}
	}

	dc := gg.NewContextForRGBA(img)
	px := pos.X
	py := float64(size-1) - pos.Y
	dc.SetColor(color.RGBA{255, 255, 0, 255})
	dc.DrawPoint(px, py, 2)
	dc.Fill()

	yawRad := utils.DegToRad(yaw)
	dc.DrawLine(px, py, px+5*math.Cos(yawRad), py-5*math.Sin(yawRad))
	dc.SetLineWidth(1)
	dc.Stroke()

	return dc.Image()
}

func evidenceIntensity(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
