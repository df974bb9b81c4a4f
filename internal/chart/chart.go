// Package chart renders ball frequency tables as PNG bar charts.
package chart

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"lottery-predictor/internal/lottery"
	"lottery-predictor/internal/predict"
)

const (
	barSlot     = 22
	barWidth    = 16
	margin      = 16
	titleHeight = 28
	labelHeight = 22
	plotHeight  = 180
)

var (
	background = color.RGBA{255, 255, 255, 255}
	barColor   = color.RGBA{200, 40, 40, 255}
	axisColor  = color.RGBA{60, 60, 60, 255}
	textColor  = color.RGBA{20, 20, 20, 255}
)

// Image draws one bar per value of rng, left to right. Values missing from
// freqs get an empty slot; values outside rng are ignored.
func Image(title string, freqs []predict.NumberFrequency, rng lottery.Range) *image.RGBA {
	slots := rng.Max - rng.Min + 1
	if slots < 1 {
		slots = 1
	}
	width := margin*2 + slots*barSlot
	height := titleHeight + plotHeight + labelHeight
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{background}, image.Point{}, draw.Src)

	counts := make(map[int]int, len(freqs))
	maxCount := 0
	for _, f := range freqs {
		if !rng.Contains(f.Number) {
			continue
		}
		counts[f.Number] = f.Frequency
		maxCount = max(maxCount, f.Frequency)
	}

	drawText(img, margin, 18, title)

	baseline := titleHeight + plotHeight
	axis := image.Rect(margin, baseline, width-margin, baseline+1)
	draw.Draw(img, axis, &image.Uniform{axisColor}, image.Point{}, draw.Src)

	for i := 0; i < slots; i++ {
		n := rng.Min + i
		x := margin + i*barSlot + (barSlot-barWidth)/2
		if c := counts[n]; c > 0 && maxCount > 0 {
			h := c * (plotHeight - 4) / maxCount
			if h < 1 {
				h = 1
			}
			bar := image.Rect(x, baseline-h, x+barWidth, baseline)
			draw.Draw(img, bar, &image.Uniform{barColor}, image.Point{}, draw.Src)
		}
		drawText(img, x+1, baseline+15, fmt.Sprintf("%02d", n))
	}
	return img
}

// Render encodes the chart of freqs as PNG.
func Render(w io.Writer, title string, freqs []predict.NumberFrequency, rng lottery.Range) error {
	return png.Encode(w, Image(title, freqs, rng))
}

func drawText(img draw.Image, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(textColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
