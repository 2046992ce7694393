// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trend keeps a short history of air quality measurements and draws
// it as an image, for example to show on an e-paper or OLED display, or to
// save as a PNG.
package trend

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

// Series colors.
var (
	CO2Color  = color.NRGBA{R: 0x1f, G: 0x5f, B: 0xbf, A: 0xff}
	TVOCColor = color.NRGBA{R: 0xe0, G: 0x70, B: 0x10, A: 0xff}
)

const captionHeight = 16

// Chart is a fixed size ring of measurements. It is not safe for concurrent
// use.
type Chart struct {
	points []sgp30.Measurement
	next   int
	full   bool
	face   font.Face
}

// New returns a Chart holding the last size measurements.
func New(size int) (*Chart, error) {
	if size < 2 {
		return nil, errors.New("trend: size must be at least 2")
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("trend: %w", err)
	}
	return &Chart{
		points: make([]sgp30.Measurement, size),
		face:   truetype.NewFace(f, &truetype.Options{Size: 11}),
	}, nil
}

// Add appends m, dropping the oldest measurement when the chart is full.
func (c *Chart) Add(m sgp30.Measurement) {
	c.points[c.next] = m
	c.next++
	if c.next == len(c.points) {
		c.next = 0
		c.full = true
	}
}

// Points returns the stored measurements, oldest first.
func (c *Chart) Points() []sgp30.Measurement {
	if !c.full {
		return append([]sgp30.Measurement(nil), c.points[:c.next]...)
	}
	out := make([]sgp30.Measurement, 0, len(c.points))
	out = append(out, c.points[c.next:]...)
	return append(out, c.points[:c.next]...)
}

// Render draws the history on a w x h white image. Each series is scaled to
// its own maximum; the caption shows the latest values.
func (c *Chart) Render(w, h int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	pts := c.Points()
	if len(pts) == 0 {
		return dc.Image()
	}

	var maxCO2, maxTVOC float64 = 1, 1
	for _, p := range pts {
		maxCO2 = max(maxCO2, float64(p.CO2))
		maxTVOC = max(maxTVOC, float64(p.TVOC))
	}

	top := float64(captionHeight + 2)
	bottom := float64(h - 2)
	dx := float64(w-1) / float64(len(c.points)-1)

	dc.SetRGB(0.8, 0.8, 0.8)
	dc.SetLineWidth(1)
	dc.DrawLine(0, bottom, float64(w), bottom)
	dc.Stroke()

	series := func(col color.Color, value func(sgp30.Measurement) float64, scale float64) {
		dc.SetColor(col)
		dc.SetLineWidth(2)
		for i, p := range pts {
			x := float64(i) * dx
			y := bottom - (bottom-top)*value(p)/scale
			if i == 0 {
				dc.MoveTo(x, y)
			} else {
				dc.LineTo(x, y)
			}
		}
		dc.Stroke()
	}
	series(CO2Color, func(m sgp30.Measurement) float64 { return float64(m.CO2) }, maxCO2)
	series(TVOCColor, func(m sgp30.Measurement) float64 { return float64(m.TVOC) }, maxTVOC)

	last := pts[len(pts)-1]
	dc.SetFontFace(c.face)
	dc.SetColor(CO2Color)
	dc.DrawString("eCO2 "+last.CO2.String(), 2, captionHeight-4)
	dc.SetColor(TVOCColor)
	dc.DrawString("TVOC "+last.TVOC.String(), float64(w)/2, captionHeight-4)
	return dc.Image()
}

// SavePNG renders the chart and writes it to path.
func (c *Chart) SavePNG(path string, w, h int) error {
	if err := gg.SavePNG(path, c.Render(w, h)); err != nil {
		return fmt.Errorf("trend: %w", err)
	}
	return nil
}
