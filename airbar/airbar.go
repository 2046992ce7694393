// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package airbar draws air quality readings as a row of ANSI colored blocks
// on the terminal.
//
// The left half of the row is the equivalent CO2 level, the right half the
// TVOC level; each lights up proportionally to its full scale value and
// shifts from green to red as it fills. Dev is also a 1 pixel high
// display.Drawer.
package airbar

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/rogiervandergeer/sgp30-driver/sgp30"
)

// Opts represents the options available for this display.
type Opts struct {
	// X is the number of blocks. Defaults to 40.
	X       int
	Palette *ansi256.Palette
	// Full scale values. Default to 2000ppm and 2200ppb. MaxCO2 must be
	// above 400ppm.
	MaxCO2  sgp30.CO2
	MaxTVOC sgp30.TVOC
	// Label appends the measurement as text after the bar.
	Label bool

	_ struct{}
}

var off = color.NRGBA{R: 48, G: 48, B: 48, A: 255}

// Dev is an air quality bar that outputs to the console.
type Dev struct {
	w       io.Writer
	l       int
	palette ansi256.Palette
	maxCO2  sgp30.CO2
	maxTVOC sgp30.TVOC
	label   bool

	pixels []byte
	buf    bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes its escape sequences to w.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	if o.X <= 0 {
		o.X = 40
	}
	if o.MaxCO2 <= 400 {
		o.MaxCO2 = 2000
	}
	if o.MaxTVOC == 0 {
		o.MaxTVOC = 2200
	}
	return &Dev{
		w:       w,
		l:       o.X,
		palette: *p,
		maxCO2:  o.MaxCO2,
		maxTVOC: o.MaxTVOC,
		label:   o.Label,
		pixels:  make([]byte, 3*o.X),
	}
}

func (d *Dev) String() string {
	return "AirBar"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and ends the line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show renders m.
func (d *Dev) Show(m sgp30.Measurement) error {
	half := d.l / 2
	// CO2 never reads below 400ppm; scale from there.
	co2 := float64(int(m.CO2)-400) / float64(int(d.maxCO2)-400)
	d.fill(0, half, co2)
	d.fill(half, d.l, float64(m.TVOC)/float64(d.maxTVOC))
	label := ""
	if d.label {
		label = fmt.Sprintf("%s %s", m.CO2, m.TVOC)
	}
	_, err := d.refresh(label)
	return err
}

// fill lights the first frac of pixels [from, to) with the color of frac.
func (d *Dev) fill(from, to int, frac float64) {
	frac = max(0, min(1, frac))
	lit := from + int(frac*float64(to-from)+0.5)
	c := levelColor(frac)
	for i := from; i < to; i++ {
		p := off
		if i < lit {
			p = c
		}
		d.pixels[3*i] = p.R
		d.pixels[3*i+1] = p.G
		d.pixels[3*i+2] = p.B
	}
}

// levelColor goes from green at 0 through yellow to red at 1.
func levelColor(frac float64) color.NRGBA {
	if frac < 0.5 {
		return color.NRGBA{R: uint8(510 * frac), G: 255, A: 255}
	}
	return color.NRGBA{R: 255, G: uint8(510 * (1 - frac)), A: 255}
}

// Write accepts a stream of raw RGB pixels and writes it to the console.
func (d *Dev) Write(pixels []byte) (int, error) {
	if len(pixels)%3 != 0 {
		return 0, errors.New("airbar: invalid RGB stream length")
	}
	copy(d.pixels, pixels)
	return d.refresh("")
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: d.l, Y: 1}}
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	if dY := r.Dy(); dY < srcR.Dy() {
		srcR.Max.Y = srcR.Min.Y + dY
	}
	deltaX3 := 3 * (r.Min.X - srcR.Min.X)
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		r16, g16, b16, _ := src.At(sX, srcR.Min.Y).RGBA()
		dX3 := 3*sX + deltaX3
		d.pixels[dX3] = byte(r16 >> 8)
		d.pixels[dX3+1] = byte(g16 >> 8)
		d.pixels[dX3+2] = byte(b16 >> 8)
	}
	_, err := d.refresh("")
	return err
}

func (d *Dev) refresh(label string) (int, error) {
	// Reuses buf to keep allocations per refresh down.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i := 0; i < len(d.pixels)/3; i++ {
		c := color.NRGBA{d.pixels[3*i], d.pixels[3*i+1], d.pixels[3*i+2], 255}
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
	}
	_, _ = d.buf.WriteString("\033[0m ")
	_, _ = d.buf.WriteString(label)
	_, err := d.buf.WriteTo(d.w)
	return len(d.pixels), err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
