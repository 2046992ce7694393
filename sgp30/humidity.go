// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// AbsoluteHumidity converts a temperature and relative humidity into absolute
// humidity in g/m³, the unit SetHumidity takes. It uses the Magnus
// approximation given in the SGP30 application note.
func AbsoluteHumidity(t physic.Temperature, rh physic.RelativeHumidity) float64 {
	c := t.Celsius()
	pct := float64(rh) / float64(physic.PercentRH)
	return 13.2471 * pct * math.Exp((17.67*c)/(243.5+c)) / (273.15 + c)
}

// SetHumidityEnv sets humidity compensation from an environmental reading,
// as returned by physic.SenseEnv devices.
func (d *Dev) SetHumidityEnv(e *physic.Env) error {
	return d.SetHumidity(AbsoluteHumidity(e.Temperature, e.Humidity))
}
