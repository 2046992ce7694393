// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// DefaultAddress is the fixed I²C address of the SGP30.
const DefaultAddress uint16 = 0x58

// selfTestPass is the pattern measure_test returns when all checks pass.
const selfTestPass uint16 = 0xd400

// CO2 represents an equivalent carbon dioxide value in ppm.
type CO2 uint16

func (c CO2) String() string {
	return strconv.Itoa(int(c)) + "ppm"
}

// TVOC represents a total volatile organic compounds value in ppb.
type TVOC uint16

func (t TVOC) String() string {
	return strconv.Itoa(int(t)) + "ppb"
}

// Measurement is a single air quality reading.
type Measurement struct {
	CO2  CO2
	TVOC TVOC
}

func (m Measurement) String() string {
	return fmt.Sprintf("SGP30 measurement: %s CO2, %s TVOC", m.CO2, m.TVOC)
}

// WarmingUp reports whether m holds the fixed values the sensor returns
// during the first seconds after Initialise.
func (m Measurement) WarmingUp() bool {
	return m.CO2 == 400 && m.TVOC == 0
}

// Baseline is the state of the on-chip compensation algorithm. The values are
// opaque; store them as-is and pass them back to Initialise.
type Baseline struct {
	CO2  uint16 `json:"co2"`
	TVOC uint16 `json:"tvoc"`
}

func (b Baseline) String() string {
	return fmt.Sprintf("CO2 0x%04x TVOC 0x%04x", b.CO2, b.TVOC)
}

// RawSignals are the H2 and ethanol sensor outputs the on-chip algorithm
// works from. Concentrations relative to an unknown reference follow from
//
//	ln(c / c_ref) = (s_ref - s_out) / 512
type RawSignals struct {
	H2      uint16
	Ethanol uint16
}

// Dev is a handle to an SGP30 sensor.
//
// Dev is not safe for concurrent use.
type Dev struct {
	c conn.Conn
	// sleep blocks for the command delays. Replaced in tests.
	sleep func(time.Duration)

	initialized bool
	last        Measurement
	hasLast     bool
}

// NewI2C returns a Dev that communicates over I²C. An addr of 0 selects
// DefaultAddress.
//
// The sensor is not touched; call Initialise before measuring.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	if addr == 0 {
		addr = DefaultAddress
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("sgp30: invalid address 0x%x", addr)
	}
	return New(&i2c.Dev{Bus: b, Addr: addr}), nil
}

// New returns a Dev using c as transport.
func New(c conn.Conn) *Dev {
	return &Dev{c: c, sleep: time.Sleep}
}

func (d *Dev) String() string {
	return fmt.Sprintf("sgp30: %s", d.c)
}

// Halt implements conn.Resource. The sensor has no running operation to stop.
func (d *Dev) Halt() error {
	return nil
}

// Initialized reports whether Initialise completed successfully.
func (d *Dev) Initialized() bool {
	return d.initialized
}

// Initialise starts the baseline compensation algorithm. If baseline is
// non-nil it is written to the sensor right after, which restores a
// previously saved algorithm state.
//
// The session state only changes once every write succeeded; on error it is
// left as it was and Initialise has to be called again.
func (d *Dev) Initialise(baseline *Baseline) error {
	if _, err := d.execute(cmdInitAirQuality); err != nil {
		return err
	}
	if baseline != nil {
		if err := d.setBaseline(*baseline); err != nil {
			return err
		}
	}
	d.initialized = true
	d.hasLast = false
	return nil
}

// Measure performs an air quality measurement.
//
// Call it every second once the device is initialised, see the package
// documentation.
func (d *Dev) Measure() (Measurement, error) {
	if !d.initialized {
		return Measurement{}, ErrNotInitialized
	}
	v, err := d.execute(cmdMeasureAirQuality)
	if err != nil {
		return Measurement{}, err
	}
	d.last = Measurement{CO2: CO2(v[0]), TVOC: TVOC(v[1])}
	d.hasLast = true
	return d.last, nil
}

// Last returns the most recent successful Measure result since Initialise.
func (d *Dev) Last() (Measurement, bool) {
	return d.last, d.hasLast
}

// Baseline reads the current baseline of the compensation algorithm.
func (d *Dev) Baseline() (Baseline, error) {
	if !d.initialized {
		return Baseline{}, ErrNotInitialized
	}
	v, err := d.execute(cmdGetBaseline)
	if err != nil {
		return Baseline{}, err
	}
	return Baseline{CO2: v[0], TVOC: v[1]}, nil
}

// SetBaseline writes a previously read baseline to the running algorithm.
func (d *Dev) SetBaseline(b Baseline) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	return d.setBaseline(b)
}

// setBaseline sends the words in the order the sensor expects them, which
// is the reverse of the order get_baseline returns them in.
func (d *Dev) setBaseline(b Baseline) error {
	_, err := d.execute(cmdSetBaseline, b.TVOC, b.CO2)
	return err
}

// SetHumidity sets the absolute humidity in g/m³ used for on-chip humidity
// compensation. Zero restores the default, disabling compensation. Values
// beyond the 8.8 fixed point range are clamped.
//
// It may be called before Initialise.
func (d *Dev) SetHumidity(gm3 float64) error {
	w, err := humidityToWord(gm3)
	if err != nil {
		return err
	}
	_, err = d.execute(cmdSetHumidity, w)
	return err
}

// humidityToWord converts g/m³ to the sensor's 8.8 fixed point format.
func humidityToWord(gm3 float64) (uint16, error) {
	if math.IsNaN(gm3) || gm3 < 0 {
		return 0, fmt.Errorf("%w: %g g/m³", ErrHumidityRange, gm3)
	}
	v := math.Round(gm3 * 256)
	if v > math.MaxUint16 {
		v = math.MaxUint16
	}
	return uint16(v), nil
}

// FeatureSet returns the raw feature set version word. The low byte holds
// the product version; 0x0020 and 0x0022 are the documented values.
//
// It may be called before Initialise.
func (d *Dev) FeatureSet() (uint16, error) {
	v, err := d.execute(cmdGetFeatureSet)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// SerialNumber returns the 48 bit serial number of the chip. It can be used
// to check the sensor is present before Initialise.
func (d *Dev) SerialNumber() (uint64, error) {
	v, err := d.execute(cmdGetSerialID)
	if err != nil {
		return 0, err
	}
	return uint64(v[0])<<32 | uint64(v[1])<<16 | uint64(v[2]), nil
}

// SelfTest runs the on-chip self test. Run it before Initialise: the test
// takes over the sensor for about 200ms.
func (d *Dev) SelfTest() error {
	v, err := d.execute(cmdMeasureTest)
	if err != nil {
		return err
	}
	if v[0] != selfTestPass {
		return fmt.Errorf("%w: result 0x%04x", ErrSelfTest, v[0])
	}
	return nil
}

// RawSignals reads the raw H2 and ethanol signals.
func (d *Dev) RawSignals() (RawSignals, error) {
	if !d.initialized {
		return RawSignals{}, ErrNotInitialized
	}
	v, err := d.execute(cmdMeasureRaw)
	if err != nil {
		return RawSignals{}, err
	}
	return RawSignals{H2: v[0], Ethanol: v[1]}, nil
}

// InceptiveTVOCBaseline returns the TVOC baseline the sensor ships with.
// Requires feature set 0x0022 or later.
func (d *Dev) InceptiveTVOCBaseline() (uint16, error) {
	if !d.initialized {
		return 0, ErrNotInitialized
	}
	v, err := d.execute(cmdGetTVOCInceptiveBaseline)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// SetTVOCBaseline sets only the TVOC part of the baseline, typically with the
// value from InceptiveTVOCBaseline on a first start without stored baseline.
// Requires feature set 0x0022 or later.
func (d *Dev) SetTVOCBaseline(tvoc uint16) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	_, err := d.execute(cmdSetTVOCBaseline, tvoc)
	return err
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
