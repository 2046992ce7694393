// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"encoding/binary"
	"time"

	"github.com/rogiervandergeer/sgp30-driver/common"
)

// command describes one SGP30 command.
type command struct {
	name string
	// The 16-bit command word.
	opcode uint16
	// Maximum time the sensor needs before the response is valid, or before
	// it accepts the next command.
	delay time.Duration
	// Number of response words. 0, 1, 2 or 3.
	words int
}

var cmdInitAirQuality = command{
	name:   "init_air_quality",
	opcode: 0x2003,
	delay:  10 * time.Millisecond,
}

var cmdMeasureAirQuality = command{
	name:   "measure_air_quality",
	opcode: 0x2008,
	delay:  12 * time.Millisecond,
	words:  2,
}

var cmdGetBaseline = command{
	name:   "get_baseline",
	opcode: 0x2015,
	delay:  10 * time.Millisecond,
	words:  2,
}

var cmdSetBaseline = command{
	name:   "set_baseline",
	opcode: 0x201e,
	delay:  10 * time.Millisecond,
}

var cmdSetHumidity = command{
	name:   "set_humidity",
	opcode: 0x2061,
	delay:  10 * time.Millisecond,
}

var cmdGetFeatureSet = command{
	name:   "get_feature_set",
	opcode: 0x202f,
	delay:  10 * time.Millisecond,
	words:  1,
}

var cmdMeasureRaw = command{
	name:   "measure_raw",
	opcode: 0x2050,
	delay:  25 * time.Millisecond,
	words:  2,
}

var cmdMeasureTest = command{
	name:   "measure_test",
	opcode: 0x2032,
	delay:  220 * time.Millisecond,
	words:  1,
}

var cmdGetSerialID = command{
	name:   "get_serial_id",
	opcode: 0x3682,
	delay:  time.Millisecond,
	words:  3,
}

var cmdGetTVOCInceptiveBaseline = command{
	name:   "get_tvoc_inceptive_baseline",
	opcode: 0x20b3,
	delay:  10 * time.Millisecond,
	words:  1,
}

var cmdSetTVOCBaseline = command{
	name:   "set_tvoc_baseline",
	opcode: 0x2077,
	delay:  10 * time.Millisecond,
}

// writeCommand sends the opcode followed by the CRC framed arguments in a
// single bus write.
func (d *Dev) writeCommand(cmd command, args ...uint16) error {
	w := make([]byte, 2, 2+len(args)*common.WordSize)
	binary.BigEndian.PutUint16(w, cmd.opcode)
	w = common.AppendWords(w, args...)
	if err := d.c.Tx(w, nil); err != nil {
		return &TransportError{Command: cmd.name, Err: err}
	}
	return nil
}

// readWords reads the command's response. Words with a bad checksum are
// returned flagged invalid; deciding what to do with them is up to the
// caller.
func (d *Dev) readWords(cmd command) ([]common.Word, error) {
	r := make([]byte, cmd.words*common.WordSize)
	if err := d.c.Tx(nil, r); err != nil {
		return nil, &TransportError{Command: cmd.name, Read: true, Err: err}
	}
	return common.DecodeWords(r), nil
}

// execute runs the full write, wait, read sequence of a command and returns
// the response values. Any invalid word fails the whole command.
func (d *Dev) execute(cmd command, args ...uint16) ([]uint16, error) {
	if err := d.writeCommand(cmd, args...); err != nil {
		return nil, err
	}
	d.sleep(cmd.delay)
	if cmd.words == 0 {
		return nil, nil
	}
	words, err := d.readWords(cmd)
	if err != nil {
		return nil, err
	}
	values := make([]uint16, len(words))
	for ix, w := range words {
		if !w.Valid {
			return nil, &ChecksumError{Command: cmd.name, Word: ix}
		}
		values[ix] = w.Value
	}
	return values, nil
}
