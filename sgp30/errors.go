// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sgp30

import (
	"errors"
	"fmt"
)

var (
	// ErrChecksum matches every *ChecksumError.
	ErrChecksum = errors.New("sgp30: invalid crc")
	// ErrNotInitialized is returned by commands that need the baseline
	// algorithm running when Initialise has not succeeded yet.
	ErrNotInitialized = errors.New("sgp30: device not initialized")
	// ErrHumidityRange is returned for a negative or NaN absolute humidity.
	ErrHumidityRange = errors.New("sgp30: absolute humidity out of range")
	// ErrSelfTest is returned when the on-chip self test does not report
	// the pass pattern.
	ErrSelfTest = errors.New("sgp30: self test failed")
)

// TransportError reports a failed bus transaction. The driver never retries.
type TransportError struct {
	// Command is the name of the command being executed.
	Command string
	// Read is true if the response read failed, false for the command write.
	Read bool
	Err  error
}

func (e *TransportError) Error() string {
	dir := "write"
	if e.Read {
		dir = "read"
	}
	return fmt.Sprintf("sgp30: %s: %s failed: %v", e.Command, dir, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ChecksumError reports a response word whose CRC did not match. It usually
// means bus noise, or a response read before the command finished. The whole
// response is discarded; callers may retry the command.
type ChecksumError struct {
	Command string
	// Word is the index of the first corrupt word in the response.
	Word int
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("sgp30: %s: invalid crc in word %d", e.Command, e.Word)
}

// Is makes errors.Is(err, ErrChecksum) succeed.
func (e *ChecksumError) Is(target error) bool {
	return target == ErrChecksum
}
