// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tinyi2c exposes a tinygo.org/x/drivers I2C bus as a periph
// i2c.Bus, so periph drivers such as sgp30 run on buses provided by tinygo
// style HALs and host-side fakes.
//
// The reverse needs no adapter: a periph i2c.Bus already implements
// drivers.I2C.
package tinyi2c

import (
	"errors"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"tinygo.org/x/drivers"
)

// ErrSpeed is returned by SetSpeed; drivers.I2C has no notion of bus speed.
var ErrSpeed = errors.New("tinyi2c: SetSpeed is not supported")

// Bus wraps a drivers.I2C. Transactions are serialized.
type Bus struct {
	mu   sync.Mutex
	b    drivers.I2C
	name string
}

// New returns a Bus using b. name is reported by String.
func New(b drivers.I2C, name string) *Bus {
	if name == "" {
		name = "tinygo-i2c"
	}
	return &Bus{b: b, name: name}
}

func (b *Bus) String() string {
	return b.name
}

// Tx implements i2c.Bus.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Tx(addr, w, r)
}

// SetSpeed implements i2c.Bus. It always fails.
func (b *Bus) SetSpeed(f physic.Frequency) error {
	return ErrSpeed
}

var _ i2c.Bus = &Bus{}
var _ drivers.I2C = i2c.Bus(nil)
