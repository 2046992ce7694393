// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sgp30 provides a driver for the Sensirion SGP30 multi-gas sensor.
//
// The SGP30 reports an equivalent CO2 concentration (ppm) and a total
// volatile organic compounds concentration (ppb), both computed by an on-chip
// baseline compensation algorithm.
//
// # Lifecycle
//
// After power-up the algorithm must be started with Dev.Initialise. The
// command itself completes in milliseconds, but the sensor reports the fixed
// values 400 ppm / 0 ppb for roughly the first 15 seconds and needs up to 20
// seconds of measurements before its output settles. Passing a baseline saved
// from an earlier run to Initialise restores the algorithm state and avoids
// most of that warm-up, though readings may still be imprecise for a moment.
//
// Once initialised, Dev.Measure has to be called at 1 second intervals. The
// driver does not enforce this, but the dynamic baseline compensation depends
// on it: a device polled at another rate keeps returning values, just with an
// unreliable baseline.
//
// Save Dev.Baseline periodically (the datasheet suggests hourly) and replay it
// with Initialise after a restart. Without a stored baseline the sensor needs
// 12 hours of operation before the baseline is worth saving.
//
// # Humidity compensation
//
// Dev.SetHumidity accepts absolute humidity in g/m³. AbsoluteHumidity
// converts a temperature and relative humidity reading, for example from an
// SHT4x, into that unit.
//
// # Concurrency
//
// Every command is a write, a fixed blocking delay, then an optional read.
// The sensor only supports one transaction at a time and Dev holds no lock:
// callers sharing a Dev between goroutines must serialize access.
//
// # Datasheet
//
// https://sensirion.com/media/documents/984E0DD5/61644B8B/Sensirion_Gas_Sensors_Datasheet_SGP30.pdf
package sgp30
