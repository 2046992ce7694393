// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sgp30driver is a container for the Sensirion SGP30 air quality
// sensor driver and its supporting packages.
//
// The driver itself lives in package sgp30; common holds the Sensirion CRC
// and word framing; tinyi2c runs the driver on tinygo style buses; airbar
// and trend present readings; cmd/sgp30 is a Prometheus exporter.
package sgp30driver
