// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains the Sensirion wire helpers shared by the drivers:
// the CRC-8 checksum and the 3-byte word framing built on it.
package common

const (
	crcPolynomial byte = 0x31
	crcInit       byte = 0xff
)

// CRC8 calculates the 8-bit CRC of the byte slice parameter and returns the
// calculated value. Polynomial 0x31, initial value 0xff, no final XOR, as
// used by Sensirion sensors.
func CRC8(bytes []byte) byte {
	crc := crcInit
	for _, val := range bytes {
		crc ^= val
		for range 8 {
			if (crc & 0x80) == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ crcPolynomial
			}
		}
	}
	return crc
}

// WordCRC returns the checksum of a 16-bit word as transmitted on the wire,
// most significant byte first.
func WordCRC(v uint16) byte {
	return CRC8([]byte{byte(v >> 8), byte(v)})
}
