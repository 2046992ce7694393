// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import "encoding/binary"

// WordSize is the number of bytes a single word occupies on the wire: two
// big-endian data bytes followed by their CRC.
const WordSize = 3

// Word is a 16-bit value received from a sensor.
//
// Valid is false when the checksum byte transmitted with the value did not
// match; Value must then be treated as garbage.
type Word struct {
	Value uint16
	Valid bool
}

// AppendWords appends each word to dst as two big-endian bytes followed by
// its CRC and returns the extended slice.
func AppendWords(dst []byte, words ...uint16) []byte {
	for _, w := range words {
		dst = binary.BigEndian.AppendUint16(dst, w)
		dst = append(dst, WordCRC(w))
	}
	return dst
}

// EncodeWords returns the wire representation of words.
func EncodeWords(words ...uint16) []byte {
	return AppendWords(make([]byte, 0, len(words)*WordSize), words...)
}

// CheckWord reports whether b, a 3-byte group, carries a correct checksum.
func CheckWord(b []byte) bool {
	return len(b) == WordSize && CRC8(b[:2]) == b[2]
}

// DecodeWords splits b into 3-byte groups and decodes each one. A trailing
// partial group is ignored. Checksum failures are reported per word through
// Word.Valid and never abort the decode.
func DecodeWords(b []byte) []Word {
	words := make([]Word, len(b)/WordSize)
	for ix := range words {
		g := b[ix*WordSize : (ix+1)*WordSize]
		words[ix] = Word{
			Value: binary.BigEndian.Uint16(g),
			Valid: CheckWord(g),
		}
	}
	return words
}
