// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"bytes"
	"testing"
)

func TestEncodeWords(t *testing.T) {
	tests := []struct {
		words    []uint16
		expected []byte
	}{
		{words: nil, expected: []byte{}},
		{words: []uint16{0}, expected: []byte{0x00, 0x00, 0x81}},
		{words: []uint16{0xbeef, 0}, expected: []byte{0xbe, 0xef, 0x92, 0x00, 0x00, 0x81}},
	}
	for _, test := range tests {
		res := EncodeWords(test.words...)
		if !bytes.Equal(res, test.expected) {
			t.Errorf("EncodeWords(%#v)=%#v expected %#v", test.words, res, test.expected)
		}
	}
}

func TestAppendWords(t *testing.T) {
	res := AppendWords([]byte{0x20, 0x61}, 0x0f33)
	if len(res) != 5 || res[0] != 0x20 || res[1] != 0x61 || res[2] != 0x0f || res[3] != 0x33 {
		t.Fatalf("unexpected result %#v", res)
	}
	if !CheckWord(res[2:]) {
		t.Errorf("appended word has a bad crc: %#v", res)
	}
}

func TestDecodeWords(t *testing.T) {
	words := DecodeWords([]byte{0xbe, 0xef, 0x92, 0x00, 0x00, 0x81})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0] != (Word{Value: 0xbeef, Valid: true}) || words[1] != (Word{Value: 0, Valid: true}) {
		t.Errorf("unexpected words %#v", words)
	}

	words = DecodeWords([]byte{0xbe, 0xef, 0x92, 0x00, 0x00, 0x80, 0x01})
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if !words[0].Valid {
		t.Error("first word should be valid")
	}
	if words[1].Valid {
		t.Error("second word has a corrupted crc and should be invalid")
	}
}

// Every value must survive encode/decode, and any single flipped bit in the
// 3-byte group must be caught.
func TestWordRoundTripAndBitFlips(t *testing.T) {
	for v := range 1 << 16 {
		g := EncodeWords(uint16(v))
		words := DecodeWords(g)
		if len(words) != 1 || !words[0].Valid || words[0].Value != uint16(v) {
			t.Fatalf("round trip failed for 0x%04x: %#v", v, words)
		}
		for bit := range WordSize * 8 {
			c := bytes.Clone(g)
			c[bit/8] ^= 1 << (bit % 8)
			if CheckWord(c) {
				t.Fatalf("bit %d flip of 0x%04x not detected", bit, v)
			}
		}
	}
}

func TestCheckWordLength(t *testing.T) {
	if CheckWord([]byte{0x00, 0x00}) {
		t.Error("short group must not be valid")
	}
}
