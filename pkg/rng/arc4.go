package rng

import (
	"strconv"
	"unicode/utf16"
)

const (
	width        = 256
	chunks       = 6       // bytes in the initial numerator
	startDenom   = 1 << 48 // width^chunks
	significance = 1 << 52
	overflow     = 1 << 53
)

// ARC4 is an RC4-drop[256] keystream turned into uniform floats.
//
// Each float starts from 48 bits of keystream and is topped up a byte at a
// time until 52 significant bits are available, then trimmed so the result
// never rounds up to 1.
type ARC4 struct {
	i, j uint8
	s    [width]uint8
}

// NewARC4 returns the stream keyed by the decimal form of seed followed by a
// NUL, which is how numeric seeds are flattened into key material.
func NewARC4(seed int32) *ARC4 {
	return NewARC4String(strconv.Itoa(int(seed)) + "\x00")
}

// NewARC4String returns the stream keyed directly by key.
func NewARC4String(key string) *ARC4 {
	return newARC4(mixKey(key))
}

// mixKey folds key into at most 256 key bytes.
func mixKey(key string) []int {
	var out []int
	smear := 0
	for j, u := range utf16.Encode([]rune(key)) {
		idx := j & 0xff
		if idx < len(out) {
			smear ^= out[idx] * 19
			out[idx] = (smear + int(u)) & 0xff
		} else {
			out = append(out, (smear+int(u))&0xff)
		}
	}
	return out
}

func newARC4(key []int) *ARC4 {
	if len(key) == 0 {
		key = []int{0}
	}
	a := &ARC4{}
	for i := range a.s {
		a.s[i] = uint8(i)
	}
	var j uint8
	for i := 0; i < width; i++ {
		t := a.s[i]
		j += uint8(key[i%len(key)]) + t
		a.s[i] = a.s[j]
		a.s[j] = t
	}
	for n := 0; n < width; n++ {
		a.byte()
	}
	return a
}

func (a *ARC4) byte() uint8 {
	a.i++
	t := a.s[a.i]
	a.j += t
	a.s[a.i] = a.s[a.j]
	a.s[a.j] = t
	return a.s[a.s[a.i]+a.s[a.j]]
}

// next reads count keystream bytes as a big-endian integer.
func (a *ARC4) next(count int) float64 {
	r := 0.0
	for ; count > 0; count-- {
		r = r*width + float64(a.byte())
	}
	return r
}

// Float64 returns the next value in [0, 1).
func (a *ARC4) Float64() float64 {
	n := a.next(chunks)
	d := float64(startDenom)
	var x uint32
	for n < significance {
		n = (n + float64(x)) * width
		d *= width
		x = uint32(a.next(1))
	}
	for n >= overflow {
		n /= 2
		d /= 2
		x >>= 1
	}
	return (n + float64(x)) / d
}
