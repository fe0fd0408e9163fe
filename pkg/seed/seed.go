// Package seed derives render seeds from usernames.
//
// A seed is the only input that decides what an avatar looks like: the same
// username always hashes to the same seed, and the same seed always produces
// the same pixels for a given mode and size.
//
// The hash is the classic "h*31 + c" string hash over UTF-16 code units,
// wrapping at 32 bits. It is not cryptographically distributed and collisions
// are expected; avatar uniqueness is cosmetic.
package seed

import "unicode/utf16"

// FromString hashes s into a 32-bit signed seed.
// FromString("") is 0.
func FromString(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(u)
	}
	return h
}
