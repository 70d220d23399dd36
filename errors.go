package hattrie

import "errors"

// ErrKeyTooLong is returned when a key exceeds the 32767-byte maximum
// representable by the array node's length prefix encoding.
var ErrKeyTooLong = errors.New("hattrie: key exceeds maximum length of 32767 bytes")

// ErrKeyTooLarge is returned when a key, together with the configured aux
// byte count, cannot fit even the largest configured array size class.
// The original C implementation documents this as unreachable under its
// default size classes; we surface it rather than let a nil pointer
// silently propagate.
var ErrKeyTooLarge = errors.New("hattrie: key plus aux bytes exceeds the largest array size class")
