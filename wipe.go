package soulcipher

import "runtime"

// wipe zeroes b in place. runtime.KeepAlive anchors b past the zeroing
// loop so the compiler cannot prove the writes are dead and elide them —
// a plain loop with no use afterward is a classic dead-store elimination
// candidate.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}
