package hattrie

import "math/rand"

// cursorEntry is one (key, aux slot) pair flattened out of an unordered
// bucket, pail, or array node for ordered iteration.
type cursorEntry struct {
	key  []byte
	slot []byte
}

// sortEntries orders entries by key, byte for byte, with a 3-way
// (Bentley-Sedgewick) partitioning quicksort over successive key bytes
// — hat_qsort in the original. This is the machinery that turns a
// bucket/pail/array's hash-ordered contents into the sorted sequence a
// Cursor walks.
func sortEntries(entries []cursorEntry, rng *rand.Rand) {
	if len(entries) < 2 {
		return
	}
	qsort(entries, 0, len(entries)-1, 0, rng)
}

// qsort partitions entries[lo:hi+1] around a byte at the given depth
// into three ranges — less than, equal to, and greater than a randomly
// chosen pivot — recursing into the less/greater ranges at the same
// depth and into the equal range at depth+1 (entries that agree up to
// depth only differ, if at all, further in). byteAt's -1 sentinel for
// an exhausted key stops the equal range from recursing forever: once
// every member of a group has run out of bytes, they are already fully
// ordered relative to each other by the shorter-sorts-first rule.
func qsort(entries []cursorEntry, lo, hi, depth int, rng *rand.Rand) {
	for lo < hi {
		p := lo + rng.Intn(hi-lo+1)
		entries[lo], entries[p] = entries[p], entries[lo]
		pivot := byteAt(entries[lo].key, depth)

		lt, gt, i := lo, hi, lo+1
		for i <= gt {
			b := byteAt(entries[i].key, depth)
			switch {
			case b < pivot:
				entries[lt], entries[i] = entries[i], entries[lt]
				lt++
				i++
			case b > pivot:
				entries[gt], entries[i] = entries[i], entries[gt]
				gt--
			default:
				i++
			}
		}

		qsort(entries, lo, lt-1, depth, rng)
		if pivot >= 0 {
			qsort(entries, lt, gt, depth+1, rng)
		}
		lo = gt + 1
	}
}

// byteAt returns the byte of key at position depth as an int, or -1 once
// depth has run past the end of key.
func byteAt(key []byte, depth int) int {
	if depth >= len(key) {
		return -1
	}
	return int(key[depth])
}
