package hattrie

import (
	"fmt"
	"testing"
)

// cfgTinyPail keeps the array size classes small and the pail modulus
// tiny so a handful of keys reliably exercise burstArrayToPail and
// burstPailToBucket without needing tens of thousands of inserts.
func cfgTinyPail() Config {
	cfg := DefaultConfig(0, 8)
	cfg.SizeClasses = []int{1, 2, 16, 32}
	cfg.PailSlots = 4
	return cfg
}

func keysN(prefix string, n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("%s-%04d", prefix, i))
	}
	return out
}

func TestBurstArrayToPailPreservesKeys(t *testing.T) {
	h := newTestHat(t, cfgTinyPail())

	keys := keysN("k", 40)
	arr := h.newArray(keys[0])
	var node *nodeHeader = arr.asHeader()
	binaryPutUint64(arr.auxSlot(8, 0), 0)

	for i, k := range keys[1:] {
		var slot []byte
		var ok bool
		switch node.kind {
		case kindArray:
			node, slot, ok = h.addArray(node.asArray(), k, true)
		case kindPail:
			slot, ok = h.addPail(node.asPail(), k)
		}
		if !ok {
			t.Fatalf("failed to add %q", k)
		}
		binaryPutUint64(slot, uint64(i+1))
	}

	if node.kind != kindPail {
		t.Fatalf("expected the overflowing array to have burst into a pail, got %v", node.kind)
	}

	for i, k := range keys {
		slot, ok := h.findPail(node.asPail(), k)
		if !ok {
			t.Fatalf("key %q missing after burst to pail", k)
		}
		if got := binaryGetUint64(slot); got != uint64(i) {
			t.Fatalf("key %q: aux = %d, want %d", k, got, i)
		}
	}
}

func TestBurstBucketProducesRadix(t *testing.T) {
	cfg := DefaultConfig(0, 8)
	cfg.BucketMax = 50
	h := newTestHat(t, cfg)

	// Past BucketMax, a key that lands in a still-empty bucket slot is
	// placed there without a burst; only a key hitting an occupied slot
	// bursts the bucket. The first 200 of these keys all hash to distinct
	// slots, so more are needed for a collision to occur.
	keys := keysN("bucket-overflow", 500)

	for i, k := range keys {
		slot, inserted, err := h.Cell(k)
		if err != nil {
			t.Fatalf("Cell(%q): %v", k, err)
		}
		if !inserted {
			t.Fatalf("Cell(%q): expected insert", k)
		}
		binaryPutUint64(slot, uint64(i))
	}

	if h.root[0].kind != kindRadix {
		t.Fatalf("expected the root bucket to have burst into a radix node, got %v", h.root[0].kind)
	}

	for i, k := range keys {
		slot, ok := h.Find(k)
		if !ok {
			t.Fatalf("key %q missing after bucket burst to radix", k)
		}
		if got := binaryGetUint64(slot); got != uint64(i) {
			t.Fatalf("key %q: aux = %d, want %d", k, got, i)
		}
	}
}
