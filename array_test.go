package hattrie

import "testing"

func TestEncodeDecodePrefixRoundTrip(t *testing.T) {
	lengths := []int{0, 1, 126, 127, 128, 1000, 0x7fff}
	for _, length := range lengths {
		buf := make([]byte, 2)
		n := encodePrefix(buf, 0, length)
		if n != prefixSkip(length) {
			t.Fatalf("encodePrefix(%d) wrote %d bytes, prefixSkip says %d", length, n, prefixSkip(length))
		}
		gotLength, gotSkip := decodePrefix(buf, 0)
		if gotLength != length || gotSkip != n {
			t.Fatalf("round trip for %d: got length=%d skip=%d", length, gotLength, gotSkip)
		}
	}
}

func TestNewArrayAndFindArray(t *testing.T) {
	h := newTestHat(t, DefaultConfig(0, 4))

	arr := h.newArray([]byte("hello"))
	if arr == nil {
		t.Fatalf("newArray returned nil for a small key")
	}
	slot, ok := h.findArray(arr, []byte("hello"))
	if !ok {
		t.Fatalf("expected to find the key just inserted")
	}
	copy(slot, []byte{1, 2, 3, 4})

	if _, ok := h.findArray(arr, []byte("goodbye")); ok {
		t.Fatalf("did not expect to find an unrelated key")
	}
}

func TestNewArrayTooLargeForAnyClass(t *testing.T) {
	h := newTestHat(t, DefaultConfig(0, 4))
	huge := make([]byte, 100000)

	if arr := h.newArray(huge); arr != nil {
		t.Fatalf("expected newArray to fail for a key too large for any class")
	}
}

func TestAddArrayFillsThenPromotes(t *testing.T) {
	h := newTestHat(t, DefaultConfig(0, 0))

	arr := h.newArray([]byte("a"))
	var result *nodeHeader = arr.asHeader()
	keys := [][]byte{[]byte("a")}

	for i := 0; i < 60; i++ {
		key := []byte{byte('b' + i%20), byte(i)}
		keys = append(keys, key)
		node := result.asArray()
		r, slot, ok := h.addArray(node, key, true)
		if !ok {
			t.Fatalf("addArray failed unexpectedly on iteration %d", i)
		}
		_ = slot
		result = r
	}

	// the node should have promoted at least once, and all keys should
	// still be reachable through whatever container now owns them.
	if result.kind == kindArray && result.asArray().class == arr.class {
		t.Fatalf("expected the array to have promoted to a larger class or a pail")
	}
	for _, k := range keys {
		var ok bool
		if result.kind == kindPail {
			_, ok = h.findPail(result.asPail(), k)
		} else {
			_, ok = h.findArray(result.asArray(), k)
		}
		if !ok {
			t.Fatalf("key %v not reachable after promotion", k)
		}
	}
}

func TestForEachArrayVisitsInsertionOrder(t *testing.T) {
	h := newTestHat(t, DefaultConfig(0, 2))

	arr := h.newArray([]byte("one"))
	result, _, ok := h.addArray(arr, []byte("two"), true)
	if !ok {
		t.Fatalf("addArray(two) failed")
	}
	arr = result.asArray()
	result, _, ok = h.addArray(arr, []byte("three"), true)
	if !ok {
		t.Fatalf("addArray(three) failed")
	}
	arr = result.asArray()

	var seen []string
	h.forEachArray(arr, func(key []byte, slot []byte) {
		seen = append(seen, string(key))
	})

	want := []string{"one", "two", "three"}
	if len(seen) != len(want) {
		t.Fatalf("forEachArray saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("forEachArray order = %v, want %v", seen, want)
		}
	}
}
