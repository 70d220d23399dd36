package hattrie

import "fmt"

// maxKeyLen is the largest key the array-node length prefix can encode
// (15 bits, spec.md §3).
const maxKeyLen = 0x7fff

// Stats tracks live Found/Inserted counters for a Hat, per spec.md §8.
type Stats struct {
	Found    int64
	Inserted int64
}

// Hat is an open HAT-trie: a cache-friendly ordered associative
// container combining hash-table-like insert/lookup with full ordered
// iteration (spec.md §1/§2).
type Hat struct {
	cfg   Config
	arena *arena
	root  []*nodeHeader
	Stats Stats
}

// Open creates an empty Hat using cfg (zero-valued fields fall back to
// spec.md's defaults — see Config.normalize). BootLevel 0 primes the
// root as a single bucket, exactly as hat_open does, so the very first
// key inserted benefits from full hash distribution instead of starting
// life as a lone array; BootLevel > 0 leaves every one of its
// 128^BootLevel root slots empty, each growing its own array on first
// use.
func Open(cfg Config) (*Hat, error) {
	cfg.normalize()

	if cfg.BootLevel > 4 {
		return nil, fmt.Errorf("hattrie: boot level %d would require 128^%d root slots", cfg.BootLevel, cfg.BootLevel)
	}

	rootSize := 1
	for i := 0; i < int(cfg.BootLevel); i++ {
		rootSize *= 128
	}

	h := &Hat{
		cfg:   cfg,
		arena: newArena(cfg.BucketSlots, cfg.PailSlots, len(cfg.SizeClasses)),
		root:  make([]*nodeHeader, rootSize),
	}
	if cfg.BootLevel == 0 {
		h.root[0] = h.arena.allocBucket().asHeader()
	}
	return h, nil
}

// Close releases every node and segment owned by h. h must not be used
// afterwards.
func (h *Hat) Close() {
	h.root = nil
	h.arena = nil
}

// Data bump-allocates n bytes of scratch storage from h's arena, for
// callers that want to keep application data alongside the trie without
// a second allocator (spec.md §6).
func (h *Hat) Data(n int) []byte {
	return h.arena.allocRaw(n)
}

// rootIndex consumes the first BootLevel bytes of key into a single flat
// root-table index, per spec.md §3's root cascade, and returns the
// number of key bytes consumed. Each byte is masked to 7 bits, the same
// way a radix level masks the byte it consumes.
func (h *Hat) rootIndex(key []byte) (index int, consumed int) {
	for i := 0; i < int(h.cfg.BootLevel); i++ {
		index *= 128
		if consumed < len(key) {
			index += int(key[consumed] & 0x7f)
			consumed++
		}
	}
	return index, consumed
}

// bucketGate applies the original's "bucket->count++ < Bmax" gate: it
// reports whether an add may still be attempted through parent (true
// when parent is nil — there is no bucket to gate through), bumping
// parent's count as a side effect exactly once per call.
func bucketGate(parent *bucketNode, bucketMax int) bool {
	if parent == nil {
		return true
	}
	overflowed := parent.count >= uint32(bucketMax)
	parent.count++
	return !overflowed
}

// setSentinel is returned in place of a real aux slot when Aux == 0
// (set mode): callers already learn found-vs-inserted from the bool
// results, so a single shared empty slice is enough to signal "present"
// without exposing a nil that a caller might mistake for "absent".
var setSentinel = []byte{}

func (h *Hat) publicSlot(slot []byte) []byte {
	if h.cfg.Aux == 0 {
		return setSentinel
	}
	return slot
}

// Cell finds key, or inserts it if absent, returning its aux slot.
// inserted reports which of the two happened. err is non-nil only when
// key is too long to store at all, or too large to fit any configured
// array size class.
func (h *Hat) Cell(key []byte) (slot []byte, inserted bool, err error) {
	if len(key) > maxKeyLen {
		return nil, false, ErrKeyTooLong
	}

	rootIdx, off := h.rootIndex(key)
	ref := &h.root[rootIdx]

	var parent *bucketNode
	var parentRef **nodeHeader

	for {
		node := *ref

		if node == nil {
			// bucketGate's count++ always happens when parent != nil, but
			// (per hat_cell) an already-overflowed bucket still places the
			// new key straight into this empty slot instead of bursting —
			// bursting on this path only happens when the bucket has NOT
			// yet overflowed and the array itself fails to fit.
			notOverflowed := bucketGate(parent, h.cfg.BucketMax)
			arr := h.newArray(key[off:])
			if arr != nil {
				*ref = arr.asHeader()
				h.Stats.Inserted++
				return h.publicSlot(arr.auxSlot(int(h.cfg.Aux), 0)), true, nil
			}
			if !notOverflowed || parent == nil {
				return nil, false, ErrKeyTooLarge
			}
			*parentRef = h.burstBucket(parent).asHeader()
			ref, parent = parentRef, nil
			continue
		}

		switch node.kind {
		case kindArray:
			arr := node.asArray()
			if s, ok := h.findArray(arr, key[off:]); ok {
				h.Stats.Found++
				return h.publicSlot(s), false, nil
			}
			if bucketGate(parent, h.cfg.BucketMax) {
				if result, s, ok := h.addArray(arr, key[off:], true); ok {
					*ref = result
					h.Stats.Inserted++
					return h.publicSlot(s), true, nil
				}
			}
			if parent != nil {
				*parentRef = h.burstBucket(parent).asHeader()
				ref, parent = parentRef, nil
				continue
			}
			*ref = h.burstArrayToBucket(arr).asHeader()
			continue

		case kindPail:
			pail := node.asPail()
			if s, ok := h.findPail(pail, key[off:]); ok {
				h.Stats.Found++
				return h.publicSlot(s), false, nil
			}
			if bucketGate(parent, h.cfg.BucketMax) {
				if s, ok := h.addPail(pail, key[off:]); ok {
					h.Stats.Inserted++
					return h.publicSlot(s), true, nil
				}
			}
			if parent != nil {
				*parentRef = h.burstBucket(parent).asHeader()
				ref, parent = parentRef, nil
				continue
			}
			*ref = h.burstPailToBucket(pail).asHeader()
			continue

		case kindBucket:
			bucket := node.asBucket()
			code := int(hatCode(key[off:]) % uint32(len(bucket.slots)))
			parent = bucket
			parentRef = ref
			ref = &bucket.slots[code]
			continue

		case kindRadix:
			r := node.asRadix()
			var ch byte
			if off < len(key) {
				ch = key[off] & 0x7f
				off++
			}
			ref = &r.children[ch]
			continue
		}
	}
}

// Find looks up key without inserting it.
func (h *Hat) Find(key []byte) (slot []byte, ok bool) {
	rootIdx, off := h.rootIndex(key)
	node := h.root[rootIdx]

	for node != nil {
		switch node.kind {
		case kindArray:
			if s, ok := h.findArray(node.asArray(), key[off:]); ok {
				return h.publicSlot(s), true
			}
			return nil, false

		case kindPail:
			if s, ok := h.findPail(node.asPail(), key[off:]); ok {
				return h.publicSlot(s), true
			}
			return nil, false

		case kindBucket:
			b := node.asBucket()
			code := int(hatCode(key[off:]) % uint32(len(b.slots)))
			node = b.slots[code]

		case kindRadix:
			r := node.asRadix()
			var ch byte
			if off < len(key) {
				ch = key[off] & 0x7f
				off++
			}
			node = r.children[ch]
		}
	}

	return nil, false
}
