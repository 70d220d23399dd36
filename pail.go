package hattrie

// pailNode is the small open-hash overflow stage of spec.md §3/§4: P
// slots (default 127), each pointing to an array node.
type pailNode struct {
	nodeHeader
	slots []*nodeHeader
}

// findPail hashes key to a slot and scans that slot's array, if any.
func (h *Hat) findPail(pail *pailNode, key []byte) (slot []byte, ok bool) {
	code := int(hatCode(key) % uint32(len(pail.slots)))
	ref := pail.slots[code]
	if ref == nil {
		return nil, false
	}
	return h.findArray(ref.asArray(), key)
}

// addPail adds key to the array child selected by hash(key) mod P,
// creating that child on first use. Array children under a pail are
// never allowed to escalate to a nested pail (allowPail=false) — an
// array-level overflow here instead signals the whole pail must burst
// to a bucket (spec.md §4.3).
func (h *Hat) addPail(pail *pailNode, key []byte) (slot []byte, ok bool) {
	code := int(hatCode(key) % uint32(len(pail.slots)))

	if pail.slots[code] == nil {
		arr := h.newArray(key)
		if arr == nil {
			return nil, false
		}
		pail.slots[code] = arr.asHeader()
		return arr.auxSlot(int(h.cfg.Aux), 0), true
	}

	arr := pail.slots[code].asArray()
	result, slot, ok := h.addArray(arr, key, false)
	if !ok {
		return nil, false
	}
	pail.slots[code] = result
	return slot, true
}

// burstArrayToPail converts a full array node into a new pail node by
// rehashing every stored key into the pail's child arrays (hat_new_pail
// in the original). The old array is freed; the new pail is returned
// with no further action taken on the key that triggered the burst —
// the caller (promoteArray) inserts it via addPail immediately after.
func (h *Hat) burstArrayToPail(arr *arrayNode) *pailNode {
	pail := h.arena.allocPail()

	h.forEachArray(arr, func(key []byte, oldSlot []byte) {
		slot, ok := h.addPail(pail, key)
		if !ok {
			hatAbort("pail burst: rehashed key does not fit a fresh array")
		}
		if len(oldSlot) > 0 {
			copy(slot, oldSlot)
		}
	})

	h.arena.freeArray(arr)
	return pail
}

// forEachPail walks every key stored across all of a pail's children.
func (h *Hat) forEachPail(pail *pailNode, fn func(key []byte, slot []byte)) {
	for _, ref := range pail.slots {
		if ref == nil {
			continue
		}
		h.forEachArray(ref.asArray(), fn)
	}
}
