package hattrie

// bucketNode is the large open-hash node of spec.md §3/§4: B slots
// (default 2047), each holding an array or a pail, plus a running count
// used to trigger a burst to radix once Bmax keys have passed through.
type bucketNode struct {
	nodeHeader
	count uint32
	slots []*nodeHeader
}

// addBucket adds key (with value already known, since this is only ever
// called while rehashing during a burst — see hat.go's Cell for the
// analogous parent-aware logic used during ordinary top-level inserts)
// to bucket. It mirrors hat_add_bucket's unconditional count++: the
// counter is bumped even on the call that ultimately fails, which is
// harmless because a failed bucket insert always triggers a full burst
// of this bucket shortly after.
func (h *Hat) addBucket(bucket *bucketNode, key []byte, value []byte) bool {
	aux := int(h.cfg.Aux)
	code := int(hatCode(key) % uint32(len(bucket.slots)))

	overflowed := bucket.count >= uint32(h.cfg.BucketMax)
	bucket.count++
	if overflowed {
		return false
	}

	if bucket.slots[code] == nil {
		arr := h.newArray(key)
		if arr == nil {
			return false
		}
		bucket.slots[code] = arr.asHeader()
		if aux > 0 && len(value) > 0 {
			copy(arr.auxSlot(aux, 0), value)
		}
		return true
	}

	switch bucket.slots[code].kind {
	case kindArray:
		arr := bucket.slots[code].asArray()
		result, slot, ok := h.addArray(arr, key, true)
		if !ok {
			return false
		}
		bucket.slots[code] = result
		if aux > 0 && len(value) > 0 {
			copy(slot, value)
		}
		return true

	case kindPail:
		pail := bucket.slots[code].asPail()
		slot, ok := h.addPail(pail, key)
		if !ok {
			return false
		}
		if aux > 0 && len(value) > 0 {
			copy(slot, value)
		}
		return true
	}

	return false
}

// burstArrayToBucket converts an array that has overflowed (with pail
// promotion already attempted and failed, or disallowed) into a fresh
// bucket, rehashing every key it held (hat_burst_array).
func (h *Hat) burstArrayToBucket(arr *arrayNode) *bucketNode {
	bucket := h.arena.allocBucket()
	h.forEachArray(arr, func(key []byte, oldSlot []byte) {
		if !h.addBucket(bucket, key, oldSlot) {
			hatAbort("array burst: rehashed key does not fit fresh bucket")
		}
	})
	h.arena.freeArray(arr)
	return bucket
}

// burstPailToBucket converts an overflowed pail into a fresh bucket,
// rehashing every key held by every one of the pail's array children
// (hat_burst_pail).
func (h *Hat) burstPailToBucket(pail *pailNode) *bucketNode {
	bucket := h.arena.allocBucket()
	for _, ref := range pail.slots {
		if ref == nil {
			continue
		}
		arr := ref.asArray()
		h.forEachArray(arr, func(key []byte, oldSlot []byte) {
			if !h.addBucket(bucket, key, oldSlot) {
				hatAbort("pail burst: rehashed key does not fit fresh bucket")
			}
		})
		h.arena.freeArray(arr)
	}
	h.arena.freePail(pail)
	return bucket
}

// burstBucket decomposes a bucket that has exceeded Bmax entries into a
// radix node, rehashing every key held by every array or pail slot one
// level deeper (hat_burst_bucket). This is the only path that produces a
// radix node.
func (h *Hat) burstBucket(bucket *bucketNode) *radixNode {
	radix := h.arena.allocRadix()

	for _, ref := range bucket.slots {
		if ref == nil {
			continue
		}
		switch ref.kind {
		case kindArray:
			arr := ref.asArray()
			h.forEachArray(arr, func(key []byte, slot []byte) {
				h.addRadix(&radix.children, &radix.presence, key, slot)
			})
			h.arena.freeArray(arr)

		case kindPail:
			pail := ref.asPail()
			h.forEachPail(pail, func(key []byte, slot []byte) {
				h.addRadix(&radix.children, &radix.presence, key, slot)
			})
			for _, aref := range pail.slots {
				if aref != nil {
					h.arena.freeArray(aref.asArray())
				}
			}
			h.arena.freePail(pail)
		}
	}

	h.arena.freeBucket(bucket)
	return radix
}

// forEachBucket walks every key stored across all of a bucket's slots,
// in no particular order — used by the cursor/sort machinery, which
// re-sorts whatever order this yields.
func (h *Hat) forEachBucket(bucket *bucketNode, fn func(key []byte, slot []byte)) {
	for _, ref := range bucket.slots {
		if ref == nil {
			continue
		}
		switch ref.kind {
		case kindArray:
			h.forEachArray(ref.asArray(), fn)
		case kindPail:
			h.forEachPail(ref.asPail(), fn)
		}
	}
}
