package hattrie

// nodeUnit is HAT_node_size from the original: the byte granularity an
// array size class is expressed in.
const nodeUnit = 16

// headerSize mirrors sizeof(HatBase) (nxt uint16 + type uint8 + cnt uint8)
// from the original layout. Go keeps nxt/cnt/type as real struct fields
// rather than packed bytes (see SPEC_FULL.md §3.2), but every byte-budget
// invariant in spec.md is defined against the original header-inclusive
// size class, so we still subtract headerSize from each class's byte
// count before computing the capacity available for keys+aux. This keeps
// the arithmetic identical to the spec even though the bytes it
// "reserves" are no longer physically present in the buffer.
const headerSize = 4

// defaultSizeClasses are the 12 array size classes from spec.md §3,
// expressed in units of nodeUnit bytes: 16, 32, 48, 64, 96, 128, 160,
// 192, 224, 256, 384, 512 bytes.
var defaultSizeClasses = []int{1, 2, 3, 4, 6, 8, 10, 12, 14, 16, 24, 32}

// Config holds the tunable parameters from spec.md §6.
type Config struct {
	// BootLevel is the number of cascaded 128-way root radix levels
	// fused into the flat root table (bootlvl). 0 primes the root as a
	// single bucket.
	BootLevel uint8

	// Aux is the number of opaque payload bytes stored per key. 0 puts
	// the container into set mode.
	Aux uint8

	// BucketSlots is the bucket hash modulus B (default 2047).
	BucketSlots int

	// BucketMax is the bucket overflow threshold Bmax (default 65536).
	BucketMax int

	// PailSlots is the pail hash modulus P (default 127).
	PailSlots int

	// SizeClasses are the array size classes, in units of nodeUnit
	// bytes, smallest first (default defaultSizeClasses).
	SizeClasses []int
}

// DefaultConfig returns a Config with the spec.md default tunables for
// the given boot level and aux byte count.
func DefaultConfig(bootLevel, aux uint8) Config {
	classes := make([]int, len(defaultSizeClasses))
	copy(classes, defaultSizeClasses)
	return Config{
		BootLevel:   bootLevel,
		Aux:         aux,
		BucketSlots: 2047,
		BucketMax:   65536,
		PailSlots:   127,
		SizeClasses: classes,
	}
}

func (c *Config) normalize() {
	if c.BucketSlots <= 0 {
		c.BucketSlots = 2047
	}
	if c.BucketMax <= 0 {
		c.BucketMax = 65536
	}
	if c.PailSlots <= 0 {
		c.PailSlots = 127
	}
	if len(c.SizeClasses) == 0 {
		c.SizeClasses = append([]int(nil), defaultSizeClasses...)
	}
}

// classCapacity returns the capacity, in bytes, available to keys+aux
// for the given size class index (i.e. the class's raw byte size minus
// headerSize).
func (c *Config) classCapacity(class int) int {
	return c.SizeClasses[class]*nodeUnit - headerSize
}
