package prims

import "strings"

// Capability is a set of shape and security tags a primitive advertises. Composition code checks
// these tags as plain data instead of relying on a type hierarchy.
type Capability uint32

const (
	// FixedLength primitives have a predefined block size for input and output.
	FixedLength Capability = 1 << iota
	// VaryingInput primitives accept any input length and produce one fixed-size block.
	VaryingInput
	// VaryingIO primitives accept any input length and produce any requested output length.
	VaryingIO
	// Invertible primitives are permutations which can be inverted given the key.
	Invertible
	// Authenticating primitives produce message authentication tags.
	Authenticating
	// UniqueTag MACs produce exactly one valid tag per message.
	UniqueTag
	// UnboundedUse MACs remain secure for an unlimited number of uses under one key.
	UnboundedUse
	// TargetCollisionResistant hashes resist collisions for a randomly chosen key.
	TargetCollisionResistant
	// CollisionResistant hashes resist collisions outright.
	CollisionResistant
)

// Has returns true if all tags in c are present in the receiver.
func (caps Capability) Has(c Capability) bool {
	return caps&c == c
}

func (caps Capability) String() string {
	var names []string

	for i, name := range capabilityNames {
		if caps.Has(1 << uint(i)) {
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return "none"
	}

	return strings.Join(names, "|")
}

//nolint:gochecknoglobals // constant
var capabilityNames = []string{
	"fixed",
	"varying-input",
	"varying-io",
	"invertible",
	"authenticating",
	"unique-tag",
	"unbounded-use",
	"target-collision-resistant",
	"collision-resistant",
}
