package prims

import (
	"testing"

	"github.com/codahale/gubbins/assert"
)

func TestCapability(t *testing.T) {
	t.Parallel()

	caps := FixedLength | Invertible

	assert.Equal(t, "has", true, caps.Has(Invertible))
	assert.Equal(t, "has all", false, caps.Has(Invertible|Authenticating))
	assert.Equal(t, "string", "fixed|invertible", caps.String())
	assert.Equal(t, "none", "none", Capability(0).String())
}
