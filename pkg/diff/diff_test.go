package diff

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestComputeCounts(t *testing.T) {
	res := Compute("hello world", "hello brave world")

	assert.True(t, res.Changed())
	assert.Equal(t, 6, res.Insertions)
	assert.Equal(t, 0, res.Deletions)
	assert.NotEmpty(t, res.Patch)
}

func TestComputeNoChange(t *testing.T) {
	res := Compute("same", "same")

	assert.False(t, res.Changed())
	assert.Equal(t, []Segment{{Op: OpEqual, Text: "same"}}, res.Segments)
}

func TestEnsureValidUTF8(t *testing.T) {
	assert.Equal(t, "a�b", EnsureValidUTF8("a\xffb"))
	assert.Equal(t, "ok", EnsureValidUTF8("ok"))
}

// 补丁应用到旧版本必须还原出新版本
func TestPropertyPatchRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("apply(from, compute(from, to).patch) == to", prop.ForAll(
		func(from, to string) bool {
			res := Compute(from, to)
			out, ok := Apply(from, res.Patch)
			return ok && out == to
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("segments rebuild both sides", prop.ForAll(
		func(from, to string) bool {
			var a, b string
			for _, s := range Compute(from, to).Segments {
				if s.Op != OpInsert {
					a += s.Text
				}
				if s.Op != OpDelete {
					b += s.Text
				}
			}
			return a == from && b == to
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
