package seal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	sealed, err := Seal([]byte(`[{"id":"note-1"}]`), "secret")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "note-1")

	plain, err := Open(sealed, "secret")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"note-1"}]`, string(plain))
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("data"), "right")
	require.NoError(t, err)

	_, err = Open(sealed, "wrong")
	assert.Error(t, err)
}

func TestOpenGarbage(t *testing.T) {
	_, err := Open([]byte("not json"), "x")
	assert.Error(t, err)
}
