package gcrypto

import (
	"encoding/json"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestHashJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Hash
		out  string
	}{
		{
			"converts hex values",
			[]byte{0xde, 0xad, 0xbe, 0xef},
			"\"deadbeef\"",
		},
		{
			"handles empty hashes",
			[]byte{},
			"null",
		},
		{
			"handles nil hashes",
			nil,
			"null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := json.Marshal(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.out, string(j))
			var h Hash
			err = json.Unmarshal(j, &h)
			require.NoError(t, err)
			require.True(t, tt.in.Equal(h))
		})
	}
}

func TestHashSQL(t *testing.T) {
	t.Parallel()

	h := Blake256([]byte("vendue"))
	val, err := h.Value()
	require.NoError(t, err)

	var scanned Hash
	require.NoError(t, scanned.Scan(val))
	require.True(t, h.Equal(scanned))

	require.NoError(t, scanned.Scan(nil))
	require.Nil(t, scanned)
	require.Error(t, scanned.Scan(12))
}

func TestBlakeStreamingMatchesOneShot(t *testing.T) {
	t.Parallel()

	h := NewBlake256()
	h.Write([]byte("auction"))
	require.Equal(t, Blake256([]byte("auction")), Hash(h.Sum(nil)))
	require.Len(t, Blake160([]byte("auction")), 20)
}
