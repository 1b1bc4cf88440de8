package gjson

import (
	"encoding/json"
	"github.com/kurumiimari/vendue/testutil"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestByteString(t *testing.T) {
	t.Parallel()

	in := struct {
		Sig ByteString `json:"sig"`
	}{
		Sig: ByteString{0xde, 0xad, 0xbe, 0xef},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Equal(t, `{"sig":"deadbeef"}`, string(data))

	var out struct {
		Sig ByteString `json:"sig"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	testutil.RequireEqualHexBytes(t, "deadbeef", out.Sig)
	require.Equal(t, "deadbeef", out.Sig.String())

	require.Error(t, json.Unmarshal([]byte(`{"sig":"xyz"}`), &out))
	require.Error(t, json.Unmarshal([]byte(`{"sig":12}`), &out))
}
