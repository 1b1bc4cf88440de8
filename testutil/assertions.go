package testutil

import (
	"encoding/hex"
	"github.com/stretchr/testify/require"
	"testing"
)

func RequireEqualHexBytes(t *testing.T, exp string, act []byte) {
	require.Equal(t, exp, hex.EncodeToString(act))
}
