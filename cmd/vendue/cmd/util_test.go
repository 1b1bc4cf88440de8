package cmd

import (
	"fmt"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    string
		out   uint64
		isErr bool
	}{
		{"whole", "12", 12_000_000, false},
		{"fractional", "0.5", 500_000, false},
		{"smallest unit", "0.000001", 1, false},
		{"too precise", "0.0000001", 0, true},
		{"negative", "-1", 0, true},
		{"garbage", "one", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			out, err := parseAmount(tt.in)
			if tt.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.out, out)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1.500000", formatAmount(1_500_000))
	require.Equal(t, "0.000001", formatAmount(1))
	require.Equal(t, "0.000000", formatAmount(0))
}
