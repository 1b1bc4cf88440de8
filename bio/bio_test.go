package bio

import (
	"bytes"
	"fmt"
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestVarint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		n    uint64
		size int
	}{
		{"single byte", 0xfc, 1},
		{"uint16", 0xfd, 3},
		{"uint32", 0x10000, 5},
		{"uint64", 0x100000000, 9},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("%d-%s", i, tt.name), func(t *testing.T) {
			buf := new(bytes.Buffer)
			n, err := WriteVarint(buf, tt.n)
			require.NoError(t, err)
			require.Equal(t, tt.size, n)
			require.Equal(t, tt.size, SizeVarint(int(tt.n)))

			out, err := ReadVarint(buf)
			require.NoError(t, err)
			require.Equal(t, tt.n, out)
		})
	}
}

func TestGuardReader(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	g := NewGuardWriter(buf)
	WriteBool(g, true)
	WriteVarBytes(g, []byte("auction"))
	WriteInt64LE(g, -5)
	require.NoError(t, g.Err)

	r := NewGuardReader(bytes.NewReader(buf.Bytes()))
	b, err := ReadBool(r)
	require.NoError(t, err)
	require.True(t, b)
	vb, _ := ReadVarBytes(r)
	i, _ := ReadInt64LE(r)
	require.NoError(t, r.Err)
	require.Equal(t, []byte("auction"), vb)
	require.EqualValues(t, -5, i)
	require.EqualValues(t, buf.Len(), r.N)

	_, err = ReadByte(r)
	require.ErrorIs(t, err, io.EOF)
	require.ErrorIs(t, r.Err, io.EOF)
}

func TestReadBool_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ReadBool(bytes.NewReader([]byte{0x02}))
	require.ErrorIs(t, err, ErrInvalidBool)
}

func TestReadVarBytes_TooLong(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	_, err := WriteVarint(buf, MaxVarBytes+1)
	require.NoError(t, err)
	_, err = ReadVarBytes(buf)
	require.ErrorIs(t, err, ErrVarBytesTooLong)
}
