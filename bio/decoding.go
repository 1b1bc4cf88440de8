package bio

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxVarBytes bounds the length prefix accepted by ReadVarBytes.
const MaxVarBytes = 1 << 20

var (
	ErrInvalidBool     = errors.New("invalid boolean byte")
	ErrVarBytesTooLong = errors.New("var bytes length exceeds limit")
)

type GuardReader struct {
	r   io.Reader
	N   int64
	Err error
}

func NewGuardReader(r io.Reader) *GuardReader {
	return &GuardReader{
		r: r,
	}
}

func (g *GuardReader) Read(b []byte) (int, error) {
	if g.Err != nil {
		return 0, g.Err
	}

	n, err := g.r.Read(b)
	g.N += int64(n)
	if err != nil {
		g.Err = err
	}
	return n, err
}

func ReadByte(r io.Reader) (byte, error) {
	b, err := ReadFixedBytes(r, 1)
	if err != nil {
		return 0, err
	}
	return b[0], err
}

func ReadBool(r io.Reader) (bool, error) {
	b, err := ReadByte(r)
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, ErrInvalidBool
	}
}

func ReadFixedBytes(r io.Reader, byteLen int) ([]byte, error) {
	b := make([]byte, byteLen)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func ReadVarBytes(r io.Reader) ([]byte, error) {
	l, err := ReadVarint(r)
	if err != nil {
		return nil, err
	}
	if l > MaxVarBytes {
		return nil, ErrVarBytesTooLong
	}
	return ReadFixedBytes(r, int(l))
}

func ReadVarint(r io.Reader) (uint64, error) {
	sigil, err := ReadByte(r)
	if err != nil {
		return 0, err
	}
	if sigil < 0xfd {
		return uint64(sigil), nil
	}
	if sigil == 0xfd {
		num := make([]byte, 2)
		if _, err := io.ReadFull(r, num); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint16(num)), nil
	}
	if sigil == 0xfe {
		num := make([]byte, 4)
		if _, err := io.ReadFull(r, num); err != nil {
			return 0, err
		}
		return uint64(binary.LittleEndian.Uint32(num)), nil
	}
	num := make([]byte, 8)
	if _, err := io.ReadFull(r, num); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(num), nil
}

func ReadUint64LE(r io.Reader) (uint64, error) {
	b, err := ReadFixedBytes(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func ReadInt64LE(r io.Reader) (int64, error) {
	n, err := ReadUint64LE(r)
	return int64(n), err
}
