package ledger

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"lukechampine.com/uint128"
)

func EncodeU128(v uint128.Uint128) []byte {
	b := make([]byte, 16)
	v.PutBytes(b)
	return b
}

func DecodeU128(b []byte) (uint128.Uint128, error) {
	if len(b) != 16 {
		return uint128.Zero, fmt.Errorf("%w: u128 needs 16 bytes, got %d", ErrMalformed, len(b))
	}
	return uint128.FromBytes(b), nil
}

func EncodeU64(v uint64) []byte {
	return binary.LittleEndian.AppendUint64(nil, v)
}

func DecodeU64(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("%w: u64 needs 8 bytes, got %d", ErrMalformed, len(b))
	}
	return binary.LittleEndian.Uint64(b), nil
}

func EncodeU32(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func DecodeU32(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("%w: u32 needs 4 bytes, got %d", ErrMalformed, len(b))
	}
	return binary.LittleEndian.Uint32(b), nil
}

func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

func DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, fmt.Errorf("%w: bool needs 1 byte, got %d", ErrMalformed, len(b))
	}
	return b[0] != 0, nil
}

func DecodeString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrMalformed)
	}
	return string(b), nil
}
