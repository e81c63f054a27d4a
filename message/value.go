// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package message

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Value is an opaque proposal value. The empty value stands for nil.
type Value []byte

// IsNil returns whether the value is the nil value.
func (v Value) IsNil() bool {
	return len(v) == 0
}

// Equal reports whether two values are byte-for-byte equal.
func (v Value) Equal(other Value) bool {
	return bytes.Equal(v, other)
}

// Clone returns a copy of the value.
func (v Value) Clone() Value {
	if v == nil {
		return nil
	}
	return append(Value{}, v...)
}

// String returns abbrev hex of the value, or "nil".
func (v Value) String() string {
	if v.IsNil() {
		return "nil"
	}
	if len(v) <= 8 {
		return "0x" + hex.EncodeToString(v)
	}
	return fmt.Sprintf("0x%x…%x", []byte(v[:4]), []byte(v[len(v)-4:]))
}

// Key returns the value as a comparable map key.
func (v Value) Key() string {
	return string(v)
}

// ValueHash computes blake2b-256 checksum of the value.
func ValueHash(v []byte) [32]byte {
	return blake2b.Sum256(v)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(`"0x` + hex.EncodeToString(v) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid value %s", data)
	}
	s := bytes.TrimPrefix(data[1:len(data)-1], []byte("0x"))
	if len(s) == 0 {
		*v = nil
		return nil
	}
	b := make([]byte, hex.DecodedLen(len(s)))
	if _, err := hex.Decode(b, s); err != nil {
		return err
	}
	*v = b
	return nil
}
