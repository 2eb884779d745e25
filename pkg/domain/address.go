package domain

import (
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"

	dErrors "secreg/pkg/domain-errors"
)

const addressHexLen = 40

// Address identifies a principal or delegate account: 20 bytes, written as 0x + 40 hex.
// The zero value is the zero address. Addresses are stored in lowercase canonical form
// so equality is case-insensitive on input.
type Address struct {
	raw [20]byte
}

// ZeroAddress is the mint origin used in transfer events.
var ZeroAddress = Address{}

// ParseAddress validates a 0x-prefixed hex account identifier.
// Mixed-case input is accepted without checksum verification.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address is required")
	}
	body, ok := strings.CutPrefix(s, "0x")
	if !ok {
		body, ok = strings.CutPrefix(s, "0X")
	}
	if !ok {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address must start with 0x")
	}
	if len(body) != addressHexLen {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address must be 40 hex characters")
	}
	var a Address
	if _, err := hex.Decode(a.raw[:], []byte(body)); err != nil {
		return Address{}, dErrors.New(dErrors.CodeValidation, "address must be hexadecimal")
	}
	return a, nil
}

// MustParseAddress panics on invalid input. Intended for tests and fixtures.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the lowercase canonical form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a.raw[:])
}

// Checksum returns the EIP-55 mixed-case form.
func (a Address) Checksum() string {
	lower := hex.EncodeToString(a.raw[:])

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lower))
	digest := h.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		} else {
			nibble &= 0x0f
		}
		if nibble >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value stores the canonical lowercase form.
func (a Address) Value() (driver.Value, error) {
	return a.String(), nil
}

func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Address", src)
	}
}
