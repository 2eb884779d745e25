package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "secreg/pkg/domain-errors"
)

// TestParseAddress_Invariants validates the parsing invariant:
// "addresses are 0x followed by exactly 40 hex characters"
func TestParseAddress_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", true},
		{"missing prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"too short", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1bea", true},
		{"too long", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed00", true},
		{"non hex", "0xzzaeb6053f3e94c9b9a09f33669435e7ef1beaed", true},
		{"SQL injection attempt", "0x'; DROP TABLE companies;--", true},
		{"oversized input", "0x" + strings.Repeat("a", 1000), true},
		{"lowercase", "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", false},
		{"checksummed", "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", false},
		{"upper prefix", "0X5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestAddress_CaseInsensitiveEquality(t *testing.T) {
	a := MustParseAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	b := MustParseAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

	assert.Equal(t, a, b)
	assert.Equal(t, "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", a.String())
}

func TestAddress_Checksum(t *testing.T) {
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
		"0x52908400098527886E0F7030069857D2E4169EE7",
		"0x8617E340B3D01FA5F11F306F4090FD50E238070D",
		"0xde709f2102306220921060314715629080e2fb77",
		"0x27b1fdb04752bbc536007a920d24acb045561c26",
	}
	for _, v := range vectors {
		t.Run(v, func(t *testing.T) {
			a := MustParseAddress(strings.ToLower(v))
			assert.Equal(t, v, a.Checksum())
		})
	}
}

func TestAddress_ZeroValue(t *testing.T) {
	var a Address
	assert.True(t, a.IsZero())
	assert.Equal(t, "0x0000000000000000000000000000000000000000", ZeroAddress.String())
	assert.False(t, MustParseAddress("0xde709f2102306220921060314715629080e2fb77").IsZero())
}

func TestAddress_JSON(t *testing.T) {
	type doc struct {
		Owner Address `json:"owner"`
	}

	var d doc
	require.NoError(t, json.Unmarshal([]byte(`{"owner":"0xDE709F2102306220921060314715629080E2FB77"}`), &d))
	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"0xde709f2102306220921060314715629080e2fb77"}`, string(out))

	err = json.Unmarshal([]byte(`{"owner":"nope"}`), &d)
	require.Error(t, err)
}

func TestParseSequenceIDs(t *testing.T) {
	t.Run("accepts zero", func(t *testing.T) {
		id, err := ParseTaskID("0")
		require.NoError(t, err)
		assert.Equal(t, TaskID(0), id)
	})

	t.Run("accepts positive", func(t *testing.T) {
		id, err := ParseRegisterID("42")
		require.NoError(t, err)
		assert.Equal(t, RegisterID(42), id)
	})

	for _, input := range []string{"", "-1", "+1", " 1", "0x10", "1.5", "abc", "99999999999999999999999"} {
		t.Run("rejects "+input, func(t *testing.T) {
			_, err := ParseTokenID(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}

	t.Run("token id mirrors task id", func(t *testing.T) {
		assert.Equal(t, TokenID(7), TokenFor(TaskID(7)))
		assert.Equal(t, TaskID(7), TokenID(7).Task())
	})
}
