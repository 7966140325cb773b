// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/crypto"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

const (
	// AuthenticationKeyLen is the length of an account's authentication key
	AuthenticationKeyLen = 32
)

var (
	ErrMalformedResource = errors.New("malformed account resource")
	ErrEncodeResource    = errors.New("couldn't encode account resource")

	errResourceWrongVersion = errors.New("wrong version")
)

// AuthenticationKey commits to the key allowed to sign for an account.
type AuthenticationKey [AuthenticationKeyLen]byte

// AuthenticationKeyFromPublicKey returns the authentication key of [pk]
func AuthenticationKeyFromPublicKey(pk crypto.PublicKey) AuthenticationKey {
	return hashing.ComputeHash256Array(pk.Bytes())
}

// AuthenticationKeyFromAddress returns the key given to accounts that are
// created without one: a zero prefix followed by the address.
func AuthenticationKeyFromAddress(addr ids.ShortID) AuthenticationKey {
	key := AuthenticationKey{}
	copy(key[AuthenticationKeyLen-len(addr):], addr[:])
	return key
}

func (k AuthenticationKey) String() string {
	s, err := formatting.EncodeWithChecksum(formatting.Hex, k[:])
	if err != nil {
		return fmt.Sprintf("%x", k[:])
	}
	return s
}

// MarshalJSON encodes the key as a checksummed hex string
func (k AuthenticationKey) MarshalJSON() ([]byte, error) {
	s, err := formatting.EncodeWithChecksum(formatting.Hex, k[:])
	if err != nil {
		return nil, err
	}
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON decodes a hex string produced by MarshalJSON
func (k *AuthenticationKey) UnmarshalJSON(b []byte) error {
	str := string(b)
	if str == "null" {
		return nil
	}
	if len(str) < 2 || str[0] != '"' || str[len(str)-1] != '"' {
		return fmt.Errorf("invalid authentication key %s", str)
	}
	raw, err := formatting.Decode(formatting.Hex, str[1:len(str)-1])
	if err != nil {
		return err
	}
	if len(raw) != AuthenticationKeyLen {
		return fmt.Errorf("authentication key must be %d bytes but is %d", AuthenticationKeyLen, len(raw))
	}
	copy(k[:], raw)
	return nil
}

// AccountResource is the ledger record of an address.
type AccountResource struct {
	Balance           uint64            `serialize:"true" json:"balance"`
	SequenceNumber    uint64            `serialize:"true" json:"sequenceNumber"`
	AuthenticationKey AuthenticationKey `serialize:"true" json:"authenticationKey"`
}

func NewAccountResource(balance, sequenceNumber uint64, authKey AuthenticationKey) *AccountResource {
	return &AccountResource{
		Balance:           balance,
		SequenceNumber:    sequenceNumber,
		AuthenticationKey: authKey,
	}
}

// Bytes returns the blob [r] is stored as
func (r *AccountResource) Bytes() ([]byte, error) {
	b, err := Codec.Marshal(CodecVersion, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodeResource, err)
	}
	return b, nil
}

// ParseAccountResource decodes a blob produced by Bytes. Any other layout is
// rejected with ErrMalformedResource.
func ParseAccountResource(b []byte) (*AccountResource, error) {
	r := &AccountResource{}
	parsedVersion, err := Codec.Unmarshal(b, r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResource, err)
	}
	if parsedVersion != CodecVersion {
		return nil, fmt.Errorf("%w: %s %d", ErrMalformedResource, errResourceWrongVersion, parsedVersion)
	}
	return r, nil
}

func (r *AccountResource) String() string {
	return fmt.Sprintf("{balance: %d, sequence_number: %d, authentication_key: %s}", r.Balance, r.SequenceNumber, r.AuthenticationKey)
}
