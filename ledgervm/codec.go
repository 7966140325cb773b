// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const (
	// CodecVersion is the current default codec version
	CodecVersion = 0
)

// Codecs do serialization and deserialization
var (
	Codec codec.Manager
)

func init() {
	c := linearcodec.NewDefault()
	Codec = codec.NewDefaultManager()

	errs := wrappers.Errs{}

	// Type IDs are part of the wire format; only ever append here.
	errs.Add(
		c.RegisterType(&SignedUserTransaction{}),
		c.RegisterType(&BlockMetadata{}),
		c.RegisterType(&StateSet{}),
		c.RegisterType(&Script{}),
		c.RegisterType(&Module{}),
		c.RegisterType(&U64Argument{}),
		c.RegisterType(&AddressArgument{}),
		c.RegisterType(&ByteArrayArgument{}),
		c.RegisterType(&StringArgument{}),
	)

	errs.Add(
		Codec.RegisterCodec(CodecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}
