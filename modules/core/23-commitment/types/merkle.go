package types

import (
	"bytes"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
)

var _ exported.Root = (*MerkleRoot)(nil)

// MerkleRoot defines a merkle root hash.
// In the Cosmos SDK, the AppHash of a block header becomes the root.
type MerkleRoot struct {
	Hash []byte `json:"hash,omitempty"`
}

// NewMerkleRoot constructs a new MerkleRoot
func NewMerkleRoot(hash []byte) MerkleRoot {
	return MerkleRoot{
		Hash: hash,
	}
}

// GetHash implements RootI interface
func (mr MerkleRoot) GetHash() []byte {
	return mr.Hash
}

// Empty returns true if the root is empty
func (mr MerkleRoot) Empty() bool {
	return len(mr.GetHash()) == 0
}

// Equal reports whether both roots commit to the same hash.
func (mr MerkleRoot) Equal(other MerkleRoot) bool {
	return bytes.Equal(mr.Hash, other.Hash)
}

// String returns the hex encoded root hash.
func (mr MerkleRoot) String() string {
	return fmt.Sprintf("%X", mr.Hash)
}

// Size returns the length of the protobuf encoding of the root.
func (mr MerkleRoot) Size() int {
	if len(mr.Hash) == 0 {
		return 0
	}
	return protowire.SizeTag(1) + protowire.SizeBytes(len(mr.Hash))
}

// Marshal returns the protobuf encoding of ibc.core.commitment.v1.MerkleRoot.
func (mr MerkleRoot) Marshal() []byte {
	return mr.AppendMarshal(make([]byte, 0, mr.Size()))
}

// AppendMarshal appends the protobuf encoding of the root to b.
func (mr MerkleRoot) AppendMarshal(b []byte) []byte {
	if len(mr.Hash) == 0 {
		return b
	}
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	return protowire.AppendBytes(b, mr.Hash)
}

// Unmarshal decodes a protobuf encoded MerkleRoot into mr. Fields present in
// bz overwrite the current values and unknown fields are skipped.
func (mr *MerkleRoot) Unmarshal(bz []byte) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return fmt.Errorf("merkle root: %w", protowire.ParseError(n))
		}
		bz = bz[n:]

		if num == 1 {
			if typ != protowire.BytesType {
				return fmt.Errorf("merkle root: wrong wire type %d for field hash", typ)
			}
			v, n := protowire.ConsumeBytes(bz)
			if n < 0 {
				return fmt.Errorf("merkle root: %w", protowire.ParseError(n))
			}
			mr.Hash = append([]byte{}, v...)
			bz = bz[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, bz)
		if n < 0 {
			return fmt.Errorf("merkle root: %w", protowire.ParseError(n))
		}
		bz = bz[n:]
	}

	return nil
}
