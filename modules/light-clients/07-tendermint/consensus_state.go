package tendermint

import (
	"bytes"
	"fmt"
	"math"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cometbft/cometbft/crypto/tmhash"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmttime "github.com/cometbft/cometbft/types/time"

	clienttypes "github.com/ComposableFi/ibc-go/v10/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
)

// SentinelRoot is used as a stand-in root value for the consensus state set at the upgrade height
const SentinelRoot = "sentinel_root"

var _ exported.ConsensusState = ConsensusState{}

// ConsensusState defines the consensus state from Tendermint: the block time,
// the app hash committed by the header and the hash of the validator set
// expected to sign the next header.
//
// A ConsensusState is immutable. Every accessor returns a copy and a new
// state is always a new value.
type ConsensusState struct {
	timestamp          time.Time
	root               commitmenttypes.MerkleRoot
	nextValidatorsHash cmtbytes.HexBytes
}

// NewConsensusState creates a new ConsensusState instance. The timestamp must
// be representable as a protobuf Timestamp and the next validators hash must
// be a SHA-256 digest.
func NewConsensusState(
	timestamp time.Time, root commitmenttypes.MerkleRoot, nextValsHash cmtbytes.HexBytes,
) (ConsensusState, error) {
	if err := NewTimestampFromTime(timestamp).Validate(); err != nil {
		return ConsensusState{}, err
	}
	if err := validateNextValidatorsHash(nextValsHash); err != nil {
		return ConsensusState{}, err
	}

	return newConsensusState(timestamp, root, nextValsHash), nil
}

// newConsensusState builds a ConsensusState from already validated values.
func newConsensusState(timestamp time.Time, root commitmenttypes.MerkleRoot, nextValsHash []byte) ConsensusState {
	return ConsensusState{
		timestamp:          cmttime.Canonical(timestamp),
		root:               commitmenttypes.NewMerkleRoot(cloneBytes(root.GetHash())),
		nextValidatorsHash: cloneBytes(nextValsHash),
	}
}

// ClientType returns Tendermint
func (ConsensusState) ClientType() string {
	return exported.Tendermint
}

// GetRoot returns the commitment Root for the specific
func (cs ConsensusState) GetRoot() exported.Root {
	return cs.Root()
}

// Root returns a copy of the commitment root.
func (cs ConsensusState) Root() commitmenttypes.MerkleRoot {
	return commitmenttypes.NewMerkleRoot(cloneBytes(cs.root.GetHash()))
}

// GetTimestamp returns block time in nanoseconds since the unix epoch of the
// header that created consensus state. Times before the unix epoch return 0
// and times after 2554-07-21T23:34:33.709551615Z, the largest instant a uint64
// of nanoseconds can hold, return math.MaxUint64.
func (cs ConsensusState) GetTimestamp() uint64 {
	seconds := cs.timestamp.Unix()
	if seconds < 0 {
		return 0
	}

	nanos := uint64(cs.timestamp.Nanosecond())
	if uint64(seconds) > (math.MaxUint64-nanos)/uint64(time.Second) {
		return math.MaxUint64
	}
	return uint64(seconds)*uint64(time.Second) + nanos
}

// Timestamp returns the block time of the header that created consensus state.
func (cs ConsensusState) Timestamp() time.Time {
	return cs.timestamp
}

// NextValidatorsHash returns a copy of the next validator set hash.
func (cs ConsensusState) NextValidatorsHash() cmtbytes.HexBytes {
	return cloneBytes(cs.nextValidatorsHash)
}

// Equal returns true if both consensus states carry the same timestamp, root
// and next validators hash.
func (cs ConsensusState) Equal(other ConsensusState) bool {
	return cs.timestamp.Equal(other.timestamp) &&
		cs.root.Equal(other.root) &&
		bytes.Equal(cs.nextValidatorsHash, other.nextValidatorsHash)
}

// String implements fmt.Stringer.
func (cs ConsensusState) String() string {
	return fmt.Sprintf(
		"ConsensusState{Timestamp: %s, Root: %s, NextValidatorsHash: %s}",
		cs.timestamp.Format(time.RFC3339Nano), cs.root, cs.nextValidatorsHash,
	)
}

// ValidateBasic defines a basic validation for the tendermint consensus state.
// Decoding already guarantees a well formed hash and timestamp; this also
// rejects empty roots and timestamps at or before the unix epoch.
func (cs ConsensusState) ValidateBasic() error {
	if cs.root.Empty() {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "root cannot be empty")
	}
	if err := validateNextValidatorsHash(cs.nextValidatorsHash); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, err.Error())
	}
	if cs.timestamp.Unix() <= 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp must be a positive Unix time")
	}
	return nil
}

// validateNextValidatorsHash checks that hash is a SHA-256 digest.
func validateNextValidatorsHash(hash []byte) error {
	if len(hash) != tmhash.Size {
		return errorsmod.Wrapf(ErrInvalidHash, "expected %d byte sha256 digest, got %d bytes", tmhash.Size, len(hash))
	}
	return nil
}

func cloneBytes(bz []byte) []byte {
	if len(bz) == 0 {
		return nil
	}
	return append([]byte(nil), bz...)
}
