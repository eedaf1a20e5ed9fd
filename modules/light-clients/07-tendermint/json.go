package tendermint

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	cmtjson "github.com/cometbft/cometbft/libs/json"

	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
)

// consensusStateJSON is the JSON layout of a ConsensusState. Field names
// follow the protobuf message.
type consensusStateJSON struct {
	Timestamp          *time.Time                  `json:"timestamp"`
	Root               *commitmenttypes.MerkleRoot `json:"root"`
	NextValidatorsHash cmtbytes.HexBytes           `json:"next_validators_hash"`
}

// MarshalJSON implements json.Marshaler. The root hash is base64 encoded and
// the next validators hash is hex encoded.
func (cs ConsensusState) MarshalJSON() ([]byte, error) {
	timestamp := cs.Timestamp()
	root := cs.Root()
	return cmtjson.Marshal(consensusStateJSON{
		Timestamp:          &timestamp,
		Root:               &root,
		NextValidatorsHash: cs.NextValidatorsHash(),
	})
}

// ConsensusStateFromJSON parses the output of MarshalJSON. Missing fields and
// malformed values are rejected with the same errors as the protobuf decoder.
func ConsensusStateFromJSON(bz []byte) (ConsensusState, error) {
	var v consensusStateJSON
	if err := cmtjson.Unmarshal(bz, &v); err != nil {
		return ConsensusState{}, errorsmod.Wrap(ErrInvalidRawConsensusState, err.Error())
	}

	if v.Timestamp == nil {
		return ConsensusState{}, errorsmod.Wrap(ErrMissingField, "timestamp")
	}
	if v.Root == nil {
		return ConsensusState{}, errorsmod.Wrap(ErrMissingField, "commitment_root")
	}

	return NewConsensusState(*v.Timestamp, *v.Root, v.NextValidatorsHash)
}
