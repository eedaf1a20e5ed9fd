package tendermint

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	gogotypes "github.com/cosmos/gogoproto/types"
	"google.golang.org/protobuf/encoding/protowire"

	ibcerrors "github.com/ComposableFi/ibc-go/v10/internal/errors"
	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
)

// Field numbers of ibc.lightclients.tendermint.v1.ConsensusState.
const (
	fieldTimestamp          protowire.Number = 1
	fieldRoot               protowire.Number = 2
	fieldNextValidatorsHash protowire.Number = 3
)

// RawConsensusState is the protobuf wire form of
// ibc.lightclients.tendermint.v1.ConsensusState:
//
//	message ConsensusState {
//	  google.protobuf.Timestamp timestamp = 1;
//	  ibc.core.commitment.v1.MerkleRoot root = 2;
//	  bytes next_validators_hash = 3;
//	}
//
// Any field may be absent on the wire. ConsensusStateFromRaw decides whether
// the message describes a valid ConsensusState.
type RawConsensusState struct {
	Timestamp          *gogotypes.Timestamp
	Root               *commitmenttypes.MerkleRoot
	NextValidatorsHash []byte
}

// Size returns the length of the protobuf encoding of m.
func (m *RawConsensusState) Size() (n int) {
	if m.Timestamp != nil {
		n += protowire.SizeTag(fieldTimestamp) + protowire.SizeBytes(m.Timestamp.Size())
	}
	if m.Root != nil {
		n += protowire.SizeTag(fieldRoot) + protowire.SizeBytes(m.Root.Size())
	}
	if len(m.NextValidatorsHash) > 0 {
		n += protowire.SizeTag(fieldNextValidatorsHash) + protowire.SizeBytes(len(m.NextValidatorsHash))
	}
	return n
}

// Marshal encodes m with fields in ascending field number order. Message
// fields are written whenever they are set, even if empty, so that their
// presence survives a round trip.
func (m *RawConsensusState) Marshal() ([]byte, error) {
	bz := make([]byte, 0, m.Size())

	if m.Timestamp != nil {
		tsBz, err := m.Timestamp.Marshal()
		if err != nil {
			return nil, err
		}
		bz = protowire.AppendTag(bz, fieldTimestamp, protowire.BytesType)
		bz = protowire.AppendBytes(bz, tsBz)
	}
	if m.Root != nil {
		bz = protowire.AppendTag(bz, fieldRoot, protowire.BytesType)
		bz = protowire.AppendBytes(bz, m.Root.Marshal())
	}
	if len(m.NextValidatorsHash) > 0 {
		bz = protowire.AppendTag(bz, fieldNextValidatorsHash, protowire.BytesType)
		bz = protowire.AppendBytes(bz, m.NextValidatorsHash)
	}

	return bz, nil
}

// Unmarshal decodes bz into m following protobuf merge semantics: repeated
// message fields are merged, a repeated bytes field keeps its last value and
// unknown fields are skipped.
func (m *RawConsensusState) Unmarshal(bz []byte) error {
	for len(bz) > 0 {
		num, typ, n := protowire.ConsumeTag(bz)
		if n < 0 {
			return errorsmod.Wrap(ErrInvalidRawConsensusState, protowire.ParseError(n).Error())
		}
		bz = bz[n:]

		switch num {
		case fieldTimestamp, fieldRoot, fieldNextValidatorsHash:
			if typ != protowire.BytesType {
				return errorsmod.Wrapf(ErrInvalidRawConsensusState, "wrong wire type %d for field %d", typ, num)
			}
			v, n := protowire.ConsumeBytes(bz)
			if n < 0 {
				return errorsmod.Wrapf(ErrInvalidRawConsensusState, "field %d: %s", num, protowire.ParseError(n))
			}
			bz = bz[n:]

			if err := m.setField(num, v); err != nil {
				return err
			}
		default:
			n := protowire.ConsumeFieldValue(num, typ, bz)
			if n < 0 {
				return errorsmod.Wrapf(ErrInvalidRawConsensusState, "field %d: %s", num, protowire.ParseError(n))
			}
			bz = bz[n:]
		}
	}

	return nil
}

func (m *RawConsensusState) setField(num protowire.Number, v []byte) error {
	switch num {
	case fieldTimestamp:
		if m.Timestamp == nil {
			m.Timestamp = &gogotypes.Timestamp{}
		}
		if err := m.Timestamp.Unmarshal(v); err != nil {
			return errorsmod.Wrapf(ErrInvalidRawConsensusState, "timestamp: %s", err)
		}
	case fieldRoot:
		if m.Root == nil {
			m.Root = &commitmenttypes.MerkleRoot{}
		}
		if err := m.Root.Unmarshal(v); err != nil {
			return errorsmod.Wrap(ErrInvalidRawConsensusState, err.Error())
		}
	case fieldNextValidatorsHash:
		m.NextValidatorsHash = append([]byte{}, v...)
	}
	return nil
}

// String implements fmt.Stringer.
func (m *RawConsensusState) String() string {
	return fmt.Sprintf("RawConsensusState{Timestamp: %v, Root: %v, NextValidatorsHash: %X}", m.Timestamp, m.Root, m.NextValidatorsHash)
}

// ToRaw converts the consensus state into its wire form. The timestamp goes
// through Timestamp rather than straight to the protobuf type.
func (cs ConsensusState) ToRaw() *RawConsensusState {
	root := cs.Root()
	return &RawConsensusState{
		Timestamp:          NewTimestampFromTime(cs.timestamp).ToProto(),
		Root:               &root,
		NextValidatorsHash: cs.NextValidatorsHash(),
	}
}

// ConsensusStateFromRaw validates raw and converts it into a ConsensusState.
// The checks run in a fixed order and the first failure is returned:
// timestamp presence, timestamp range, root presence, next validators hash.
// An empty root hash is accepted.
func ConsensusStateFromRaw(raw *RawConsensusState) (ConsensusState, error) {
	if raw.Timestamp == nil {
		return ConsensusState{}, errorsmod.Wrap(ErrMissingField, "timestamp")
	}
	timestamp, err := NewTimestampFromProto(raw.Timestamp).Time()
	if err != nil {
		return ConsensusState{}, err
	}

	if raw.Root == nil {
		return ConsensusState{}, errorsmod.Wrap(ErrMissingField, "commitment_root")
	}

	if err := validateNextValidatorsHash(raw.NextValidatorsHash); err != nil {
		return ConsensusState{}, err
	}

	return newConsensusState(timestamp, *raw.Root, raw.NextValidatorsHash), nil
}

// MarshalConsensusState returns the protobuf encoding of cs. Equal consensus
// states always produce identical bytes.
func MarshalConsensusState(cs ConsensusState) []byte {
	bz, err := cs.ToRaw().Marshal()
	if err != nil {
		// a gogoproto Timestamp always fits the buffer sized by Size
		panic(errorsmod.Wrap(ibcerrors.ErrLogic, err.Error()))
	}
	return bz
}

// UnmarshalConsensusState decodes bytes produced by MarshalConsensusState, or
// by any other implementation of the same protobuf message.
func UnmarshalConsensusState(bz []byte) (ConsensusState, error) {
	var raw RawConsensusState
	if err := raw.Unmarshal(bz); err != nil {
		return ConsensusState{}, err
	}
	return ConsensusStateFromRaw(&raw)
}
