package tendermint

import (
	"bytes"
	"time"

	errorsmod "cosmossdk.io/errors"
	cmttypes "github.com/cometbft/cometbft/types"

	clienttypes "github.com/ComposableFi/ibc-go/v10/modules/core/02-client/types"
	commitmenttypes "github.com/ComposableFi/ibc-go/v10/modules/core/23-commitment/types"
	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
)

// Header defines the Tendermint client consensus Header.
// It encapsulates all the information necessary to update from a trusted
// Tendermint ConsensusState. The inclusion of TrustedHeight and
// TrustedValidators allows this update to process correctly, so long as the
// ConsensusState for the TrustedHeight exists, this removes race conditions
// among relayers. The SignedHeader and ValidatorSet are the new untrusted update
// fields for the client. The TrustedHeight is the height of a stored
// ConsensusState on the client that will be used to verify the new untrusted
// header. The Trusted ConsensusState must be within the unbonding period of
// current time in order to correctly verify, and the TrustedValidators must
// hash to TrustedConsensusState.NextValidatorsHash since that is the last
// trusted validator set at the TrustedHeight.
type Header struct {
	*cmttypes.SignedHeader

	ValidatorSet      *cmttypes.ValidatorSet
	TrustedHeight     clienttypes.Height
	TrustedValidators *cmttypes.ValidatorSet
}

// ConsensusStateFromBlockHeader projects a block header that has already been
// verified into the consensus state it commits to. The app hash becomes the
// root and the time and next validators hash are carried over unchanged.
// Nothing is validated: the header must carry a 32 byte next validators hash
// and a time within 0001-01-01 and 9999-12-31, which verified cometbft headers
// always do. Use NewConsensusState for headers from untrusted sources.
func ConsensusStateFromBlockHeader(header *cmttypes.Header) ConsensusState {
	return newConsensusState(
		header.Time,
		commitmenttypes.NewMerkleRoot(header.AppHash),
		header.NextValidatorsHash,
	)
}

// ConsensusState returns the updated consensus state associated with the header
func (h Header) ConsensusState() ConsensusState {
	return ConsensusStateFromBlockHeader(h.Header)
}

// ClientType defines that the Header is a Tendermint consensus algorithm
func (Header) ClientType() string {
	return exported.Tendermint
}

// GetHeight returns the current height. The revision number is parsed from
// the chain ID.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetHeight() exported.Height {
	revision := clienttypes.ParseChainID(h.Header.ChainID)
	return clienttypes.NewHeight(revision, uint64(h.Header.Height))
}

// GetTime returns the current block timestamp.
// NOTE: the header.Header is checked to be non nil in ValidateBasic.
func (h Header) GetTime() time.Time {
	return h.Header.Time
}

// ValidateBasic calls the SignedHeader ValidateBasic function and checks
// that validatorsets are not nil.
// NOTE: TrustedHeight and TrustedValidators may be empty when creating client
// with MsgCreateClient
func (h Header) ValidateBasic() error {
	if h.SignedHeader == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint signed header cannot be nil")
	}
	if h.Header == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "tendermint header cannot be nil")
	}

	// NOTE: SignedHeader ValidateBasic checks that the commit height equals
	// the header height, the commit block hash matches the header hash and
	// that the chain ID of the header matches.
	if err := h.SignedHeader.ValidateBasic(h.Header.ChainID); err != nil {
		return errorsmod.Wrap(err, "header failed basic validation")
	}

	// TrustedHeight is less than Header for updates and misbehaviour
	if h.TrustedHeight.GTE(h.GetHeight()) {
		return errorsmod.Wrapf(ErrInvalidHeaderHeight, "TrustedHeight %s must be less than header height %s",
			h.TrustedHeight, h.GetHeight())
	}

	if h.ValidatorSet == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "validator set is nil")
	}
	if err := h.ValidatorSet.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidValidatorSet, err.Error())
	}
	if !bytes.Equal(h.Header.ValidatorsHash, h.ValidatorSet.Hash()) {
		return errorsmod.Wrap(ErrInvalidValidatorSet, "validator set does not match hash")
	}
	return nil
}
