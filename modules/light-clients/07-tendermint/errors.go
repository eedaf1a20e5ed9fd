package tendermint

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
)

// ModuleName is the tendermint light client name, also used as its error codespace.
const ModuleName = exported.Tendermint

// IBC tendermint client sentinel errors
var (
	ErrInvalidHeaderHeight      = errorsmod.Register(ModuleName, 5, "invalid header height")
	ErrInvalidValidatorSet      = errorsmod.Register(ModuleName, 14, "invalid validator set")
	ErrMissingField             = errorsmod.Register(ModuleName, 15, "missing field")
	ErrInvalidTimestamp         = errorsmod.Register(ModuleName, 16, "invalid timestamp")
	ErrInvalidHash              = errorsmod.Register(ModuleName, 17, "invalid hash")
	ErrInvalidRawConsensusState = errorsmod.Register(ModuleName, 18, "invalid raw consensus state")
)
