package types

import (
	errorsmod "cosmossdk.io/errors"
)

// SubModuleName defines the IBC client name
const SubModuleName string = "client"

// IBC client sentinel errors
var (
	ErrConsensusStateNotFound = errorsmod.Register(SubModuleName, 2, "consensus state not found")
	ErrInvalidConsensus       = errorsmod.Register(SubModuleName, 3, "invalid consensus state")
	ErrInvalidHeader          = errorsmod.Register(SubModuleName, 4, "invalid client header")
	ErrInvalidHeight          = errorsmod.Register(SubModuleName, 5, "invalid height")
)
