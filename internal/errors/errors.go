package errors

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/ComposableFi/ibc-go/v10/modules/core/exported"
)

const codespace = exported.ModuleName

var (
	// ErrInvalidRequest defines an error when a request, such as command
	// line input, is malformed.
	ErrInvalidRequest = errorsmod.Register(codespace, 18, "invalid request")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = errorsmod.Register(codespace, 35, "internal logic error")
)
