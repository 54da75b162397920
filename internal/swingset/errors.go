package swingset

import errorsmod "cosmossdk.io/errors"

// ModuleName is the codespace for swingset message validation errors.
const ModuleName = "swingset"

var (
	ErrNoEvals        = errorsmod.Register(ModuleName, 2, "core eval proposal has no evals")
	ErrIncompleteEval = errorsmod.Register(ModuleName, 3, "core eval entry is incomplete")
	ErrEmptyBundle    = errorsmod.Register(ModuleName, 4, "bundle payload is empty")
	ErrInvalidSize    = errorsmod.Register(ModuleName, 5, "uncompressed bundle size must be positive")
)
