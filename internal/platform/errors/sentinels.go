package errors

// Canonical instances for each registry error code. Engines return these
// directly; callers match with errors.Is, which compares by code.
var (
	ErrAlreadyInitialized  = New(CodeAlreadyInitialized, "collection is already initialized")
	ErrNotFound            = New(CodeNotFound, "record not found")
	ErrTokenNotFound       = New(CodeTokenNotFound, "token not found")
	ErrNotAuthorized       = New(CodeNotAuthorized, "caller is not authorized")
	ErrNotApproved         = New(CodeNotApproved, "caller is not approved to transfer")
	ErrPaused              = New(CodePaused, "registry is paused")
	ErrSupplyLimitExceeded = New(CodeSupplyLimitExceeded, "max supply reached")
	ErrMetadataFrozen      = New(CodeMetadataFrozen, "metadata is frozen")
	ErrReentrancyDetected  = New(CodeReentrancyDetected, "reentrant call detected")
	ErrBurnNotConfirmed    = New(CodeBurnNotConfirmed, "burn requires explicit confirmation")
	ErrBatchLengthMismatch = New(CodeBatchLengthMismatch, "batch inputs must have matching lengths")
	ErrTransferRejected    = New(CodeTransferRejected, "receiver rejected the transfer")
	ErrInvalidRoyalty      = New(CodeInvalidRoyalty, "royalty basis points exceed 10000")
)
