// Package errors provides structured error handling for the asset registry.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Lifecycle errors
	CodeAlreadyInitialized Code = "ALREADY_INITIALIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeTokenNotFound      Code = "TOKEN_NOT_FOUND"

	// Authorization errors
	CodeNotAuthorized Code = "NOT_AUTHORIZED"
	CodeNotApproved   Code = "NOT_APPROVED"
	CodePaused        Code = "PAUSED"

	// Mutation errors
	CodeSupplyLimitExceeded Code = "SUPPLY_LIMIT_EXCEEDED"
	CodeMetadataFrozen      Code = "METADATA_FROZEN"
	CodeReentrancyDetected  Code = "REENTRANCY_DETECTED"
	CodeBurnNotConfirmed    Code = "BURN_NOT_CONFIRMED"
	CodeBatchLengthMismatch Code = "BATCH_LENGTH_MISMATCH"
	CodeTransferRejected    Code = "TRANSFER_REJECTED"
	CodeInvalidRoyalty      Code = "INVALID_ROYALTY"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeBatchLengthMismatch,
		CodeInvalidRoyalty,
		CodeBurnNotConfirmed:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodePaused,
		CodeMetadataFrozen,
		CodeSupplyLimitExceeded,
		CodeTransferRejected:
		return codes.FailedPrecondition

	// NotFound - resource doesn't exist
	case CodeNotFound,
		CodeTokenNotFound:
		return codes.NotFound

	// PermissionDenied - caller lacks the required role or approval
	case CodeNotAuthorized,
		CodeNotApproved:
		return codes.PermissionDenied

	// AlreadyExists - unique resource constraint
	case CodeAlreadyInitialized:
		return codes.AlreadyExists

	// Aborted - nested critical section rejected
	case CodeReentrancyDetected:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
