package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := Wrap(CodeTokenNotFound, "token 42 not found", fmt.Errorf("key missing"))

	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected error to match ErrTokenNotFound")
	}
	if errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected error not to match ErrNotAuthorized")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(CodeUnknown, "wrapper", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("expected unwrap chain to reach cause")
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	tests := []struct {
		code Code
		want codes.Code
	}{
		{CodeBatchLengthMismatch, codes.InvalidArgument},
		{CodeInvalidRoyalty, codes.InvalidArgument},
		{CodeBurnNotConfirmed, codes.InvalidArgument},
		{CodePaused, codes.FailedPrecondition},
		{CodeMetadataFrozen, codes.FailedPrecondition},
		{CodeSupplyLimitExceeded, codes.FailedPrecondition},
		{CodeTransferRejected, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeTokenNotFound, codes.NotFound},
		{CodeNotAuthorized, codes.PermissionDenied},
		{CodeNotApproved, codes.PermissionDenied},
		{CodeAlreadyInitialized, codes.AlreadyExists},
		{CodeReentrancyDetected, codes.Aborted},
		{CodeUnknown, codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.GRPCCode(); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToGRPCStatusAttachesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeNotAuthorized, "minter role required", map[string]string{
		"caller": "holder-a",
	})

	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatalf("expected a gRPC status error")
	}
	if st.Code() != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", st.Code())
	}
	if st.Message() != "minter role required" {
		t.Fatalf("unexpected status message %q", st.Message())
	}
	if len(st.Details()) != 1 {
		t.Fatalf("expected one detail, got %d", len(st.Details()))
	}
}
