package rpc

import (
	"github.com/fekuna/omnipos-community-store/internal/apperr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps an engine error to its gRPC status code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case apperr.IsValidation(err):
		return codes.InvalidArgument
	case apperr.IsNotFound(err):
		return codes.NotFound
	case apperr.IsDuplicate(err):
		return codes.AlreadyExists
	case apperr.IsRuleViolation(err):
		return codes.FailedPrecondition
	case apperr.IsRetryable(err):
		return codes.Aborted
	default:
		return codes.Internal
	}
}

// ToStatus converts err to a gRPC status error. Internal errors hide their
// detail from the caller.
func ToStatus(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}
