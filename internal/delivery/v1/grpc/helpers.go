package grpc

import (
	"errors"

	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	if v, ok := e.AsValidation(err); ok {
		return status.Error(codes.InvalidArgument, v.Error())
	}

	switch {
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, e.ErrConflict):
		return status.Error(codes.FailedPrecondition, e.ErrConflict.Error())
	case errors.Is(err, e.ErrEmptyRegistry):
		return status.Error(codes.FailedPrecondition, e.ErrEmptyRegistry.Error())
	case errors.Is(err, e.ErrUpstream):
		return status.Error(codes.Unavailable, e.ErrInternalServerError.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
