package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/certledger/internal/model"
)

func handleError(err error) error {
	if _, ok := err.(interface{ GRPCStatus() *status.Status }); ok {
		return err
	}

	switch {
	case errors.Is(err, model.ErrIncompleteIssuance):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, model.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrAlreadyExists), errors.Is(err, model.ErrAlreadyEnrolled):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, model.ErrNotEnrolled), errors.Is(err, model.ErrInvalidReference):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
