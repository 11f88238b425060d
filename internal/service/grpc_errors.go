package service

import (
	"errors"

	"github.com/signalsfoundry/wlan-contention/core"
	"github.com/signalsfoundry/wlan-contention/scenario"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatusError maps model and scenario errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, core.ErrInvalidConfiguration),
		errors.Is(err, scenario.ErrInvalidScenario):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, core.ErrNumericDegenerate):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
