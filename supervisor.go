package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

func newSupervisor() *suture.Supervisor {
	return suture.New("wmclient", suture.Spec{
		EventHook: eventHook(),
	})
}

func eventHook() suture.EventHook {
	return func(ei suture.Event) {
		switch e := ei.(type) {
		case suture.EventStopTimeout:
			slog.Info("service failed to terminate in a timely manner", "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventServicePanic:
			slog.Warn("caught a service panic", "panic", e.PanicMsg, "service", e.ServiceName)
			slog.Debug(e.Stacktrace)
		case suture.EventServiceTerminate:
			slog.Error("service failed", "error", e.Err, "supervisor", e.SupervisorName, "service", e.ServiceName)
		case suture.EventBackoff:
			slog.Debug("too many service failures, entering the backoff state", "supervisor", e.SupervisorName)
		case suture.EventResume:
			slog.Debug("exiting backoff state", "supervisor", e.SupervisorName)
		default:
			slog.Warn("unknown supervisor event", "type", int(e.Type()))
		}
	}
}

// sanitize keeps suture from mistaking a service's own context errors for
// the supervisor shutting down, which would stop the service for good.
func sanitize(ctx context.Context, err error) error {
	if err == nil || ctx.Err() != nil {
		return err
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, suture.ErrTerminateSupervisorTree) {
		return errors.Join(suture.ErrTerminateSupervisorTree, errors.New(err.Error()))
	}
	return errors.New(err.Error())
}
