// Package logging builds the slog loggers used across the service and
// carries per-request loggers through context.
//
//	logger := logging.NewLogger()
//	ctx = logging.WithLogger(ctx, logging.WithRequestID(ctx, logger))
//	logging.FromContext(ctx).Info("incident list served")
package logging
