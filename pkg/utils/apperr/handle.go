package apperr

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
)

// Handle logs an application error. Errors caused by a client going away
// are not failures of the service and are logged at debug level.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Debug("request cancelled", "error", err)
		return
	}
	logger.Error("application error", "error", err)
}
