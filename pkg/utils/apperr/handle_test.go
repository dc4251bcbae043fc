package apperr_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/medpredict/pkg/utils/apperr"
)

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := ctxlog.With(context.Background(), logger)

	apperr.Handle(ctx, nil)
	gt.Equal(t, buf.Len(), 0)

	apperr.Handle(ctx, goerr.Wrap(context.Canceled, "viewer left"))
	gt.Equal(t, buf.Len(), 0)

	apperr.Handle(ctx, goerr.New("failed to export report"))
	gt.S(t, buf.String()).Contains(`"level":"ERROR"`)
	gt.S(t, buf.String()).Contains("failed to export report")
}
