package safe_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
	"github.com/secmon-lab/riskhub/pkg/utils/safe"
)

type closer struct {
	err    error
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func newLogCtx() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return logging.With(context.Background(), logger), &buf
}

func TestClose(t *testing.T) {
	t.Run("logs close failure", func(t *testing.T) {
		ctx, buf := newLogCtx()
		c := &closer{err: errors.New("connection reset")}

		safe.Close(ctx, c)
		gt.Bool(t, c.closed).True()
		gt.String(t, buf.String()).Contains("connection reset")
	})

	t.Run("successful close logs nothing", func(t *testing.T) {
		ctx, buf := newLogCtx()
		c := &closer{}

		safe.Close(ctx, c)
		gt.Bool(t, c.closed).True()
		gt.Value(t, buf.Len()).Equal(0)
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		ctx, buf := newLogCtx()
		safe.Close(ctx, nil)
		gt.Value(t, buf.Len()).Equal(0)
	})
}

func TestWrite(t *testing.T) {
	ctx, buf := newLogCtx()
	safe.Write(ctx, failingWriter{}, []byte("payload"))
	gt.String(t, buf.String()).Contains("disk full")

	var out bytes.Buffer
	safe.Write(ctx, &out, []byte("payload"))
	gt.String(t, out.String()).Equal("payload")
}
