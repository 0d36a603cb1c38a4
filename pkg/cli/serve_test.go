package cli

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/riskhub/pkg/utils/logging"
)

func TestRunServer(t *testing.T) {
	t.Run("listener failure is returned and logged", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		gt.NoError(t, err).Required()
		defer ln.Close()

		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

		// The address is already taken, so ListenAndServe fails immediately
		server := &http.Server{Addr: ln.Addr().String(), ReadHeaderTimeout: time.Second}
		err = runServer(ctx, server, make(chan os.Signal))
		gt.Value(t, err).NotNil()
		gt.String(t, buf.String()).Contains("HTTP server stopped")
	})

	t.Run("signal shuts the server down", func(t *testing.T) {
		server := &http.Server{Addr: "127.0.0.1:0", ReadHeaderTimeout: time.Second}
		sigCh := make(chan os.Signal, 1)
		sigCh <- syscall.SIGTERM

		gt.NoError(t, runServer(context.Background(), server, sigCh))
	})
}
