package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	apphttp "cashbook/internal/http"
	"cashbook/internal/log"
)

type ServeCmd struct {
	Port string `help:"Port to listen on (overrides PORT)." short:"p"`
}

func (cmd *ServeCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := Open(runCtx, globals, ctx.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	port := rt.Config.Port
	if cmd.Port != "" {
		port = cmd.Port
	}

	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", port, err)
	}
	return serve(runCtx, rt, ln, ctx.Stdout)
}

// serve runs the API on ln until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, rt *Runtime, ln net.Listener, out io.Writer) error {
	logger := rt.Logger.WithComponent(log.ComponentHTTP)
	srv := apphttp.NewServer(ln.Addr().String(), rt.Service, rt.Money,
		apphttp.WithLogger(rt.Logger),
		apphttp.WithReadiness(rt.Ping),
	)

	printInfof(out, "Serving %d entries on http://%s (%s backend)", rt.Service.Len(), ln.Addr(), rt.Config.DataBackend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting cashbook server", "addr", ln.Addr().String(), log.FieldBackend, rt.Config.DataBackend, "version", Version, "commit", CommitSHA)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
