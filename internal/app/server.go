package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// Run listens on the configured address and serves until ctx is done.
func (a *App) Run(ctx context.Context, grace time.Duration) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", a.httpServer.Addr)
	if err != nil {
		return errors.Join(fmt.Errorf("listen %s: %w", a.httpServer.Addr, err), a.release(context.WithoutCancel(ctx)))
	}

	return a.Serve(ctx, ln, grace)
}

// Serve handles requests on ln until ctx is done or the server fails. It then
// drains in-flight requests for at most grace and releases every resource.
func (a *App) Serve(ctx context.Context, ln net.Listener, grace time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.InfoContext(ctx, "http server listening", "address", ln.Addr().String())
		if err := a.httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
		defer cancel()

		return a.shutdown(stopCtx)
	})

	return g.Wait()
}

func (a *App) shutdown(ctx context.Context) error {
	slog.InfoContext(ctx, "shutting down", "resources", len(a.resources))

	var errs []error
	if err := a.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close http server: %w", err))
	}

	return errors.Join(append(errs, a.release(ctx))...)
}
