package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"themekit/internal/server"
	"themekit/internal/validator"
)

func (a *app) serveCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the theme over HTTP",
		Long:  "Serve the theme as JSON and as a config module. SIGHUP reloads the theme file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "address to listen on")
	return cmd
}

func (a *app) serve(ctx context.Context, listen string) error {
	cfg, source, err := a.loadTheme()
	if err != nil {
		return err
	}
	if result := validator.Validate(cfg); !result.Valid {
		return a.reportInvalid(result, source, false)
	}

	h, err := server.NewHandler(cfg, a.log.WithName("http"))
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fail(exitInvalid, "listen %s: %v", listen, err)
	}
	srv := &http.Server{
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go a.reloadOnSignal(ctx, hup, h)

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	a.log.Info("serving theme", "addr", ln.Addr().String(), "source", source)

	select {
	case err := <-errc:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fail(exitInvalid, "http server: %v", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error(err, "server shutdown")
	}
	return nil
}

// reloadOnSignal reloads the theme each time sig fires. A theme that fails
// to load or validate is logged and the previous one keeps being served.
func (a *app) reloadOnSignal(ctx context.Context, sig <-chan os.Signal, h *server.Handler) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sig:
			cfg, source, err := a.loadTheme()
			if err != nil {
				a.log.Error(err, "reload failed")
				continue
			}
			if result := validator.Validate(cfg); !result.Valid {
				a.log.Error(errors.New(validator.FormatError(result.Errors[0])), "reload rejected", "source", source, "errors", len(result.Errors))
				continue
			}
			if err := h.Set(cfg); err != nil {
				a.log.Error(err, "reload failed")
				continue
			}
			a.log.Info("reloaded theme", "source", source)
		}
	}
}
