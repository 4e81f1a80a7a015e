package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/reconfigure"
	"github.com/goliatone/go-navparams/pkg/renderers/html"
)

func (a *app) newServeCmd() *cobra.Command {
	var (
		addr       string
		valuesFile string
		useEnv     bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parameters over HTTP for runtime reconfiguration",
		Long: `Serve the current parameters over HTTP.

Routes:
  GET  /parameters          current values
  PUT  /parameters          partial update (JSON); restore_defaults=true resets
  GET  /parameters/schema   OpenAPI document (?format=yaml)
  GET  /parameters/form     HTML form, posted back to /parameters`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.settings.Addr
			}
			if valuesFile == "" {
				valuesFile = a.settings.ValuesFile
			}
			handler, server, err := a.buildHandler(valuesFile, useEnv)
			if err != nil {
				return err
			}
			defer server()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.listen(ctx, addr, handler)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $NAVPARAMS_ADDR or :8080)")
	cmd.Flags().StringVar(&valuesFile, "values", "", "initial values file (default $NAVPARAMS_VALUES)")
	cmd.Flags().BoolVar(&useEnv, "env", false, "apply parameter overrides from the environment")
	return cmd
}

// buildHandler wires the reconfigure server and its HTTP transport. The
// returned func drops the change logger subscription.
func (a *app) buildHandler(valuesFile string, useEnv bool) (http.Handler, func(), error) {
	schema, err := a.schema()
	if err != nil {
		return nil, nil, err
	}
	initial, err := a.resolveValues(schema, valuesFile, useEnv)
	if err != nil {
		return nil, nil, err
	}

	server, err := reconfigure.New(schema,
		reconfigure.WithInitialValues(initial),
		reconfigure.WithLogger(a.logger),
	)
	if err != nil {
		return nil, nil, err
	}
	unsubscribe := server.Subscribe(a.logChange)

	renderer, err := html.New()
	if err != nil {
		unsubscribe()
		return nil, nil, err
	}
	handler, err := reconfigure.NewHandler(server,
		reconfigure.WithFormRenderer(renderer),
		reconfigure.WithHandlerLogger(a.logger),
	)
	if err != nil {
		unsubscribe()
		return nil, nil, err
	}
	return handler, unsubscribe, nil
}

func (a *app) logChange(vals paramgen.Values, level paramgen.Level) {
	cfg, err := navigation.ConfigFromValues(vals)
	if err != nil {
		a.logger.WithError(err).Warn("reconfigured values do not map to a navigation config")
		return
	}
	a.logger.WithFields(logrus.Fields{
		"level":               level,
		"planner_period":      cfg.PlannerPeriod(),
		"controller_period":   cfg.ControllerPeriod(),
		"planner_patience":    cfg.PlannerPatienceDuration(),
		"controller_patience": cfg.ControllerPatienceDuration(),
		"oscillation_timeout": cfg.OscillationTimeoutDuration(),
		"recovery_enabled":    cfg.RecoveryEnabled,
	}).Info("navigation parameters reconfigured")
}

func (a *app) listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("addr", addr).Info("serving navigation parameters")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.ShutdownTimeout)
	defer cancel()
	a.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
