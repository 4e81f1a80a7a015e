package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-navparams/pkg/logging"
	"github.com/goliatone/go-navparams/pkg/navigation"
)

// settings holds the environment defaults of the CLI; flags override them.
type settings struct {
	Addr            string        `env:"NAVPARAMS_ADDR" envDefault:":8080"`
	ValuesFile      string        `env:"NAVPARAMS_VALUES"`
	ParamPrefix     string        `env:"NAVPARAMS_PARAM_PREFIX" envDefault:"MBF_"`
	ShutdownTimeout time.Duration `env:"NAVPARAMS_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := env.Parse(&s); err != nil {
		return settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.ParamPrefix == "" {
		s.ParamPrefix = navigation.DefaultEnvPrefix
	}
	return s, nil
}

type app struct {
	settings  settings
	logger    *logrus.Logger
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.Discard()}

	root := &cobra.Command{
		Use:   "navparams",
		Short: "Inspect, validate and serve navigation parameters",
		Long: `Inspect, validate and serve the navigation parameter set.

Examples:
  navparams schema --format openapi
  navparams defaults --format toml > nav.toml
  navparams validate nav.yaml
  navparams render --renderer tui --format yaml --output nav.yaml
  navparams serve --addr :8080 --values nav.yaml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format (text or json)")

	root.AddCommand(
		a.newSchemaCmd(),
		a.newImportCmd(),
		a.newDefaultsCmd(),
		a.newValidateCmd(),
		a.newRenderCmd(),
		a.newServeCmd(),
	)
	return root
}

// init resolves settings and the logger. Precedence: flags, then
// environment, then defaults.
func (a *app) init(cmd *cobra.Command) error {
	s, err := loadSettings()
	if err != nil {
		return err
	}
	a.settings = s

	cfg := logging.DefaultConfig()
	cfg.Output = cmd.ErrOrStderr()
	logging.ApplyEnv(&cfg)
	if a.logLevel != "" {
		lvl, ok := logging.ParseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("invalid --log-level %q", a.logLevel)
		}
		cfg.Level = lvl
	}
	switch a.logFormat {
	case "":
	case string(logging.FormatText), string(logging.FormatJSON):
		cfg.Format = logging.Format(a.logFormat)
	default:
		return fmt.Errorf("invalid --log-format %q", a.logFormat)
	}
	a.logger = logging.New(cfg)
	return nil
}
