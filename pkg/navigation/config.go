package navigation

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

// DefaultEnvPrefix is prepended to the env tags by ApplyEnv.
const DefaultEnvPrefix = "MBF_"

// Config is the typed form of the navigation parameter set, one field per
// declaration.
type Config struct {
	GlobalPlanner        string  `json:"global_planner" yaml:"global_planner" toml:"global_planner" env:"GLOBAL_PLANNER"`
	LocalPlanner         string  `json:"local_planner" yaml:"local_planner" toml:"local_planner" env:"LOCAL_PLANNER"`
	PlannerFrequency     float64 `json:"planner_frequency" yaml:"planner_frequency" toml:"planner_frequency" env:"PLANNER_FREQUENCY"`
	PlannerPatience      float64 `json:"planner_patience" yaml:"planner_patience" toml:"planner_patience" env:"PLANNER_PATIENCE"`
	PlannerMaxRetries    int     `json:"planner_max_retries" yaml:"planner_max_retries" toml:"planner_max_retries" env:"PLANNER_MAX_RETRIES"`
	ControllerFrequency  float64 `json:"controller_frequency" yaml:"controller_frequency" toml:"controller_frequency" env:"CONTROLLER_FREQUENCY"`
	ControllerPatience   float64 `json:"controller_patience" yaml:"controller_patience" toml:"controller_patience" env:"CONTROLLER_PATIENCE"`
	ControllerMaxRetries int     `json:"controller_max_retries" yaml:"controller_max_retries" toml:"controller_max_retries" env:"CONTROLLER_MAX_RETRIES"`
	RecoveryEnabled      bool    `json:"recovery_enabled" yaml:"recovery_enabled" toml:"recovery_enabled" env:"RECOVERY_ENABLED"`
	OscillationTimeout   float64 `json:"oscillation_timeout" yaml:"oscillation_timeout" toml:"oscillation_timeout" env:"OSCILLATION_TIMEOUT"`
	OscillationDistance  float64 `json:"oscillation_distance" yaml:"oscillation_distance" toml:"oscillation_distance" env:"OSCILLATION_DISTANCE"`
}

// DefaultConfig returns the declared defaults.
func DefaultConfig() Config {
	cfg, err := ConfigFromValues(paramgen.NewSchema(declarations).Defaults())
	if err != nil {
		panic(fmt.Sprintf("navigation: defaults do not satisfy declarations: %v", err))
	}
	return cfg
}

// ConfigFromValues builds a Config from a complete set of typed values. Every
// navigation parameter must be present and pass the declaration checks.
func ConfigFromValues(values paramgen.Values) (Config, error) {
	schema := paramgen.NewSchema(declarations)
	for _, name := range schema.Names() {
		if _, ok := values[name]; !ok {
			return Config{}, fmt.Errorf("navigation: missing value for %s", name)
		}
	}
	checked, err := schema.Validate(values)
	if err != nil {
		return Config{}, fmt.Errorf("navigation: %w", err)
	}

	return Config{
		GlobalPlanner:        checked[ParamGlobalPlanner].(string),
		LocalPlanner:         checked[ParamLocalPlanner].(string),
		PlannerFrequency:     checked[ParamPlannerFrequency].(float64),
		PlannerPatience:      checked[ParamPlannerPatience].(float64),
		PlannerMaxRetries:    checked[ParamPlannerMaxRetries].(int),
		ControllerFrequency:  checked[ParamControllerFrequency].(float64),
		ControllerPatience:   checked[ParamControllerPatience].(float64),
		ControllerMaxRetries: checked[ParamControllerMaxRetries].(int),
		RecoveryEnabled:      checked[ParamRecoveryEnabled].(bool),
		OscillationTimeout:   checked[ParamOscillationTimeout].(float64),
		OscillationDistance:  checked[ParamOscillationDistance].(float64),
	}, nil
}

// Values flattens the config into parameter values.
func (c Config) Values() paramgen.Values {
	return paramgen.Values{
		ParamGlobalPlanner:        c.GlobalPlanner,
		ParamLocalPlanner:         c.LocalPlanner,
		ParamPlannerFrequency:     c.PlannerFrequency,
		ParamPlannerPatience:      c.PlannerPatience,
		ParamPlannerMaxRetries:    c.PlannerMaxRetries,
		ParamControllerFrequency:  c.ControllerFrequency,
		ParamControllerPatience:   c.ControllerPatience,
		ParamControllerMaxRetries: c.ControllerMaxRetries,
		ParamRecoveryEnabled:      c.RecoveryEnabled,
		ParamOscillationTimeout:   c.OscillationTimeout,
		ParamOscillationDistance:  c.OscillationDistance,
	}
}

// Validate checks every field against its declaration.
func (c Config) Validate() error {
	_, err := ConfigFromValues(c.Values())
	return err
}

// ApplyEnv overrides fields from environment variables named prefix + env tag
// (MBF_PLANNER_FREQUENCY with the default prefix). Unset variables keep the
// current value. The result must still satisfy the declarations; cfg is left
// untouched otherwise.
func ApplyEnv(cfg *Config, prefix string) error {
	if cfg == nil {
		return fmt.Errorf("navigation: config is nil")
	}
	next := *cfg
	if err := env.ParseWithOptions(&next, env.Options{Prefix: prefix}); err != nil {
		return fmt.Errorf("navigation: parse env: %w", err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = next
	return nil
}

// PlannerPeriod is the planning loop period. Zero means the planner only runs
// on demand.
func (c Config) PlannerPeriod() time.Duration {
	return period(c.PlannerFrequency)
}

// ControllerPeriod is the control loop period.
func (c Config) ControllerPeriod() time.Duration {
	return period(c.ControllerFrequency)
}

func (c Config) PlannerPatienceDuration() time.Duration {
	return seconds(c.PlannerPatience)
}

func (c Config) ControllerPatienceDuration() time.Duration {
	return seconds(c.ControllerPatience)
}

func (c Config) OscillationTimeoutDuration() time.Duration {
	return seconds(c.OscillationTimeout)
}

// OscillationDetectionEnabled reports whether a non-zero timeout is set.
func (c Config) OscillationDetectionEnabled() bool {
	return c.OscillationTimeout > 0
}

// PlannerRetriesUnlimited reports whether the planner retry cap is disabled.
func (c Config) PlannerRetriesUnlimited() bool {
	return c.PlannerMaxRetries < 0
}

// ControllerRetriesUnlimited reports whether the controller retry cap is
// disabled.
func (c Config) ControllerRetriesUnlimited() bool {
	return c.ControllerMaxRetries < 0
}

func period(hz float64) time.Duration {
	if hz <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / hz)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
