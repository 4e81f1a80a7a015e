package navigation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/paramgen"
)

func TestDefaultConfig(t *testing.T) {
	cfg := navigation.DefaultConfig()
	want := navigation.Config{
		GlobalPlanner:        "navfn/NavfnROS",
		LocalPlanner:         "base_local_planner/TrajectoryPlannerROS",
		PlannerFrequency:     0,
		PlannerPatience:      5,
		PlannerMaxRetries:    -1,
		ControllerFrequency:  20,
		ControllerPatience:   5,
		ControllerMaxRetries: -1,
		RecoveryEnabled:      true,
		OscillationTimeout:   0,
		OscillationDistance:  0.5,
	}
	if cfg != want {
		t.Fatalf("default config mismatch\nwant: %+v\n got: %+v", want, cfg)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := navigation.DefaultConfig()

	if got := cfg.ControllerPeriod(); got != 50*time.Millisecond {
		t.Fatalf("controller period: want 50ms, got %v", got)
	}
	if got := cfg.PlannerPeriod(); got != 0 {
		t.Fatalf("planner period with zero frequency: want 0, got %v", got)
	}
	if got := cfg.PlannerPatienceDuration(); got != 5*time.Second {
		t.Fatalf("planner patience: want 5s, got %v", got)
	}
	if cfg.OscillationDetectionEnabled() {
		t.Fatalf("oscillation detection should be disabled with zero timeout")
	}
	if !cfg.PlannerRetriesUnlimited() || !cfg.ControllerRetriesUnlimited() {
		t.Fatalf("default retries should be unlimited")
	}

	cfg.OscillationTimeout = 2.5
	if !cfg.OscillationDetectionEnabled() || cfg.OscillationTimeoutDuration() != 2500*time.Millisecond {
		t.Fatalf("unexpected oscillation settings: %v", cfg.OscillationTimeoutDuration())
	}
}

func TestConfigFromValues(t *testing.T) {
	values := navigation.DefaultConfig().Values()
	values[navigation.ParamControllerFrequency] = 10
	values[navigation.ParamPlannerMaxRetries] = float64(3)

	cfg, err := navigation.ConfigFromValues(values)
	if err != nil {
		t.Fatalf("config from values: %v", err)
	}
	if cfg.ControllerFrequency != 10 || cfg.PlannerMaxRetries != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	delete(values, navigation.ParamLocalPlanner)
	if _, err := navigation.ConfigFromValues(values); err == nil {
		t.Fatalf("expected missing value error")
	}
}

func TestConfig_ValidateRejectsOutOfRange(t *testing.T) {
	cfg := navigation.DefaultConfig()
	cfg.OscillationDistance = 11
	if err := cfg.Validate(); !errors.Is(err, paramgen.ErrOutOfRange) {
		t.Fatalf("expected out of range, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("MBF_PLANNER_FREQUENCY", "2.5")
	t.Setenv("MBF_RECOVERY_ENABLED", "false")
	t.Setenv("MBF_LOCAL_PLANNER", "dwa_local_planner/DWAPlannerROS")

	cfg := navigation.DefaultConfig()
	if err := navigation.ApplyEnv(&cfg, navigation.DefaultEnvPrefix); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.PlannerFrequency != 2.5 || cfg.RecoveryEnabled || cfg.LocalPlanner != "dwa_local_planner/DWAPlannerROS" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.ControllerFrequency != 20 {
		t.Fatalf("unset variable changed controller frequency: %v", cfg.ControllerFrequency)
	}
}

func TestApplyEnv_RejectsOutOfRange(t *testing.T) {
	t.Setenv("MBF_CONTROLLER_MAX_RETRIES", "5000")

	cfg := navigation.DefaultConfig()
	if err := navigation.ApplyEnv(&cfg, navigation.DefaultEnvPrefix); err == nil {
		t.Fatalf("expected validation error")
	}
	if cfg.ControllerMaxRetries != -1 {
		t.Fatalf("config modified despite error: %+v", cfg)
	}
}
