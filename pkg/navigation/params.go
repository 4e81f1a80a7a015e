// Package navigation declares the generic parameter set every navigation
// server built on this framework exposes: planner and controller plugins,
// loop frequencies, patience, retry limits and recovery/oscillation settings.
package navigation

import (
	"fmt"

	"github.com/goliatone/go-navparams/pkg/paramgen"
)

const (
	ParamGlobalPlanner        = "global_planner"
	ParamLocalPlanner         = "local_planner"
	ParamPlannerFrequency     = "planner_frequency"
	ParamPlannerPatience      = "planner_patience"
	ParamPlannerMaxRetries    = "planner_max_retries"
	ParamControllerFrequency  = "controller_frequency"
	ParamControllerPatience   = "controller_patience"
	ParamControllerMaxRetries = "controller_max_retries"
	ParamRecoveryEnabled      = "recovery_enabled"
	ParamOscillationTimeout   = "oscillation_timeout"
	ParamOscillationDistance  = "oscillation_distance"
)

const (
	DefaultGlobalPlanner = "navfn/NavfnROS"
	DefaultLocalPlanner  = "base_local_planner/TrajectoryPlannerROS"
)

// recovery_behaviors stays undeclared: the recovery execution loads its
// behaviors from a static list and ignores reconfiguration.
var declarations = []paramgen.Parameter{
	{
		Name:        ParamGlobalPlanner,
		Kind:        paramgen.KindString,
		Description: "The name of the plugin for the global planner to use with move_base_flex.",
		Default:     DefaultGlobalPlanner,
	},
	{
		Name:        ParamLocalPlanner,
		Kind:        paramgen.KindString,
		Description: "The name of the plugin for the local planner to use with move_base_flex.",
		Default:     DefaultLocalPlanner,
	},
	{
		Name:        ParamPlannerFrequency,
		Kind:        paramgen.KindDouble,
		Description: "The rate in Hz at which to run the planning loop.",
		Default:     0.0, Min: 0.0, Max: 100.0,
	},
	{
		Name:        ParamPlannerPatience,
		Kind:        paramgen.KindDouble,
		Description: "How long the planner will wait in seconds in an attempt to find a valid plan before giving up.",
		Default:     5.0, Min: 0.0, Max: 100.0,
	},
	{
		Name:        ParamPlannerMaxRetries,
		Kind:        paramgen.KindInt,
		Description: "How many times we will recall the planner in an attempt to find a valid plan before giving up",
		Default:     -1, Min: -1, Max: 1000,
	},
	{
		Name:        ParamControllerFrequency,
		Kind:        paramgen.KindDouble,
		Description: "The rate in Hz at which to run the control loop and send velocity commands to the base.",
		Default:     20.0, Min: 0.0, Max: 100.0,
	},
	{
		Name:        ParamControllerPatience,
		Kind:        paramgen.KindDouble,
		Description: "How long the controller will wait in seconds without receiving a valid control before giving up.",
		Default:     5.0, Min: 0.0, Max: 100.0,
	},
	{
		Name:        ParamControllerMaxRetries,
		Kind:        paramgen.KindInt,
		Description: "How many times we will recall the controller in an attempt to find a valid comand before giving up",
		Default:     -1, Min: -1, Max: 1000,
	},
	{
		Name:        ParamRecoveryEnabled,
		Kind:        paramgen.KindBool,
		Description: "Whether or not to enable the move_base_flex recovery behaviors to attempt to clear out space.",
		Default:     true,
	},
	{
		Name:        ParamOscillationTimeout,
		Kind:        paramgen.KindDouble,
		Description: "How long in seconds to allow for oscillation before executing recovery behaviors.",
		Default:     0.0, Min: 0.0, Max: 60.0,
	},
	{
		Name:        ParamOscillationDistance,
		Kind:        paramgen.KindDouble,
		Description: "How far in meters the robot must move to be considered not to be oscillating.",
		Default:     0.5, Min: 0.0, Max: 10.0,
	},
}

// Declarations returns a copy of the ordered declaration table.
func Declarations() []paramgen.Parameter {
	return append([]paramgen.Parameter(nil), declarations...)
}

// AddNavigationParams registers the navigation parameters on b in their fixed
// order. Validation is left to the builder; the first error it reports stops
// registration and is returned wrapped with the parameter name.
func AddNavigationParams(b paramgen.Builder) error {
	for _, p := range declarations {
		var err error
		if p.Bounded() {
			err = b.Add(p.Name, p.Kind, p.Level, p.Description, p.Default, p.Min, p.Max)
		} else {
			err = b.Add(p.Name, p.Kind, p.Level, p.Description, p.Default)
		}
		if err != nil {
			return fmt.Errorf("navigation: add %s: %w", p.Name, err)
		}
	}
	return nil
}

// Schema registers the navigation parameters on a fresh generator and returns
// the resulting snapshot.
func Schema(options ...paramgen.Option) (paramgen.Schema, error) {
	gen := paramgen.NewGenerator(options...)
	if err := AddNavigationParams(gen); err != nil {
		return paramgen.Schema{}, err
	}
	return gen.Schema(), nil
}

// MustSchema panics when the declarations are rejected. Useful for tests and
// init-time wiring.
func MustSchema(options ...paramgen.Option) paramgen.Schema {
	schema, err := Schema(options...)
	if err != nil {
		panic(err)
	}
	return schema
}
