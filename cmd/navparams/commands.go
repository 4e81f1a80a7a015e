package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-navparams"
	"github.com/goliatone/go-navparams/pkg/navigation"
	"github.com/goliatone/go-navparams/pkg/openapi"
	"github.com/goliatone/go-navparams/pkg/orchestrator"
	"github.com/goliatone/go-navparams/pkg/paramgen"
	"github.com/goliatone/go-navparams/pkg/render"
	"github.com/goliatone/go-navparams/pkg/renderers/tui"
	"github.com/goliatone/go-navparams/pkg/values"
)

func (a *app) schema() (paramgen.Schema, error) {
	return navparams.NewSchema(paramgen.WithLogger(a.logger))
}

func (a *app) newSchemaCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the parameter declarations",
		Long: `Print the parameter declarations in declaration order.

Formats: json, yaml, openapi (JSON) and openapi-yaml.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.schema()
			if err != nil {
				return err
			}
			out, err := encodeSchema(schema, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, yaml, openapi, openapi-yaml")
	return cmd
}

func encodeSchema(schema paramgen.Schema, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		out, err := json.MarshalIndent(schema.Parameters(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		return append(out, '\n'), nil
	case "yaml", "yml":
		out, err := yaml.Marshal(schema.Parameters())
		if err != nil {
			return nil, fmt.Errorf("encode schema: %w", err)
		}
		return out, nil
	case "openapi", "openapi-yaml":
		doc, err := openapi.Document(schema, openapi.WithInfo("Navigation parameters", openapi.DefaultVersion))
		if err != nil {
			return nil, err
		}
		if format == "openapi-yaml" {
			return openapi.MarshalYAML(doc)
		}
		return openapi.MarshalJSON(doc)
	}
	return nil, fmt.Errorf("unsupported schema format %q", format)
}

func (a *app) newImportCmd() *cobra.Command {
	var (
		component string
		format    string
	)
	cmd := &cobra.Command{
		Use:   "import <openapi-file>",
		Short: "Rebuild declarations from an exported OpenAPI document",
		Long: `Rebuild the declarations described by an OpenAPI document and print them.

The document must hold an object component schema (default "Parameters"), as
written by "navparams schema --format openapi". Declarations that violate the
builder rules are reported and the command fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := navparams.NewSchemaLoader(
				openapi.WithSchemaComponent(component),
				openapi.WithGeneratorOptions(paramgen.WithLogger(a.logger)),
			)
			schema, err := loader.Load(cmd.Context(), openapi.SourceFromFile(args[0]))
			if err != nil {
				return err
			}
			out, err := encodeSchema(schema, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&component, "component", openapi.DefaultComponent, "component schema holding the parameters")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: json, yaml")
	return cmd
}

func (a *app) newDefaultsCmd() *cobra.Command {
	var (
		format string
		useEnv bool
	)
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default values as a values document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.schema()
			if err != nil {
				return err
			}
			f, err := values.ParseFormat(format)
			if err != nil {
				return err
			}
			vals, err := a.resolveValues(schema, "", useEnv)
			if err != nil {
				return err
			}
			out, err := values.Encode(schema, vals, f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: json, yaml, toml")
	cmd.Flags().BoolVar(&useEnv, "env", false, "apply parameter overrides from the environment (NAVPARAMS_PARAM_PREFIX, default MBF_)")
	return cmd
}

func (a *app) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <values-file>",
		Short: "Check a values file against the declarations",
		Long: `Check a JSON, YAML or TOML values file against the declarations.

Every problem is reported; the command fails when any is found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.schema()
			if err != nil {
				return err
			}
			raw, err := values.Load(args[0])
			if err != nil {
				return err
			}
			result := values.Resolve(schema, raw)
			out := cmd.OutOrStdout()
			if !result.Valid {
				for _, issue := range result.Issues {
					fmt.Fprintf(out, "%s: %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("%s: %d issue(s)", args[0], len(result.Issues))
			}
			if err := openapi.ValidateValues(schema, result.Values); err != nil {
				return err
			}
			a.logger.WithField("file", args[0]).Debug("values file is valid")
			fmt.Fprintf(out, "%s: ok (%d parameters, %d set)\n", args[0], schema.Len(), len(raw))
			return nil
		},
	}
}

func (a *app) newRenderCmd() *cobra.Command {
	var (
		rendererName string
		valuesFile   string
		outputFile   string
		presetFile   string
		format       string
		useEnv       bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the parameters as an HTML form or edit them in the terminal",
		Long: `Render the parameters with the html or tui renderer.

The html renderer writes a form prefilled with the current values. The tui
renderer prompts for every parameter and writes the edited values as a JSON or
YAML values document.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.schema()
			if err != nil {
				return err
			}
			if valuesFile == "" {
				valuesFile = a.settings.ValuesFile
			}
			current, err := a.resolveValues(schema, valuesFile, useEnv)
			if err != nil {
				return err
			}

			registry, err := navparams.DefaultRegistry(tui.WithOutputFormat(tui.OutputFormat(format)))
			if err != nil {
				return err
			}
			options := []orchestrator.Option{
				orchestrator.WithSchema(schema),
				orchestrator.WithRegistry(registry),
				orchestrator.WithLogger(a.logger),
			}
			if presetFile != "" {
				data, err := os.ReadFile(presetFile)
				if err != nil {
					return fmt.Errorf("read preset: %w", err)
				}
				preset, err := orchestrator.NewPresetTransformer(data)
				if err != nil {
					return err
				}
				options = append(options, orchestrator.WithTransformer(preset))
			}

			out, err := orchestrator.New(options...).Generate(cmd.Context(), orchestrator.Request{
				Renderer:      rendererName,
				RenderOptions: render.RenderOptions{Values: current},
			})
			if errors.Is(err, tui.ErrAborted) {
				return errors.New("aborted")
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), outputFile, out)
		},
	}
	cmd.Flags().StringVar(&rendererName, "renderer", "html", "renderer: html or tui")
	cmd.Flags().StringVar(&valuesFile, "values", "", "values file used as current values (default $NAVPARAMS_VALUES)")
	cmd.Flags().StringVar(&outputFile, "output", "", "write to file instead of stdout")
	cmd.Flags().StringVar(&presetFile, "preset", "", "YAML or JSON preset overriding labels and hints")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatYAML), "tui output format: json or yaml")
	cmd.Flags().BoolVar(&useEnv, "env", false, "apply parameter overrides from the environment")
	return cmd
}

// resolveValues loads an optional values file over the defaults and, when
// useEnv is set, applies environment overrides through navigation.Config.
func (a *app) resolveValues(schema paramgen.Schema, path string, useEnv bool) (paramgen.Values, error) {
	raw := map[string]any{}
	if path != "" {
		loaded, err := values.Load(path)
		if err != nil {
			return nil, err
		}
		raw = loaded
	}
	result := values.Resolve(schema, raw)
	if err := result.Err(); err != nil {
		return nil, err
	}
	if !useEnv {
		return result.Values, nil
	}

	cfg, err := navigation.ConfigFromValues(result.Values)
	if err != nil {
		return nil, err
	}
	if err := navigation.ApplyEnv(&cfg, a.settings.ParamPrefix); err != nil {
		return nil, err
	}
	return cfg.Values(), nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
