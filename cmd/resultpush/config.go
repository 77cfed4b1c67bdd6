// Copyright 2026 The Resultpush Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/resultpush/internal/config"
)

// Config command flags.
var (
	configGlobal bool
	configTOML   bool
)

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and modify resultpush configuration",
	Long: `View and modify resultpush configuration.

Resultpush reads .resultpush.yaml (or .resultpush.toml) from the repository
root. A global config at ~/.config/resultpush/config.yaml provides defaults.
Environment variables override both, and command line flags override all.

Tokens are never stored in config files; set RESULTPUSH_PROJECT_TOKEN or
RESULTPUSH_API_TOKEN in the environment.`,
}

// configGetCmd retrieves a configuration value by key.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a configuration value by key.

Without --global the global and repository configs are combined, with
repository values taking precedence.

Examples:
  resultpush config get batch_size
  resultpush config get --global api_base_url`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Values are detected as bool, int or string. List keys (results, metrics)
take a comma-separated value. By default the repository config in the
current directory is written; --toml selects .resultpush.toml and --global
writes ~/.config/resultpush/config.yaml.

Note: set rewrites the file and does not preserve comments.

Examples:
  resultpush config set batch_size 500
  resultpush config set results eslint.sarif,gosec.json
  resultpush config set --global api_base_url https://api.example.com`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

// configListCmd lists all configuration values with their source.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Long: `List every set configuration value, annotated with whether it comes
from the repository config or the global config. Repository values override
global values.`,
	Args: cobra.NoArgs,
	RunE: runConfigList,
}

func init() {
	configGetCmd.Flags().BoolVar(&configGlobal, "global", false, "use global config only")
	configSetCmd.Flags().BoolVar(&configGlobal, "global", false, "write to global config")
	configSetCmd.Flags().BoolVar(&configTOML, "toml", false, "write the repository config as TOML")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
}

// resetConfigFlags resets config command flags for testing.
func resetConfigFlags() {
	configGlobal = false
	configTOML = false
	for _, c := range []*cobra.Command{configGetCmd, configSetCmd} {
		for _, name := range []string{"global", "toml"} {
			if f := c.Flags().Lookup(name); f != nil {
				_ = f.Value.Set("false")
				f.Changed = false
			}
		}
	}
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	if configGlobal {
		globalCfg, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		cfg = globalCfg
	} else {
		globalCfg, repoCfg, err := loadConfigLayers()
		if err != nil {
			return err
		}
		cfg = config.Overlay(globalCfg, repoCfg)
	}

	if err := config.ValidateKey(args[0]); err != nil {
		return err
	}
	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return err
	}
	return printValue(cmd, val)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, rawValue := args[0], args[1]

	targetPath, err := repoConfigPath()
	if err != nil {
		return err
	}
	if configGlobal {
		targetPath = config.GlobalConfigPath()
	}

	data, err := config.LoadRaw(targetPath)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	if err := config.SetValue(data, key, rawValue); err != nil {
		return err
	}

	cfg, err := config.FromRaw(data)
	if err != nil {
		return fmt.Errorf("invalid config after set: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if err := config.WriteFile(targetPath, data); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, rawValue)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	globalCfg, repoCfg, err := loadConfigLayers()
	if err != nil {
		return err
	}
	globalMap, err := config.Flatten(globalCfg)
	if err != nil {
		return err
	}
	repoMap, err := config.Flatten(repoCfg)
	if err != nil {
		return err
	}

	type entry struct {
		value  any
		source string
	}
	seen := make(map[string]entry)
	for k, v := range globalMap {
		seen[k] = entry{value: v, source: "global"}
	}
	for k, v := range repoMap {
		seen[k] = entry{value: v, source: "repo"}
	}

	if len(seen) == 0 {
		_, _ = fmt.Fprintln(w, "No configuration set.")
		_, _ = fmt.Fprintln(w, "Run 'resultpush config set <key> <value>' to set values.")
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	globalColor := color.New(color.FgCyan)
	repoColor := color.New(color.FgGreen)
	for _, k := range keys {
		e := seen[k]
		_, _ = fmt.Fprintf(w, "%s = %v %s\n", k, e.value, formatSource(e.source, globalColor, repoColor))
	}
	return nil
}

// loadConfigLayers reads the global config and the config of the current
// directory.
func loadConfigLayers() (globalCfg, repoCfg *config.Config, err error) {
	globalCfg, err = config.LoadGlobal()
	if err != nil {
		return nil, nil, fmt.Errorf("loading global config: %w", err)
	}
	repoCfg, err = config.Load(".")
	if err != nil {
		return nil, nil, fmt.Errorf("loading repo config: %w", err)
	}
	return globalCfg, repoCfg, nil
}

// repoConfigPath returns the repository config file to write. An existing
// file keeps its format; otherwise --toml picks TOML over YAML.
func repoConfigPath() (string, error) {
	yamlPath := filepath.Join(".", config.FileName)
	tomlPath := filepath.Join(".", config.TOMLFileName)
	_, yamlErr := os.Stat(yamlPath)
	_, tomlErr := os.Stat(tomlPath)
	switch {
	case yamlErr == nil && tomlErr == nil:
		return "", fmt.Errorf("both %s and %s found; keep one", config.FileName, config.TOMLFileName)
	case tomlErr == nil:
		return tomlPath, nil
	case yamlErr == nil:
		return yamlPath, nil
	case configTOML:
		return tomlPath, nil
	default:
		return yamlPath, nil
	}
}

// printValue outputs a value: scalars as plain text, lists as YAML.
func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}

// formatSource returns a colored "(global)" or "(repo)" annotation.
func formatSource(source string, globalColor, repoColor *color.Color) string {
	label := fmt.Sprintf("(%s)", source)
	if source == "global" {
		return globalColor.Sprint(label)
	}
	return repoColor.Sprint(label)
}
