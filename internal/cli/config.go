package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-classic-translate/internal/config"
)

// ConfigCmd creates the config command with subcommands.
// The env parameter provides injectable dependencies for testing.
func ConfigCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage persistent configuration settings.

Configuration is stored in ~/.config/classic-translate/config.yaml.
Command-line flags always take precedence over these settings.

Supported settings:
  output-dir    Directory for Chapter_<n>.txt files (env: ` + config.EnvOutputDir + `)
  provider      Default provider: openai, deepseek, anthropic, gemini (env: ` + config.EnvProvider + `)
  model         Default model for the configured provider
  log-file      Diagnostic log path (default: ` + DefaultLogFile + `)`,
		Example: `  classic-translate config set output-dir ~/translations/honglou
  classic-translate config set provider anthropic
  classic-translate config get provider
  classic-translate config list`,
	}

	cmd.AddCommand(configSetCmd(env))
	cmd.AddCommand(configGetCmd(env))
	cmd.AddCommand(configListCmd(env))

	return cmd
}

// configSetCmd creates the "config set" subcommand.
func configSetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value.

Supported keys: ` + strings.Join(config.Keys(), ", ") + `

An output-dir is created if it doesn't exist.`,
		Example: `  classic-translate config set output-dir ~/translations
  classic-translate config set model claude-sonnet-4-5`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(env, args[0], args[1])
		},
	}
}

// configGetCmd creates the "config get" subcommand.
func configGetCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value.

Prints the value to stdout, or nothing if not set.`,
		Example: `  classic-translate config get output-dir`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(env, args[0])
		},
	}
}

// configListCmd creates the "config list" subcommand.
func configListCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values.

Shows both values from the config file and environment variable fallbacks.`,
		Example: `  classic-translate config list`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigList(env)
		},
	}
}

// runConfigSet handles the "config set" command.
func runConfigSet(env *Env, key, value string) error {
	if !config.IsValidKey(key) {
		return fmt.Errorf("%w %q (valid keys: %s)", config.ErrUnknownKey, key, strings.Join(config.Keys(), ", "))
	}

	switch key {
	case config.KeyOutputDir, config.KeyLogFile:
		value = config.ExpandPath(value)
		if key == config.KeyOutputDir {
			if err := config.EnsureOutputDir(value); err != nil {
				return fmt.Errorf("invalid output-dir: %w", err)
			}
		}
	case config.KeyProvider:
		p, err := ParseProvider(value)
		if err != nil {
			return err
		}
		value = p.String()
	case config.KeyModel:
		value = strings.TrimSpace(value)
	}

	if err := config.Save(key, value); err != nil {
		return err
	}

	fmt.Fprintf(env.Stderr, "Set %s = %s\n", key, value)
	return nil
}

// runConfigGet handles the "config get" command.
func runConfigGet(env *Env, key string) error {
	value, err := config.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		if name := config.EnvFor(key); name != "" {
			value = env.Getenv(name)
		}
	}

	if value != "" {
		fmt.Fprintln(env.Stdout, value)
	}
	return nil
}

// runConfigList handles the "config list" command.
func runConfigList(env *Env) error {
	data, err := config.List()
	if err != nil {
		return err
	}

	for _, key := range config.Keys() {
		if _, ok := data[key]; ok {
			continue
		}
		if name := config.EnvFor(key); name != "" {
			if v := env.Getenv(name); v != "" {
				data[key] = v + " (from env)"
			}
		}
	}

	if len(data) == 0 {
		fmt.Fprintln(env.Stdout, "No configuration set.")
		fmt.Fprintln(env.Stdout, "\nAvailable settings:")
		for _, key := range config.Keys() {
			fmt.Fprintf(env.Stdout, "  %s\n", key)
		}
		return nil
	}

	// Keys() order keeps the listing stable.
	for _, key := range config.Keys() {
		if v, ok := data[key]; ok {
			fmt.Fprintf(env.Stdout, "%s=%s\n", key, v)
		}
	}
	return nil
}
