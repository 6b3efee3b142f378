package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit vibevcf configuration",
		Long: "Show, get, or set configuration values. Config is stored in ~/.vibevcf.yaml.\n" +
			"Keys are the pipeline's own configuration fields (parser_count,\n" +
			"batch_size, line_queue_capacity, record_queue_capacity, sink,\n" +
			"mongo_uri, mongo_db_name, mongo_collection_name, duckdb_path,\n" +
			"log_level) — get/set reject anything else.",
		Example: `  vibevcf config                          # show all config
  vibevcf config set batch_size 5000      # change the write batch size
  vibevcf config get sink                 # get the configured sink`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	settings := v.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration set. Config file: ~/.vibevcf.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

// runConfigSet only accepts keys the pipeline's Config actually reads
// (config.Keys), parses the value according to that key's kind, and
// re-validates the resulting Config as a whole before persisting anything
// to disk — so "config set batch_size 0" or "config set sink postgres"
// fails here instead of surfacing as a broken pipeline run later.
func runConfigSet(key, value string) error {
	kind, ok := config.Keys[key]
	if !ok {
		return apperr.Validation("unknown config key %q (see 'vibevcf config' for the accepted keys)", key)
	}

	var parsed any
	switch kind {
	case config.KeyInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return apperr.Validation("%s expects an integer, got %q", key, value)
		}
		parsed = n
	default:
		parsed = value
	}

	previous := v.Get(key)
	v.Set(key, parsed)

	if err := config.FromViper(v).Validate(); err != nil {
		v.Set(key, previous)
		return err
	}

	cfgPath := v.ConfigFileUsed()
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgPath = filepath.Join(home, ".vibevcf.yaml")
	}

	if err := v.WriteConfigAs(cfgPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %v in %s\n", key, parsed, cfgPath)
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	if _, ok := config.Keys[key]; !ok {
		return apperr.Validation("unknown config key %q (see 'vibevcf config' for the accepted keys)", key)
	}

	val := v.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
