package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/born-ml/arrayapi/backend/cpu"
	"github.com/born-ml/arrayapi/xp"
)

// app holds what PersistentPreRunE resolves for the subcommands.
type app struct {
	configDir string
	format    string
	logLevel  string

	logger *slog.Logger
	ns     *xp.Namespace
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "arrayapi",
		Short:         "Inspect the array API dtype, promotion and broadcasting rules",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "directory holding arrayapi.yaml (default: current directory)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format: text, json or yaml")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(
		newVersionCmd(),
		newPromoteCmd(a),
		newCastCmd(a),
		newBroadcastCmd(a),
		newTableCmd(a),
		newOpsCmd(a),
		newInfoCmd(a),
	)
	return root
}

// setup merges flags over the config file and environment, then builds
// the logger and namespace.
func (a *app) setup(cmd *cobra.Command) error {
	v, err := loadConfig(a.configDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("format") {
		v.Set(cfgKeyFormat, a.format)
	}
	if cmd.Flags().Changed("log-level") {
		v.Set(cfgKeyLogLevel, a.logLevel)
	}

	a.format = v.GetString(cfgKeyFormat)
	switch a.format {
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, yaml)", a.format)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v.GetString(cfgKeyLogLevel))); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.ns = xp.New(cpu.New(cpu.WithLogger(a.logger)), xp.WithLogger(a.logger))
	a.logger.Debug("configured", "format", a.format, "config", v.ConfigFileUsed())
	return nil
}
