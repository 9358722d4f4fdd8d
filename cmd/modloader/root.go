package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/CheesyCanine05/smapi/core/mods"
	"github.com/CheesyCanine05/smapi/core/mods/version"
	"github.com/CheesyCanine05/smapi/internal/logging"
)

// CLIConfig carries the flags and positional arguments that shape one
// pipeline run.
type CLIConfig struct {
	RootDir      string
	APIVersion   string
	CompatDBPath string
	Debug        bool
}

var rootCmd = &cobra.Command{
	Use:   "modloader ROOT_DIR",
	Short: "Resolve the load order of a mod folder",
	Long:  "Discovers mod folders under ROOT_DIR, loads and validates their manifests against a compatibility database, and prints the resolved load order.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := parseConfig(cmd, args)
		return runList(cfg)
	},
}

// Execute initializes the root command tree and delegates to Cobra for
// argument parsing and subcommand dispatch.
func Execute() {
	if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
		pterm.DisableStyling()
		pterm.RawOutput = true
	}
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-version", "4.0.0", "current framework version to validate manifests against")
	rootCmd.PersistentFlags().String("compat-db", "", "path to a compatibility database JSON file (defaults to the embedded starter database)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug-level logging to stderr")
}

func parseConfig(cmd *cobra.Command, args []string) CLIConfig {
	cfg := CLIConfig{RootDir: args[0]}
	cfg.APIVersion, _ = cmd.Flags().GetString("api-version")
	cfg.CompatDBPath, _ = cmd.Flags().GetString("compat-db")
	cfg.Debug, _ = cmd.Flags().GetBool("debug")
	return cfg
}

// buildPipeline resolves a Pipeline from CLI configuration: parses the
// requested framework version and loads either the embedded starter
// compatibility database or one supplied via --compat-db.
func buildPipeline(cfg CLIConfig) (*mods.Pipeline, error) {
	logging.SetDebug(cfg.Debug)
	logging.SetOutput(os.Stderr)

	apiVersion, err := version.Parse(cfg.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid --api-version: %w", err)
	}

	var db *mods.Database
	if cfg.CompatDBPath != "" {
		data, err := os.ReadFile(cfg.CompatDBPath)
		if err != nil {
			return nil, fmt.Errorf("reading --compat-db: %w", err)
		}
		db, err = mods.ParseDatabase(data)
		if err != nil {
			return nil, err
		}
	} else {
		db, err = mods.LoadDefault()
		if err != nil {
			return nil, err
		}
	}

	return mods.NewPipeline(apiVersion, db), nil
}
