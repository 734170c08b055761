package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/aretw0/turing/internal/config"
	"github.com/spf13/cobra"
)

// app is built once per invocation by the root pre-run hook.
var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing is a universal Turing machine",
	Long: `Turing decodes machines written in the binary Gödel encoding and runs them
on an input tape. Machines can also be written as YAML or JSON definitions,
stored in a program library and served over HTTP or MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		app, err = cli.NewApp(cmd.Context(), cfg)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands). They override the environment.
	rootCmd.PersistentFlags().String("env-file", "", "Load configuration from this .env file instead of ./.env")
	rootCmd.PersistentFlags().Int("max-steps", 0, "Step budget per run (TURING_MAX_STEPS)")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (TURING_LOG_LEVEL)")
	rootCmd.PersistentFlags().String("store", "", "Program store: memory, file or redis (TURING_STORE)")
	rootCmd.PersistentFlags().String("store-dir", "", "Directory of the file store (TURING_STORE_DIR)")
	rootCmd.PersistentFlags().String("redis-addr", "", "Redis address of the redis store (TURING_REDIS_ADDR)")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var files []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-steps") {
		cfg.MaxSteps, _ = flags.GetInt("max-steps")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Changed("store-dir") {
		cfg.StoreDir, _ = flags.GetString("store-dir")
	}
	if flags.Changed("redis-addr") {
		cfg.RedisAddr, _ = flags.GetString("redis-addr")
	}
	return cfg, cfg.Validate()
}
