package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dirstamp/internal/app"
	"dirstamp/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
func newApp() (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config (run 'dirstamp config init' first?): %w", err)
	}

	a, err := app.NewApp(cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "dirstamp",
	Short: "Snapshot and restore file timestamps for a directory",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Database: %s (%s)\n", cfg.Database.Type, cfg.Database.DataDir)
		return nil
	},
}

// save command
var saveCmd = &cobra.Command{
	Use:   "save PATH",
	Short: "Capture file timestamps for a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		dirs, files, err := a.Save(args[0], recursive)
		if err != nil {
			return fmt.Errorf("save failed: %w", err)
		}

		fmt.Printf("Saved timestamps of %d file(s) in %d directory(ies)\n", files, dirs)
		return nil
	},
}

// apply command
var applyCmd = &cobra.Command{
	Use:   "apply PATH",
	Short: "Restore the most recently captured timestamps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.Apply(args[0])
		if err != nil {
			return fmt.Errorf("apply failed: %w", err)
		}

		if n == 0 {
			fmt.Println("Nothing to apply.")
			return nil
		}
		fmt.Printf("Applied timestamps to %d file(s)\n", n)
		return nil
	},
}

// status command
var statusCmd = &cobra.Command{
	Use:   "status PATH",
	Short: "Compare current timestamps against the latest capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		statuses, err := a.Status(args[0])
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			fmt.Println("No files found.")
			return nil
		}

		for _, s := range statuses {
			fmt.Printf("%s %s\n", s.State.Indicator(), s.Name)
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log PATH",
	Short: "View capture history for a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(args[0], limit)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No captures recorded.")
			return nil
		}

		for _, e := range entries {
			fmt.Printf("#%d  %-20s  %s\n",
				e.ID,
				e.Action,
				e.CapturedAt.Format("2006-01-02 15:04:05"),
			)
		}
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch PATH",
	Short: "Watch a directory and re-capture timestamps on changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		recursive, _ := cmd.Flags().GetBool("recursive")

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %s (Ctrl-C to stop)\n", args[0])
		if err := a.Watch(ctx, args[0], recursive); err != nil {
			return fmt.Errorf("watch failed: %w", err)
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(saveCmd)
	saveCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logCmd)
	logCmd.Flags().IntP("limit", "n", 50, "Maximum number of captures to show")
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolP("recursive", "r", false, "Watch subdirectories as well")
}
