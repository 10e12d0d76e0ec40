package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func simCmd() *cobra.Command {
	var configPath string
	var watch bool
	cmd := &cobra.Command{
		Use:   "sim <script.yaml>",
		Short: "Replay a scripted call sequence against the reference sandbox",
		Long: "Builds a fresh sandbox from the TOML config (defaults when omitted),\n" +
			"runs the script's calls through the full client pipeline, and checks\n" +
			"each step's expectation. Every run starts from genesis state.\n\n" +
			"With --watch the script reruns whenever it or the config changes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scriptPath := args[0]
			if !watch {
				return runOnce(cmd, configPath, scriptPath)
			}
			return watchAndRun(cmd, configPath, scriptPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "TOML sandbox config")
	cmd.Flags().BoolVar(&watch, "watch", false, "rerun when the script or config changes")
	return cmd
}

func runOnce(cmd *cobra.Command, configPath, scriptPath string) error {
	cfg, err := loadSimConfig(configPath)
	if err != nil {
		return err
	}
	sc, err := loadScript(scriptPath)
	if err != nil {
		return err
	}
	return runScript(cmd.OutOrStdout(), cfg, sc)
}

// watchAndRun runs the script once, then reruns it on changes until
// interrupted. Script failures are reported, not fatal: the point of
// watch mode is editing until the script passes.
func watchAndRun(cmd *cobra.Command, configPath, scriptPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(scriptPath); err != nil {
		return fmt.Errorf("watch %s: %w", scriptPath, err)
	}
	if configPath != "" {
		if err := watcher.Add(configPath); err != nil {
			return fmt.Errorf("watch %s: %w", configPath, err)
		}
	}

	rerun := func() {
		if err := runOnce(cmd, configPath, scriptPath); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "sim: %v\n", err)
		}
	}
	rerun()

	// Debounce: editors fire several events per save.
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(200*time.Millisecond, func() {
					fmt.Fprintf(cmd.ErrOrStderr(), "sim: %s changed, rerunning\n", event.Name)
					rerun()
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "sim: watch error: %v\n", err)
		}
	}
}
