// Package main provides the interview practice CLI and HTTP API server.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	backendURL string
	storageDir string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "interview_agent",
		Short: "Timed mock interview practice against the interview backend",
		Long: `interview_agent runs timed mock interviews. The backend generates questions from the
selected role, experience, difficulty and resume; answers are scored locally for
delivery and the backend's final report is kept for later review.

Configuration can be loaded from a JSON or YAML file using --config. Environment
variables override the file and command-line flags override both.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a JSON or YAML config file")
	cmd.PersistentFlags().StringVar(&opts.backendURL, "backend-url", "", "Interview backend base URL (defaults to INTERVIEW_BACKEND_URL or http://localhost:8000)")
	cmd.PersistentFlags().StringVar(&opts.storageDir, "storage-dir", "", "Directory for stored results (defaults to ~/.interview-practice)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print detailed debug information")

	cmd.AddCommand(
		newPracticeCmd(opts),
		newServeCmd(opts),
		newReportCmd(opts),
		newLoginCmd(opts),
	)
	return cmd
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
