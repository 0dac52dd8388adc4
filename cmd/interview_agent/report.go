package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/interview-practice/internal/observability"
	"github.com/jonathan/interview-practice/internal/rendering"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/jonathan/interview-practice/internal/types"
	"github.com/spf13/cobra"
)

type reportOptions struct {
	download string
	text     bool
}

func newReportCmd(global *globalOptions) *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the report of the last interview",
		Long: `Prints the summary and final report stored by the last interview. With
--download the backend's PDF report is saved to the given directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			results, closeResults, err := openResults(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeResults()

			stored, err := storage.LoadResults(ctx, results)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("no interview report found, run the practice command first")
			}
			if err != nil {
				return err
			}
			report, err := rendering.ParseReport(types.FinalReport(stored.Report))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.text {
				header := rendering.NewHeader(stored.Role, stored.Scores, time.Now())
				text, err := rendering.RenderReport(header, report, stored.Scores)
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(out, text)
				return err
			}

			printer := observability.NewPrinter(out)
			if stored.Summary != "" {
				printer.PrintSummary(types.InterviewSummary(stored.Summary))
			}
			printer.PrintReport(report)
			if stored.Scores != nil {
				printer.PrintScores(*stored.Scores)
			}

			if opts.download == "" {
				return nil
			}
			if stored.PDFFilename == "" {
				return fmt.Errorf("the backend did not produce a PDF report for the last interview")
			}

			path := filepath.Join(opts.download, filepath.Base(stored.PDFFilename))
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			n, err := newBackendClient(cfg).DownloadReport(ctx, stored.PDFFilename, f)
			if closeErr := f.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				_ = os.Remove(path)
				return err
			}
			_, _ = fmt.Fprintf(out, "Saved %s (%d bytes)\n", path, n)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.download, "download", "", "Directory to save the backend PDF report into")
	cmd.Flags().BoolVar(&opts.text, "text", false, "Print the plain-text feedback export instead")
	return cmd
}
