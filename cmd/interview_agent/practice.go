package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/jonathan/interview-practice/internal/backend"
	"github.com/jonathan/interview-practice/internal/config"
	"github.com/jonathan/interview-practice/internal/ingestion"
	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/observability"
	"github.com/jonathan/interview-practice/internal/rendering"
	"github.com/jonathan/interview-practice/internal/session"
	"github.com/jonathan/interview-practice/internal/storage"
	"github.com/jonathan/interview-practice/internal/types"
	"github.com/spf13/cobra"
)

// endCommand ends the interview early when typed as an answer.
const endCommand = "/end"

// remainingNotices are the countdown values, in seconds, announced in the terminal.
var remainingNotices = map[int]string{
	300: "5 minutes remaining",
	60:  "1 minute remaining",
	30:  "30 seconds remaining",
}

type practiceOptions struct {
	role          string
	experience    string
	difficulty    string
	resumePath    string
	builtPath     string
	duration      string
	pacing        string
	transcriptOut string
	reportOut     string
}

func newPracticeCmd(global *globalOptions) *cobra.Command {
	opts := &practiceOptions{}
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run an interactive mock interview in the terminal",
		Long: `Starts a timed interview session. Type each answer on one line; type /end to
finish early. When the session ends the backend's summary and report are
printed and stored for the report command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPractice(cmd, global, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.role, "role", "r", "", "Target role (default \"Software Engineer\")")
	cmd.Flags().StringVarP(&opts.experience, "experience", "e", "", "Years of experience bucket, e.g. 0-1, 2-3, 4-6 (default \"2-3\")")
	cmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", "", "easy, medium, hard or expert (default medium)")
	cmd.Flags().StringVar(&opts.resumePath, "resume", "", "Path to a plain text or markdown resume (mutually exclusive with --built-resume)")
	cmd.Flags().StringVar(&opts.builtPath, "built-resume", "", "Path to a built resume form in JSON or YAML")
	cmd.Flags().StringVar(&opts.duration, "duration", "", "Interview length, e.g. 10m or 600 (default 10m)")
	cmd.Flags().StringVar(&opts.pacing, "pacing", "", "Delay before the next question, e.g. 3s (default 3s)")
	cmd.Flags().StringVar(&opts.transcriptOut, "transcript-out", "", "Write the transcript export to this file when the interview ends")
	cmd.Flags().StringVar(&opts.reportOut, "report-out", "", "Write the feedback export to this file when the interview ends")
	cmd.MarkFlagsMutuallyExclusive("resume", "built-resume")

	return cmd
}

func runPractice(cmd *cobra.Command, global *globalOptions, opts *practiceOptions) error {
	cfg, err := loadConfig(global)
	if err != nil {
		return err
	}
	if err := applyPracticeFlags(&cfg, opts); err != nil {
		return err
	}

	store := interview.NewStore()
	difficulty, err := types.ParseDifficulty(cfg.Difficulty)
	if err != nil {
		return err
	}
	store.SetSelection(types.Selection{Role: cfg.Role, Experience: cfg.Experience, Difficulty: difficulty})

	if resume, ok, err := loadResume(opts); err != nil {
		return err
	} else if ok {
		store.SetResume(resume)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, closeResults, err := openResults(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeResults()

	client := newBackendClient(cfg)
	ctrl := newController(cfg, client, store, results)
	defer ctrl.Close()

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	snap := store.Snapshot()
	role, experience, wireDifficulty := snap.Selection.WithDefaults()
	printer.PrintSelection(role, experience, wireDifficulty, snap.Resume)
	announceSelection(ctx, client, snap.Selection)

	events, unsubscribe := ctrl.Subscribe()
	ended := make(chan struct{})
	printed := make(chan struct{})
	go printEvents(printer, events, ended, printed)

	if err := ctrl.Start(ctx); err != nil {
		unsubscribe()
		<-printed
		return err
	}

	answerLoop(ctx, ctrl, cmd.InOrStdin(), ended)
	if err := ctrl.EndNow(ctx); err != nil {
		slog.Warn("failed to end interview", "error", err)
	}

	unsubscribe()
	<-printed

	final := store.Snapshot()
	printer.PrintScores(final.Scores)
	printResults(ctx, printer, results)
	return writeExports(ctx, out, results, final, opts)
}

func applyPracticeFlags(cfg *config.Config, opts *practiceOptions) error {
	if opts.role != "" {
		cfg.Role = opts.role
	}
	if opts.experience != "" {
		cfg.Experience = opts.experience
	}
	if opts.difficulty != "" {
		cfg.Difficulty = opts.difficulty
	}
	if opts.duration != "" {
		d, err := config.ParseDuration(opts.duration)
		if err != nil {
			return fmt.Errorf("--duration: %w", err)
		}
		cfg.Duration = d
	}
	if opts.pacing != "" {
		d, err := config.ParseDuration(opts.pacing)
		if err != nil {
			return fmt.Errorf("--pacing: %w", err)
		}
		cfg.Pacing = d
	}
	return cfg.Validate()
}

func loadResume(opts *practiceOptions) (types.ResumeContent, bool, error) {
	switch {
	case opts.resumePath != "":
		resume, err := ingestion.LoadResumeFile(opts.resumePath)
		return resume, err == nil, err
	case opts.builtPath != "":
		resume, err := ingestion.LoadBuiltResume(opts.builtPath)
		return resume, err == nil, err
	default:
		return types.ResumeContent{}, false, nil
	}
}

// announceSelection mirrors the selection to the backend's selection
// endpoints. Failures only affect the backend's defaults, so they are logged.
func announceSelection(ctx context.Context, client *backend.Client, sel types.Selection) {
	if sel.Role != "" {
		if err := client.SetRole(ctx, sel.Role); err != nil {
			slog.Debug("backend did not accept role", "error", err)
		}
	}
	if sel.Difficulty != "" {
		if err := client.SetDifficulty(ctx, sel.Difficulty); err != nil {
			slog.Debug("backend did not accept difficulty", "error", err)
		}
	}
}

// printEvents prints turns and notices until events is closed. ended is
// closed once the session reaches a terminal state.
func printEvents(printer *observability.Printer, events <-chan session.Event, ended, done chan<- struct{}) {
	defer close(done)
	var once sync.Once
	for e := range events {
		switch e.Kind {
		case session.EventTurn:
			if e.Turn != nil && e.Turn.Sender == types.SenderInterviewer {
				printer.PrintTurn(*e.Turn)
			}
		case session.EventError:
			printer.PrintNotice("%s", e.Message)
		case session.EventTick:
			if notice, ok := remainingNotices[e.Remaining]; ok {
				printer.PrintNotice("%s", notice)
			}
		case session.EventState:
			if e.State.IsTerminal() {
				once.Do(func() { close(ended) })
			}
		}
	}
}

// answerLoop submits stdin lines as answers until the input ends, the user
// types /end, the session ends on its own or ctx is cancelled.
func answerLoop(ctx context.Context, ctrl *session.Controller, in io.Reader, ended <-chan struct{}) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ended:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ended:
			return
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == endCommand {
				return
			}
			if err := ctrl.UserAnswer(ctx, line); err != nil {
				if errors.Is(err, session.ErrNotActive) {
					return
				}
				slog.Warn("answer not submitted", "error", err)
			}
		}
	}
}

// printResults prints the stored summary and report of the finished session.
func printResults(ctx context.Context, printer *observability.Printer, results storage.Store) {
	if summary, err := results.Get(ctx, storage.KeyInterviewSummary); err == nil {
		printer.PrintSummary(types.InterviewSummary(summary))
	}
	raw, err := results.Get(ctx, storage.KeyFinalReport)
	if err != nil {
		return
	}
	report, err := rendering.ParseReport(types.FinalReport(raw))
	if err != nil {
		slog.Warn("stored report is not readable", "error", err)
		return
	}
	printer.PrintReport(report)
}

func writeExports(ctx context.Context, out io.Writer, results storage.Store, final interview.State, opts *practiceOptions) error {
	now := time.Now()
	header := rendering.NewHeader(final.Selection.Role, &final.Scores, now)

	if opts.transcriptOut != "" {
		text, err := rendering.RenderTranscript(header, final.Chat)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.transcriptOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write transcript: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Transcript written to %s\n", opts.transcriptOut)
	}

	if opts.reportOut != "" {
		var report *rendering.ReportView
		if raw, err := results.Get(ctx, storage.KeyFinalReport); err == nil {
			if report, err = rendering.ParseReport(types.FinalReport(raw)); err != nil {
				return err
			}
		}
		text, err := rendering.RenderReport(header, report, &final.Scores)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.reportOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Feedback report written to %s\n", opts.reportOut)
	}
	return nil
}
