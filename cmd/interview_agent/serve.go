package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/interview-practice/internal/interview"
	"github.com/jonathan/interview-practice/internal/server"
	"github.com/jonathan/interview-practice/internal/server/ratelimit"
	"github.com/jonathan/interview-practice/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server that exposes the interview session to a browser front-end:
selection and resume upload, session actions, a server-sent event stream of
chat turns and the countdown, and the transcript and report exports.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, closeResults, err := openResults(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeResults()

			client := newBackendClient(cfg)
			store := interview.NewStore()
			ctrl := newController(cfg, client, store, results)
			defer ctrl.Close()

			srv := server.New(server.Config{
				Addr:      cfg.Addr,
				RateLimit: ratelimit.LoadConfig(os.Getenv),
			}, ctrl, store, results)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(gctx)
			})
			g.Go(func() error {
				checkCtx, cancel := context.WithTimeout(gctx, 5*time.Second)
				defer cancel()
				if err := client.Health(checkCtx); err != nil {
					log.Printf("[backend] %s is not reachable yet: %v", client.BaseURL(), err)
				}
				return nil
			})
			g.Go(func() error {
				logSessionStates(gctx, ctrl)
				return nil
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Address to listen on (default localhost:8080)")
	return cmd
}

// logSessionStates logs every lifecycle transition until ctx is done.
func logSessionStates(ctx context.Context, ctrl *session.Controller) {
	events, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			switch e.Kind {
			case session.EventState:
				log.Printf("[session] %s %s", e.State, e.SessionID)
			case session.EventError:
				log.Printf("[session] error: %s", e.Message)
			}
		}
	}
}
