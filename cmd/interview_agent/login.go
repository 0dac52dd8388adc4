package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jonathan/interview-practice/internal/backend"
	"github.com/spf13/cobra"
)

func newLoginCmd(global *globalOptions) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the interview backend",
		Long: `Checks credentials against the backend's demo login. When --password is not
given it is read from the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(global)
			if err != nil {
				return err
			}

			if password == "" {
				reader := bufio.NewReader(cmd.InOrStdin())
				line, _ := reader.ReadString('\n')
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("password is required")
			}

			resp, err := newBackendClient(cfg).Login(cmd.Context(), backend.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			if !resp.Success {
				msg := resp.Message
				if msg == "" {
					msg = "login rejected"
				}
				return fmt.Errorf("%s", msg)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (session %s)\n", resp.Message, resp.SessionID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
