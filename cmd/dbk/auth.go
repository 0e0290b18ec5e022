package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/jmallard/daybook/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication setup commands",
	}

	cmd.AddCommand(newAuthSetupCmd())
	return cmd
}

func newAuthSetupCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Store Google OAuth credentials in the config file",
		Long: `Prompts for the Google OAuth client ID and secret used for sign-in and
Calendar reads, and writes them into the config file. The secret is read
without echo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthSetup(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "daybook.yaml", "path to Daybook config file")
	return cmd
}

func runAuthSetup(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	fmt.Fprint(out, "Google OAuth client ID: ")
	clientID, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read client id: %w", err)
	}
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client id is required")
	}

	fmt.Fprint(out, "Google OAuth client secret (input hidden): ")
	secret, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read client secret: %w", err)
	}
	if len(secret) == 0 {
		return fmt.Errorf("client secret is required")
	}

	cfg.Google.ClientID = clientID
	cfg.Google.ClientSecret = string(secret)

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", configPath, err)
	}

	fmt.Fprintf(out, "Credentials written to %s\n", configPath)
	return nil
}
