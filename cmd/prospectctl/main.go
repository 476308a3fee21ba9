// Command prospectctl is a terminal client for the ProspectPlus API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/prospectplus-agent/internal/client"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "prospectctl",
	Short:         "Manage prospects from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", envOr("PROSPECTPLUS_URL", "http://localhost:8080"), "API base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("PROSPECTPLUS_TOKEN"), "Bearer token (or set PROSPECTPLUS_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Request timeout")

	prospectCmd.AddCommand(prospectListCmd)
	prospectCmd.AddCommand(prospectAddCmd)
	prospectCmd.AddCommand(prospectShowCmd)
	prospectCmd.AddCommand(prospectDeleteCmd)
	prospectCmd.AddCommand(prospectAnalyzeCmd)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(prospectCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.NewClient(baseURL, token)
}

func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
