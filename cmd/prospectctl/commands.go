package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xavierca1/prospectplus-agent/internal/client"
	"github.com/xavierca1/prospectplus-agent/internal/config"
	"github.com/xavierca1/prospectplus-agent/internal/infra/database"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server health and analysis mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		c := newClient()
		health, err := c.Health(ctx)
		if err != nil {
			return err
		}
		agentStatus, err := c.AgentStatus(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderStatus(health, agentStatus))
		return nil
	},
}

var prospectCmd = &cobra.Command{
	Use:   "prospect",
	Short: "Create, inspect and analyze prospects",
}

var listOpts client.ListOptions

var prospectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List prospects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		list, err := newClient().ListProspects(ctx, listOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderProspectTable(list))
		return nil
	},
}

var addInput usecase.CreateProspectInput

var prospectAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a prospect",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		p, err := newClient().CreateProspect(ctx, addInput)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Prospect created"))
		fmt.Fprintln(cmd.OutOrStdout(), renderProspect(p))
		return nil
	},
}

var prospectShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one prospect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		p, err := newClient().GetProspect(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderProspect(p))
		return nil
	},
}

var prospectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a prospect and its interactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		if err := newClient().DeleteProspect(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Prospect "+args[0]+" deleted"))
		return nil
	},
}

var prospectAnalyzeCmd = &cobra.Command{
	Use:   "analyze <id>",
	Short: "Re-run the analysis for a prospect",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		out, err := newClient().AnalyzeProspect(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderAnalysis(out))
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <query>",
	Short: "Ask the assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		reply, err := newClient().Chat(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderChat(reply))
		return nil
	},
}

var (
	analyticsStart string
	analyticsEnd   string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Show the pipeline overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		out, err := newClient().Overview(ctx, analyticsStart, analyticsEnd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderOverview(out))
		return nil
	},
}

var trendDays int

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show daily prospect creation counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		out, err := newClient().Trends(ctx, trendDays)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTrends(out))
		return nil
	},
}

var (
	loginUser string
	loginPass string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Obtain a bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()

		out, err := newClient().Login(ctx, loginUser, loginPass)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Token valid for %ds", out.ExpiresIn)))
		fmt.Fprintln(cmd.OutOrStdout(), "export PROSPECTPLUS_TOKEN="+out.AccessToken)
		return nil
	},
}

var initDatabaseURL string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database schema",
	Long:  "Applies the schema to database.url directly, without going through the API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		url := initDatabaseURL
		if url == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			url = cfg.Database.URL
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()

		db, err := database.Open(ctx, url)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Schema ready ("+db.Dialect.String()+")"))
		return nil
	},
}

func init() {
	prospectListCmd.Flags().IntVar(&listOpts.Limit, "limit", 0, "Maximum rows (server default 100)")
	prospectListCmd.Flags().IntVar(&listOpts.Skip, "skip", 0, "Rows to skip")
	prospectListCmd.Flags().StringVar(&listOpts.Status, "status", "", "Filter by status")
	prospectListCmd.Flags().StringVar(&listOpts.Priority, "priority", "", "Filter by priority")
	prospectListCmd.Flags().StringVar(&listOpts.Industry, "industry", "", "Filter by industry")

	prospectAddCmd.Flags().StringVar(&addInput.CompanyName, "company", "", "Company name")
	prospectAddCmd.Flags().StringVar(&addInput.ContactName, "contact", "", "Contact name")
	prospectAddCmd.Flags().StringVar(&addInput.Email, "email", "", "Contact email")
	prospectAddCmd.Flags().StringVar(&addInput.Phone, "phone", "", "Phone number")
	prospectAddCmd.Flags().StringVar(&addInput.Industry, "industry", "", "Industry")
	prospectAddCmd.Flags().StringVar(&addInput.CompanySize, "size", "", "Company size")
	prospectAddCmd.Flags().StringVar(&addInput.Website, "website", "", "Company website")
	prospectAddCmd.Flags().StringVar(&addInput.Status, "status", "", "Pipeline status")
	prospectAddCmd.Flags().StringVar(&addInput.Priority, "priority", "", "Priority")
	prospectAddCmd.Flags().StringVar(&addInput.Notes, "notes", "", "Free-form notes")
	prospectAddCmd.Flags().StringSliceVar(&addInput.Tags, "tag", nil, "Tag (repeatable)")
	prospectAddCmd.MarkFlagRequired("company")
	prospectAddCmd.MarkFlagRequired("contact")
	prospectAddCmd.MarkFlagRequired("email")

	analyticsCmd.Flags().StringVar(&analyticsStart, "start", "", "Start date (YYYY-MM-DD or RFC3339)")
	analyticsCmd.Flags().StringVar(&analyticsEnd, "end", "", "End date (YYYY-MM-DD or RFC3339)")

	trendsCmd.Flags().IntVar(&trendDays, "days", 30, "Window in days (1-365)")

	loginCmd.Flags().StringVar(&loginUser, "username", "", "Username")
	loginCmd.Flags().StringVar(&loginPass, "password", "", "Password")
	loginCmd.MarkFlagRequired("username")
	loginCmd.MarkFlagRequired("password")

	initCmd.Flags().StringVar(&initDatabaseURL, "database-url", "", "Database URL (default from config)")
}
