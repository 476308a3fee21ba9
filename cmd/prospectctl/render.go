package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
	"github.com/xavierca1/prospectplus-agent/internal/client"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

var (
	primary = lipgloss.Color("#2196F3")
	accent  = lipgloss.Color("#8BC34A")
	warning = lipgloss.Color("#FFC107")
	danger  = lipgloss.Color("#e53935")
	muted   = lipgloss.Color("#9E9E9E")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primary)
	labelStyle   = lipgloss.NewStyle().Foreground(muted).Width(14)
	successStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primary).
			Padding(0, 1)
)

func panel(title string, lines ...string) string {
	body := titleStyle.Render(title) + "\n" + strings.Join(lines, "\n")
	return panelStyle.Render(body)
}

func field(label, value string) string {
	if value == "" {
		value = "-"
	}
	return labelStyle.Render(label) + value
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func formatScore(score *float64) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *score)
}

func priorityStyle(p entity.Priority) lipgloss.Style {
	switch {
	case p.Urgent():
		return lipgloss.NewStyle().Foreground(danger)
	case p == entity.PriorityMedium:
		return lipgloss.NewStyle().Foreground(warning)
	}
	return lipgloss.NewStyle()
}

func renderProspectTable(list []entity.Prospect) string {
	if len(list) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("No prospects found.")
	}
	t := newTable("ID", "Company", "Contact", "Email", "Status", "Priority", "Score")
	for _, p := range list {
		t.Row(p.ID, p.CompanyName, p.ContactName, p.Email, string(p.Status),
			priorityStyle(p.Priority).Render(string(p.Priority)), formatScore(p.Score))
	}
	return t.Render()
}

func renderProspect(p *entity.Prospect) string {
	lastContact := ""
	if p.LastContact != nil {
		lastContact = p.LastContact.Format("2006-01-02 15:04")
	}
	return panel(p.CompanyName,
		field("ID", p.ID),
		field("Contact", p.ContactName),
		field("Email", p.Email),
		field("Phone", p.Phone),
		field("Industry", p.Industry),
		field("Size", p.CompanySize),
		field("Website", p.Website),
		field("Status", string(p.Status)),
		field("Priority", priorityStyle(p.Priority).Render(string(p.Priority))),
		field("Score", formatScore(p.Score)),
		field("Tags", strings.Join(p.Tags, ", ")),
		field("Last contact", lastContact),
		field("Notes", p.Notes),
	)
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "  -"
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = "  • " + s
	}
	return strings.Join(out, "\n")
}

func renderAnalysis(out *usecase.AnalysisOutput) string {
	a := out.Analysis
	return panel("Analysis "+out.ProspectID,
		field("Score", fmt.Sprintf("%.2f", a.Score)),
		field("Confidence", fmt.Sprintf("%.2f", a.Confidence)),
		titleStyle.Render("Insights"), bullets(a.Insights),
		titleStyle.Render("Recommendations"), bullets(a.Recommendations),
		titleStyle.Render("Next steps"), bullets(a.NextSteps),
	)
}

func renderChat(reply *agent.ChatReply) string {
	lines := []string{reply.Response, "", field("Confidence", fmt.Sprintf("%.2f", reply.Confidence))}
	if mode, ok := reply.Metadata["mode"]; ok {
		lines = append(lines, field("Mode", fmt.Sprint(mode)))
	}
	if provider, ok := reply.Metadata["provider"]; ok {
		lines = append(lines, field("Provider", fmt.Sprint(provider)))
	}
	return panel("Assistant", lines...)
}

func renderStatus(h *client.Health, a *usecase.AgentStatusOutput) string {
	status := successStyle.Render(h.Status)
	if h.Status != "healthy" {
		status = errorStyle.Render(h.Status)
	}
	lines := []string{
		field("Status", status),
		field("Version", h.Version),
		field("Environment", h.Environment),
		field("Uptime", h.Uptime),
		field("AI enabled", fmt.Sprint(a.AIEnabled)),
		field("Provider", a.Provider),
	}
	for _, name := range sortedKeys(h.Dependencies) {
		lines = append(lines, field(name, h.Dependencies[name]))
	}
	return panel("ProspectPlus", lines...)
}

func renderOverview(o *usecase.OverviewOutput) string {
	avg := "-"
	if o.AvgScore != nil {
		avg = fmt.Sprintf("%.2f", *o.AvgScore)
	}
	summary := panel("Overview",
		field("Prospects", fmt.Sprint(o.TotalProspects)),
		field("Conversion", fmt.Sprintf("%.1f%%", o.ConversionRate*100)),
		field("Avg score", avg),
	)

	byStatus := newTable("Status", "Count")
	for _, s := range entity.Statuses {
		byStatus.Row(string(s), fmt.Sprint(o.ByStatus[s]))
	}
	byPriority := newTable("Priority", "Count")
	for _, p := range entity.Priorities {
		byPriority.Row(string(p), fmt.Sprint(o.ByPriority[p]))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		summary,
		lipgloss.JoinHorizontal(lipgloss.Top, byStatus.Render(), "  ", byPriority.Render()),
	)
}

func renderTrends(t *usecase.TrendsOutput) string {
	tbl := newTable("Date", "Created", "")
	for _, day := range sortedKeys(t.DailyCounts) {
		n := t.DailyCounts[day]
		tbl.Row(day, fmt.Sprint(n), lipgloss.NewStyle().Foreground(accent).Render(strings.Repeat("█", min(n, 40))))
	}
	header := titleStyle.Render(fmt.Sprintf("%s: %d created", t.Period, t.Total))
	if len(t.DailyCounts) == 0 {
		return header
	}
	return header + "\n" + tbl.Render()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
