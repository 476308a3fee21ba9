package usecase

import (
	"time"

	"github.com/xavierca1/prospectplus-agent/internal/agent"
	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

type CreateProspectInput struct {
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Industry    string     `json:"industry"`
	CompanySize string     `json:"company_size"`
	Website     string     `json:"website"`
	Notes       string     `json:"notes"`
	Tags        []string   `json:"tags"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	LastContact *time.Time `json:"last_contact"`
}

// UpdateProspectInput is a partial update: absent or null fields are left unchanged.
type UpdateProspectInput struct {
	CompanyName *string    `json:"company_name"`
	ContactName *string    `json:"contact_name"`
	Email       *string    `json:"email"`
	Phone       *string    `json:"phone"`
	Industry    *string    `json:"industry"`
	CompanySize *string    `json:"company_size"`
	Website     *string    `json:"website"`
	Notes       *string    `json:"notes"`
	Tags        *[]string  `json:"tags"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	LastContact *time.Time `json:"last_contact"`
}

type ListProspectsInput struct {
	Status   string
	Priority string
	Industry string
	Skip     int
	Limit    int
}

type AnalysisOutput struct {
	ProspectID string         `json:"prospect_id"`
	Analysis   agent.Analysis `json:"analysis"`
}

type OverviewInput struct {
	StartDate string
	EndDate   string
}

type OverviewOutput struct {
	TotalProspects int                     `json:"total_prospects"`
	ByStatus       map[entity.Status]int   `json:"by_status"`
	ByPriority     map[entity.Priority]int `json:"by_priority"`
	ConversionRate float64                 `json:"conversion_rate"`
	AvgScore       *float64                `json:"avg_score"`
	Trends         map[string]int          `json:"trends"`
}

type TrendsOutput struct {
	Period      string         `json:"period"`
	StartDate   time.Time      `json:"start_date"`
	EndDate     time.Time      `json:"end_date"`
	DailyCounts map[string]int `json:"daily_counts"`
	Total       int            `json:"total"`
}

type TopIndustriesOutput struct {
	Industries []entity.IndustryCount `json:"industries"`
}

type OutreachInput struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type OutreachEmail struct {
	To      string
	Name    string
	Subject string
	Body    string
}

type TokenOutput struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type ChatInput struct {
	Query   string         `json:"query"`
	Context map[string]any `json:"context"`
	Stream  bool           `json:"stream"`
}

type AgentStatusOutput struct {
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
	AIEnabled    bool     `json:"ai_enabled"`
	Provider     string   `json:"provider"`
	Version      string   `json:"version"`
}
