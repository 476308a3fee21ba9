package usecase

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/xavierca1/prospectplus-agent/internal/entity"
)

const (
	maxListLimit     = 1000
	defaultListLimit = 100
	maxQueryLength   = 2000
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(field, msg string) {
	v.errs = append(v.errs, ValidationError{field, msg})
}

func (v *validator) required(field, value string, max int) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return
	}
	v.maxLen(field, value, max)
}

func (v *validator) maxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("must not exceed %d characters", max))
	}
}

func (v *validator) email(value string) {
	if strings.TrimSpace(value) == "" {
		v.add("email", "is required")
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !qualifiedDomain(value) {
		v.add("email", "is invalid")
	}
}

// qualifiedDomain requires at least two non-empty dot-separated labels after the @.
func qualifiedDomain(addr string) bool {
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return false
	}
	labels := strings.Split(addr[at+1:], ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}
	return true
}

func (v *validator) status(value string) {
	if value != "" && !entity.Status(value).Valid() {
		v.add("status", "must be one of new, contacted, qualified, proposal, negotiation, closed_won, closed_lost")
	}
}

func (v *validator) priority(value string) {
	if value != "" && !entity.Priority(value).Valid() {
		v.add("priority", "must be one of low, medium, high, critical")
	}
}

func (v *validator) tags(tags []string) {
	for i, t := range tags {
		if strings.TrimSpace(t) == "" {
			v.add(fmt.Sprintf("tags[%d]", i), "must not be empty")
		}
	}
}

func (v *validator) optional(in CreateProspectInput) {
	v.maxLen("phone", in.Phone, 50)
	v.maxLen("industry", in.Industry, 100)
	v.maxLen("company_size", in.CompanySize, 50)
	v.maxLen("website", in.Website, 255)
}

func ValidateCreateProspectInput(in CreateProspectInput) []ValidationError {
	var v validator
	v.required("company_name", in.CompanyName, 200)
	v.required("contact_name", in.ContactName, 200)
	v.email(in.Email)
	v.optional(in)
	v.tags(in.Tags)
	v.status(in.Status)
	v.priority(in.Priority)
	return v.errs
}

func ValidateUpdateProspectInput(in UpdateProspectInput) []ValidationError {
	var v validator
	if in.CompanyName != nil {
		v.required("company_name", *in.CompanyName, 200)
	}
	if in.ContactName != nil {
		v.required("contact_name", *in.ContactName, 200)
	}
	if in.Email != nil {
		v.email(*in.Email)
	}
	v.optional(CreateProspectInput{
		Phone:       deref(in.Phone),
		Industry:    deref(in.Industry),
		CompanySize: deref(in.CompanySize),
		Website:     deref(in.Website),
	})
	if in.Tags != nil {
		v.tags(*in.Tags)
	}
	if in.Status != nil {
		if *in.Status == "" {
			v.add("status", "must not be empty")
		}
		v.status(*in.Status)
	}
	if in.Priority != nil {
		if *in.Priority == "" {
			v.add("priority", "must not be empty")
		}
		v.priority(*in.Priority)
	}
	return v.errs
}

func ValidateListProspectsInput(in ListProspectsInput) []ValidationError {
	var v validator
	if in.Skip < 0 {
		v.add("skip", "must be greater than or equal to 0")
	}
	if in.Limit < 1 || in.Limit > maxListLimit {
		v.add("limit", fmt.Sprintf("must be between 1 and %d", maxListLimit))
	}
	v.status(in.Status)
	v.priority(in.Priority)
	return v.errs
}

func ValidateOutreachInput(in OutreachInput) []ValidationError {
	var v validator
	v.required("subject", in.Subject, 200)
	v.required("body", in.Body, 10000)
	return v.errs
}

func ValidateChatInput(in ChatInput) []ValidationError {
	var v validator
	v.required("query", in.Query, maxQueryLength)
	return v.errs
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
