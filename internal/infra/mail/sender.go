package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/prospectplus-agent/internal/usecase"
)

var outreachTemplate = template.Must(template.New("outreach").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
<p>Hi {{.Name}},</p>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}<p style="color: #888; font-size: 12px;">Sent by {{.From}}</p>
</body>
</html>`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	s := &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
	s.dial = func(m ...*gomail.Message) error {
		return gomail.NewDialer(s.Host, s.Port, s.User, s.Password).DialAndSend(m...)
	}
	return s
}

// Send renders the outreach template and delivers it over SMTP.
func (s *EmailSender) Send(ctx context.Context, msg usecase.OutreachEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.Build(msg)
	if err != nil {
		return err
	}
	if err := s.dial(m); err != nil {
		return fmt.Errorf("send smtp email: %w", err)
	}
	return nil
}

// Build renders msg into a gomail message without sending it.
func (s *EmailSender) Build(msg usecase.OutreachEmail) (*gomail.Message, error) {
	var body bytes.Buffer
	data := struct {
		Name       string
		Paragraphs []string
		From       string
	}{
		Name:       msg.Name,
		Paragraphs: paragraphs(msg.Body),
		From:       s.From,
	}
	if err := outreachTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render email template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetAddressHeader("To", msg.To, msg.Name)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	m.AddAlternative("text/html", body.String())
	return m, nil
}

func paragraphs(body string) []string {
	var out []string
	for _, p := range bytes.Split([]byte(body), []byte("\n\n")) {
		if t := bytes.TrimSpace(p); len(t) > 0 {
			out = append(out, string(t))
		}
	}
	return out
}
