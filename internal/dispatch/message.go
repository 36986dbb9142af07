package dispatch

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/mr1hm/go-disaster-relief/internal/mailer"
	"github.com/mr1hm/go-disaster-relief/internal/models"
)

const notificationHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Subject}}</title>
</head>
<body style="font-family: -apple-system, Helvetica, Arial, sans-serif; color: #1a1f36;">
  <h2 style="color: {{.Color}};">{{.Event}} ({{.Severity}})</h2>
  <p>Hello {{.Name}},</p>
  <p>An alert has been issued for your area{{if .Area}}: <strong>{{.Area}}</strong>{{end}}.</p>
  {{if .Headline}}<p><strong>{{.Headline}}</strong></p>{{end}}
  {{if .Description}}<p style="white-space: pre-line;">{{.Description}}</p>{{end}}
  {{if .Payout}}<p style="background: #e6f4ea; padding: 12px; border-radius: 4px;">
    A relief payment of <strong>${{.Amount}}</strong> has been credited to your account.
    Your balance is now <strong>${{.Balance}}</strong>.
  </p>{{end}}
  <p>Stay safe and follow instructions from local officials.</p>
</body>
</html>`

var notificationHTML = template.Must(template.New("notification").Parse(notificationHTMLTemplate))

type messageData struct {
	Subject     string
	Name        string
	Event       string
	Severity    string
	Headline    string
	Description string
	Area        string
	Color       string
	Payout      bool
	Amount      int64
	Balance     int64
}

func severityColor(severity string) string {
	switch models.ParseSeverity(severity) {
	case models.SeverityExtreme:
		return "#b3261e"
	case models.SeveritySevere:
		return "#e8710a"
	case models.SeverityModerate:
		return "#f9ab00"
	default:
		return "#1a73e8"
	}
}

// composeMessage builds the notification for one user. balance is only meaningful when payout is set.
func composeMessage(u *models.User, alert *models.Alert, payout bool, amount, balance int64) (mailer.Message, error) {
	severity := alert.Severity
	if severity == "" {
		severity = string(models.SeverityUnknown)
	}
	event := alert.Event
	if event == "" {
		event = "Weather Alert"
	}

	subject := fmt.Sprintf("%s Alert: %s", severity, event)
	if payout {
		subject += fmt.Sprintf(" - $%d relief payment issued", amount)
	}

	data := messageData{
		Subject:     subject,
		Name:        u.DisplayName(),
		Event:       event,
		Severity:    severity,
		Headline:    alert.Headline,
		Description: alert.Description,
		Area:        alert.AreaDesc,
		Color:       severityColor(severity),
		Payout:      payout,
		Amount:      amount,
		Balance:     balance,
	}

	var html bytes.Buffer
	if err := notificationHTML.Execute(&html, data); err != nil {
		return mailer.Message{}, fmt.Errorf("error rendering notification: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hello %s,\n\n", data.Name)
	fmt.Fprintf(&text, "%s (%s)\n", event, severity)
	if alert.AreaDesc != "" {
		fmt.Fprintf(&text, "Area: %s\n", alert.AreaDesc)
	}
	if alert.Headline != "" {
		fmt.Fprintf(&text, "\n%s\n", alert.Headline)
	}
	if alert.Description != "" {
		fmt.Fprintf(&text, "\n%s\n", alert.Description)
	}
	if payout {
		fmt.Fprintf(&text, "\nA relief payment of $%d has been credited to your account. Your balance is now $%d.\n", amount, balance)
	}
	text.WriteString("\nStay safe and follow instructions from local officials.\n")

	return mailer.Message{
		To:      u.Email,
		Subject: subject,
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
