package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

// ContactNotification is the data of the "contact-to-company" message.
type ContactNotification struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ThankYou is the data of the "thank-you" acknowledgment.
type ThankYou struct {
	Name         string
	BusinessName string
}

// SMTPDiagnostic is the data of the health-check email.
type SMTPDiagnostic struct {
	BusinessName string
	Timestamp    time.Time
}

// NewContactNotification renders the notification sent to the business inbox.
func NewContactNotification(to string, data ContactNotification) (Message, error) {
	msg := Message{
		To:      to,
		ReplyTo: data.Email,
		Subject: fmt.Sprintf("New Contact Form Submission: %s", data.Subject),
	}
	return render(msg, contactToCompanyHTML, contactToCompanyText, data)
}

// NewThankYou renders the acknowledgment sent back to the submitter.
func NewThankYou(to string, data ThankYou) (Message, error) {
	msg := Message{
		To:      to,
		Subject: fmt.Sprintf("Thank you for contacting %s", data.BusinessName),
	}
	return render(msg, thankYouHTML, thankYouText, data)
}

// NewSMTPDiagnostic renders the diagnostic email the health check sends to itself.
func NewSMTPDiagnostic(to string, data SMTPDiagnostic) (Message, error) {
	msg := Message{
		To:      to,
		Subject: fmt.Sprintf("%s - SMTP Test Email", data.BusinessName),
	}
	return render(msg, smtpDiagnosticHTML, nil, data)
}

func render(msg Message, html *htmltemplate.Template, text *texttemplate.Template, data any) (Message, error) {
	var body bytes.Buffer
	if err := html.Execute(&body, data); err != nil {
		return Message{}, fmt.Errorf("failed to execute email template %q: %w", html.Name(), err)
	}
	msg.HTMLBody = body.String()

	if text != nil {
		body.Reset()
		if err := text.Execute(&body, data); err != nil {
			return Message{}, fmt.Errorf("failed to execute email template %q: %w", text.Name(), err)
		}
		msg.TextBody = body.String()
	}
	return msg, nil
}

var templateFuncs = map[string]any{
	"rfc3339": func(t time.Time) string { return t.UTC().Format("2006-01-02T15:04:05.000Z07:00") },
	"year":    func() int { return time.Now().Year() },
}

var (
	contactToCompanyHTML = htmltemplate.Must(htmltemplate.New("contact-to-company").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Contact Form Submission</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0b3d91; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .field { margin-bottom: 15px; }
        .label { font-weight: bold; color: #555; }
        .message-box { background: white; padding: 15px; border-left: 4px solid #0b3d91; margin-top: 10px; white-space: pre-wrap; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>New Contact Form Submission</h1>
        </div>
        <div class="content">
            <div class="field">
                <div class="label">Name:</div>
                <div>{{.Name}}</div>
            </div>
            <div class="field">
                <div class="label">Email:</div>
                <div><a href="mailto:{{.Email}}">{{.Email}}</a></div>
            </div>
            <div class="field">
                <div class="label">Subject:</div>
                <div>{{.Subject}}</div>
            </div>
            <div class="field">
                <div class="label">Message:</div>
                <div class="message-box">{{.Message}}</div>
            </div>
        </div>
        <div class="footer">
            <p>This email was sent from the website contact form.</p>
            <p>Reply directly to this email to answer {{.Name}}.</p>
        </div>
    </div>
</body>
</html>`))

	contactToCompanyText = texttemplate.Must(texttemplate.New("contact-to-company.txt").Funcs(templateFuncs).Parse(`New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}
`))

	thankYouHTML = htmltemplate.Must(htmltemplate.New("thank-you").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Thank you for contacting {{.BusinessName}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #0b3d91; color: white; padding: 20px; text-align: center; }
        .content { padding: 20px; background: #f9f9f9; }
        .footer { text-align: center; padding: 20px; color: #888; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Thank you, {{.Name}}!</h1>
        </div>
        <div class="content">
            <p>We have received your message and one of our team members will get back to you soon.</p>
            <p>Best regards,<br>The {{.BusinessName}} Team</p>
        </div>
        <div class="footer">
            <p>&copy; {{year}} {{.BusinessName}}. This is an automated message.</p>
        </div>
    </div>
</body>
</html>`))

	thankYouText = texttemplate.Must(texttemplate.New("thank-you.txt").Funcs(templateFuncs).Parse(`Thank you, {{.Name}}!

We have received your message and one of our team members will get back to you soon.

Best regards,
The {{.BusinessName}} Team
`))

	smtpDiagnosticHTML = htmltemplate.Must(htmltemplate.New("smtp-diagnostic").Funcs(templateFuncs).Parse(
		`<h2>SMTP Test Successful!</h2><p>Timestamp: {{rfc3339 .Timestamp}}</p>`))
)
