package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer interface {
	Send(recipient, templateFile string, data any) error
}

// SMTPMailer renders a template with "subject", "plainBody" and "htmlBody"
// blocks and delivers it over SMTP.
type SMTPMailer struct {
	dialer *mail.Dialer
	sender string
}

func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second

	return &SMTPMailer{
		dialer: dialer,
		sender: sender,
	}
}

func (m *SMTPMailer) Send(recipient, templateFile string, data any) error {
	subject, plainBody, htmlBody, err := render(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", plainBody)
	msg.AddAlternative("text/html", htmlBody)

	for i := 1; i <= 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}

		time.Sleep(500 * time.Millisecond)
	}

	return err
}

func render(templateFile string, data any) (string, string, string, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return "", "", "", err
	}

	subject := new(bytes.Buffer)
	err = tmpl.ExecuteTemplate(subject, "subject", data)
	if err != nil {
		return "", "", "", err
	}

	plainBody := new(bytes.Buffer)
	err = tmpl.ExecuteTemplate(plainBody, "plainBody", data)
	if err != nil {
		return "", "", "", err
	}

	htmlBody := new(bytes.Buffer)
	err = tmpl.ExecuteTemplate(htmlBody, "htmlBody", data)
	if err != nil {
		return "", "", "", err
	}

	return subject.String(), plainBody.String(), htmlBody.String(), nil
}
