// Package mailer sends the platform's templated notification emails over SMTP.
package mailer

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"gopkg.in/mail.v2"
)

//go:embed "templates"
var templateFS embed.FS

// Template files available to Send.
const (
	TemplateUserWelcome   = "user_welcome.tmpl"
	TemplateReviewCreated = "review_created.tmpl"
)

// Mailer holds the SMTP dialer and the From address of outgoing emails
// (for example "Book Reviews <no-reply@bookreviews.local>").
type Mailer struct {
	dialer *mail.Dialer
	sender string
}

// New initializes a mail.Dialer for the given SMTP server. Sends time out
// after 5 seconds.
func New(host string, port int, username, password, sender string) Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = 5 * time.Second
	return Mailer{
		dialer: dialer,
		sender: sender,
	}
}

// message is a rendered email.
type message struct {
	subject   string
	plainBody string
	htmlBody  string
}

// render executes the subject, plainBody and htmlBody blocks of a template.
func render(templateFile string, data any) (message, error) {
	tmpl, err := template.New("email").ParseFS(templateFS, "templates/"+templateFile)
	if err != nil {
		return message{}, err
	}
	var msg message
	blocks := []struct {
		name string
		dst  *string
	}{
		{"subject", &msg.subject},
		{"plainBody", &msg.plainBody},
		{"htmlBody", &msg.htmlBody},
	}
	for _, block := range blocks {
		buf := new(bytes.Buffer)
		if err := tmpl.ExecuteTemplate(buf, block.name, data); err != nil {
			return message{}, err
		}
		*block.dst = buf.String()
	}
	return msg, nil
}

// Send renders templateFile with data and emails it to recipient, retrying
// up to three times.
func (m Mailer) Send(recipient, templateFile string, data any) error {
	rendered, err := render(templateFile, data)
	if err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.sender)
	msg.SetHeader("Subject", rendered.subject)
	msg.SetBody("text/plain", rendered.plainBody)
	msg.AddAlternative("text/html", rendered.htmlBody)
	for i := 1; i <= 3; i++ {
		err = m.dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return err
}
