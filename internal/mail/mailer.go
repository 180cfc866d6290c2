package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/xthome/home-manager/internal/config"
)

type Kind string

const (
	KindWelcome       Kind = "welcome"
	KindPasswordReset Kind = "password_reset"
	KindInvite        Kind = "invite"
	KindRevoke        Kind = "revoke"
)

// Message is one email request from the core. Params carry the
// template values each kind needs (name, inviter_name, record_name,
// temp_password, reset_link).
type Message struct {
	Kind      Kind
	Recipient string
	Params    map[string]string
}

// Mailer delivers a single message. Implementations own delivery
// mechanics; the core only requests sends.
type Mailer interface {
	Send(msg Message) error
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   fmt.Sprintf("%s <%s>", cfg.MailSenderName, cfg.MailSender),
	}
}

func (m *SMTPMailer) Send(msg Message) error {
	subject, body := render(msg)

	em := gomail.NewMessage()
	em.SetHeader("From", m.from)
	em.SetHeader("To", msg.Recipient)
	em.SetHeader("Subject", subject)
	em.SetBody("text/html", body)

	return m.dialer.DialAndSend(em)
}

func render(msg Message) (subject, body string) {
	p := msg.Params
	name := p["name"]
	if name == "" {
		name = "there"
	}

	switch msg.Kind {
	case KindWelcome:
		return "Welcome to Home Manager!",
			fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Start by creating your first record.</p>", name)

	case KindPasswordReset:
		return "Your password reset request",
			fmt.Sprintf("<p>Hi %s,</p><p>Reset your password using this link: <a href=%q>reset password</a>. The link expires in 24 hours.</p>",
				name, p["reset_link"])

	case KindInvite:
		body := fmt.Sprintf("<p>Hi %s,</p><p>%s invited you to view the record <b>%s</b> on Home Manager.</p>",
			name, p["inviter_name"], p["record_name"])
		if tmp := p["temp_password"]; tmp != "" {
			body += fmt.Sprintf("<p>Sign in with the temporary password <code>%s</code> and set a new one within 24 hours.</p>", tmp)
		}
		return "You have been invited to view a record", body

	case KindRevoke:
		return "Record access revoked",
			fmt.Sprintf("<p>Hi %s,</p><p>Your access to the record <b>%s</b> has been revoked.</p>",
				name, p["record_name"])
	}

	return "Home Manager notification", fmt.Sprintf("<p>Hi %s,</p>", name)
}
