package infra

import (
	"fmt"
	"net/smtp"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"

	"github.com/jordan-wright/email"
)

// Mensaje is one outgoing email. HTML is optional; Text is always sent so
// clients without HTML support still get the reminder.
type Mensaje struct {
	To      string
	Subject string
	Text    string
	HTML    string
	Adjunto string // absolute path, optional
}

// Mailer sends Mensajes through the configured SMTP relay.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     cfg.FromAddress(),
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// Configured reports whether an SMTP host was provided.
func (m *Mailer) Configured() bool { return m.host != "" }

// Send delivers msg. Returns an error without dialing when SMTP is not configured.
func (m *Mailer) Send(msg Mensaje) error {
	if !m.Configured() {
		return fmt.Errorf("mailer: SMTP_HOST no configurado")
	}
	e := m.build(msg)
	if msg.Adjunto != "" {
		if _, err := e.AttachFile(msg.Adjunto); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", msg.Adjunto, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := m.send(e, m.addr, auth); err != nil {
		return fmt.Errorf("mailer: enviar a %s: %w", msg.To, err)
	}
	return nil
}

func (m *Mailer) build(msg Mensaje) *email.Email {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}
	return e
}
