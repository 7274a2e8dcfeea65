package infra

import (
	"errors"
	"net/smtp"
	"testing"

	"github.com/AlejndroSG/ImpulsaTelecom-sub002/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailerNoConfigurado(t *testing.T) {
	m := NewMailer(&config.Config{})
	assert.False(t, m.Configured())
	assert.ErrorContains(t, m.Send(Mensaje{To: "a@b.es"}), "SMTP_HOST")
}

func TestMailerSendBuildsMessage(t *testing.T) {
	m := NewMailer(&config.Config{
		SMTPHost: "smtp.impulsatelecom.es",
		SMTPPort: 587,
		SMTPUser: "avisos@impulsatelecom.es",
		SMTPFrom: "Impulsa Telecom <avisos@impulsatelecom.es>",
	})

	var got *email.Email
	var gotAddr string
	m.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		got, gotAddr = e, addr
		return nil
	}

	err := m.Send(Mensaje{To: "maria@impulsatelecom.es", Subject: "Recordatorio", Text: "ficha", HTML: "<p>ficha</p>"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.impulsatelecom.es:587", gotAddr)
	assert.Equal(t, []string{"maria@impulsatelecom.es"}, got.To)
	assert.Equal(t, "Impulsa Telecom <avisos@impulsatelecom.es>", got.From)
	assert.Equal(t, "<p>ficha</p>", string(got.HTML))
}

func TestMailerSendWrapsError(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25})
	m.send = func(*email.Email, string, smtp.Auth) error { return errors.New("connection refused") }

	err := m.Send(Mensaje{To: "x@y.es", Text: "t"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestMailerAdjuntoInexistente(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 25})
	m.send = func(*email.Email, string, smtp.Auth) error { return nil }
	err := m.Send(Mensaje{To: "x@y.es", Adjunto: "/no/existe.pdf"})
	assert.ErrorContains(t, err, "adjuntar")
}
