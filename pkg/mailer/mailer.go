package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog/log"
)

// Sender envía correo transaccional (verificación de cuenta, reset de
// contraseña, cambio de email). La entrega es best-effort: los usecases lo
// invocan después del commit y solo registran el fallo.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Mailgun implementación de Sender sobre la API de Mailgun.
type Mailgun struct {
	client *mg.MailgunImpl
	sender string
}

// NewMailgun crea el cliente con el dominio y la API key de la cuenta.
func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender}
}

// Send envía un correo. html es opcional; si viene se usa como cuerpo HTML.
func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	msg := m.client.NewMessage(m.sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := m.client.Send(c, msg)
	return err
}

// Noop descarta los correos. Se usa cuando Mailgun no está configurado
// (desarrollo local, CI) para que los flujos de registro sigan funcionando.
type Noop struct{}

// NewNoop crea el sender nulo.
func NewNoop() *Noop { return &Noop{} }

// Send registra el descarte y no envía nada.
func (n *Noop) Send(_ context.Context, to, subject, _, _ string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("correo descartado: mailer deshabilitado")
	return nil
}
