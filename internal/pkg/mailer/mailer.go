package mailer

import (
	"gopkg.in/gomail.v2"
)

// Mailer define o contrato de envio de e-mail usado pelo fluxo de
// redefinição de senha. O serviço de autenticação depende apenas desta
// interface; o transporte concreto é injetado no main.
type Mailer interface {
	SendMail(to, subject, html string) error
}

// SMTPMailer é a implementação concreta da interface Mailer via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer cria um Mailer apontando para o servidor SMTP configurado.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendMail monta e envia uma mensagem HTML. A conexão SMTP é aberta por
// envio; o volume do fluxo de redefinição não justifica manter sessão.
func (m *SMTPMailer) SendMail(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	return m.dialer.DialAndSend(msg)
}
