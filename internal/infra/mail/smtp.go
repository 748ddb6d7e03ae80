// Package mail — отправка писем через SMTP (коды подтверждения и
// сообщения с формы обратной связи).
package mail

import (
	"context"
	"fmt"
	"log"

	gomail "github.com/wneessen/go-mail"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Admin    string // адрес получателя обратной связи
}

type Sender struct {
	client *gomail.Client
	cfg    Config
	logger *log.Logger
}

func New(cfg Config, logger *log.Logger) (*Sender, error) {
	cl, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Sender{client: cl, cfg: cfg, logger: logger}, nil
}

var _ domain.Mailer = (*Sender)(nil)

func (s *Sender) SendCode(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Verification code")
	msg.SetBodyString(gomail.TypeTextHTML,
		fmt.Sprintf("<p>Your verification code is <b>%s</b>. It expires in one minute.</p>", code))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Printf("send code to %s failed: %v", to, err)
		return err
	}
	s.logger.Printf("verification code sent to %s", to)
	return nil
}

// SendContact пересылает сообщение с формы обратной связи админу.
func (s *Sender) SendContact(ctx context.Context, subject, name, replyTo, content string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return err
	}
	if err := msg.To(s.cfg.Admin); err != nil {
		return err
	}
	if replyTo != "" {
		if err := msg.ReplyTo(replyTo); err != nil {
			return err
		}
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("From: %s <%s>\n\n%s", name, replyTo, content))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Printf("send contact mail failed: %v", err)
		return err
	}
	return nil
}
