package notifier

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"lendinghub/internal/config"
	"lendinghub/internal/microservices/http-api/models"

	"golang.org/x/time/rate"
)

// MailerError is a failure of the SMTP transport
type MailerError struct {
	Op  string
	Err error
}

func (e *MailerError) Error() string {
	return fmt.Sprintf("mailer %s: %v", e.Op, e.Err)
}

func (e *MailerError) Unwrap() error {
	return e.Err
}

// SendFunc has the signature of smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer e-mails the holder through an SMTP relay, at most MAIL_RATE_PER_SECOND
// messages per second.
type Mailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	limiter *rate.Limiter
	send    SendFunc
	logger  *slog.Logger
}

func NewMailer(cfg *config.Config, logger *slog.Logger) *Mailer {
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &Mailer{
		addr:    net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		auth:    auth,
		from:    cfg.MailFrom,
		limiter: rate.NewLimiter(rate.Limit(cfg.MailRatePerSecond), 1),
		send:    smtp.SendMail,
		logger:  logger,
	}
}

// WithSender replaces the SMTP transport
func (m *Mailer) WithSender(send SendFunc) *Mailer {
	m.send = send
	return m
}

func (m *Mailer) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	if holding.User == nil || holding.Stock == nil {
		return &NotificationError{Channel: "mail", HoldingID: holding.ID, Err: errHoldingNotLoaded}
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return &NotificationError{Channel: "mail", HoldingID: holding.ID, Err: &MailerError{Op: "wait", Err: err}}
	}

	msg := holdCreatedMessage(m.from, holding, time.Now())
	if err := m.send(m.addr, m.auth, m.from, []string{holding.User.Email}, msg); err != nil {
		return &NotificationError{Channel: "mail", HoldingID: holding.ID, Err: &MailerError{Op: "send", Err: err}}
	}

	m.logger.Info("hold_mail_sent", "holding_id", holding.ID, "to", holding.User.Email)
	return nil
}

func holdCreatedMessage(from string, holding *models.Holding, now time.Time) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", holding.User.Email)
	fmt.Fprintf(&b, "Subject: Your reserved book is on hold\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Hello %s,\r\n\r\n", holding.User.Username)
	fmt.Fprintf(&b, "%s, which you reserved, is now on hold for you.\r\n", bookTitle(holding))
	fmt.Fprintf(&b, "Please pick it up by %s.\r\n", expiration(holding))
	return b.Bytes()
}
