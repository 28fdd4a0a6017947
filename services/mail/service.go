package mail

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/staffdesk/identity/config"
	"github.com/staffdesk/identity/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

var (
	// ErrAuthFailed and ErrConnectFailed classify transport failures so the
	// HTTP layer can produce actionable messages for the two common cases.
	ErrAuthFailed    = errors.New("mail transport rejected credentials")
	ErrConnectFailed = errors.New("mail transport unreachable")
)

// Message is the unit of notification dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Notifier delivers a message to its recipient. The SMTP implementation is
// selected when transport credentials are configured; otherwise the console
// implementation logs the message instead of delivering it.
type Notifier interface {
	Send(msg Message) error
}

type SMTPNotifier struct {
	config config.MailConfig
	client *mail.Client
	logger *logging.Service
}

func NewSMTPNotifier(cfg config.MailConfig, logger *logging.Service) (*SMTPNotifier, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username))
	}
	if cfg.Password != "" {
		clientOpts = append(clientOpts, mail.WithPassword(cfg.Password))
	}

	switch cfg.Encryption {
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	logger.Info("SMTP notifier initialized",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("from_address", cfg.FromAddress))

	return &SMTPNotifier{
		config: cfg,
		client: client,
		logger: logger,
	}, nil
}

func (n *SMTPNotifier) Send(msg Message) error {
	message := mail.NewMsg()

	fromAddr := n.config.FromAddress
	if n.config.FromName != "" {
		fromAddr = fmt.Sprintf("%s <%s>", n.config.FromName, n.config.FromAddress)
	}

	if err := message.From(fromAddr); err != nil {
		return fmt.Errorf("failed to set FROM address: %w", err)
	}
	if err := message.To(msg.To); err != nil {
		return fmt.Errorf("failed to set TO address: %w", err)
	}

	message.Subject(msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		message.SetBodyString(mail.TypeTextHTML, msg.HTML)
		message.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	case msg.HTML != "":
		message.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		message.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	if err := n.client.DialAndSend(message); err != nil {
		n.logger.Error("failed to send email",
			zap.Error(err),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return classifySendError(err)
	}

	n.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}

// classifySendError maps raw SMTP failures onto the two user-facing
// categories. Anything unrecognized stays a connectivity failure since that
// is the message a user can act on.
func classifySendError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "535"), strings.Contains(msg, "auth"), strings.Contains(msg, "credentials"):
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	default:
		return fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
}

// ConsoleNotifier logs messages as structured JSON instead of delivering
// them. Used in demo mode when no SMTP credentials are configured.
type ConsoleNotifier struct {
	logger *logging.Service
}

func NewConsoleNotifier(logger *logging.Service) *ConsoleNotifier {
	return &ConsoleNotifier{logger: logger}
}

func (n *ConsoleNotifier) Send(msg Message) error {
	n.logger.Info("demo mode: email not delivered",
		zap.String("message_id", uuid.New().String()),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("text", msg.Text),
		zap.Int("html_length", len(msg.HTML)))
	return nil
}
