package delivery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

// Config holds Postmark sender configuration.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN,required"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN,required"`
	SenderEmail          string `env:"SENDER_EMAIL,required"`
	SupportEmail         string `env:"SUPPORT_EMAIL,required"`
}

// PostmarkSender delivers email codes through Postmark's transactional API.
// It only handles the email channel; SMS needs a separate sender.
type PostmarkSender struct {
	client *postmark.Client
	cfg    Config
}

// NewPostmarkSender creates a Postmark-backed sender. Tokens are required at
// construction so misconfiguration fails at startup rather than on first use.
func NewPostmarkSender(cfg Config) (*PostmarkSender, error) {
	if cfg.PostmarkServerToken == "" || cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: postmark tokens are required", ErrSendFailed)
	}
	if cfg.SenderEmail == "" {
		return nil, fmt.Errorf("%w: sender email is required", ErrSendFailed)
	}

	return &PostmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		cfg:    cfg,
	}, nil
}

// SendCode delivers a one-time code or link by email.
func (s *PostmarkSender) SendCode(ctx context.Context, msg CodeMessage) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if msg.Channel != identity.KindEmail {
		return ErrUnsupportedChannel
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.cfg.SenderEmail,
		ReplyTo:  s.cfg.SupportEmail,
		To:       msg.To,
		Subject:  subjectFor(msg.Purpose),
		Tag:      "otp-" + msg.Purpose,
		TextBody: textBody(msg),
		HTMLBody: htmlBody(msg),
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}

func subjectFor(purpose string) string {
	switch purpose {
	case "restore":
		return "Your password reset code"
	case "login":
		return "Your sign-in link"
	default:
		return "Your verification code"
	}
}

func textBody(msg CodeMessage) string {
	var b strings.Builder
	if msg.LinkBase != "" {
		b.WriteString("Follow this link to continue:\n\n")
		b.WriteString(link(msg))
	} else {
		b.WriteString("Your code is: ")
		b.WriteString(msg.Code)
	}
	if msg.ExpiresIn > 0 {
		fmt.Fprintf(&b, "\n\nIt expires in %s.", msg.ExpiresIn)
	}
	b.WriteString("\n\nIf you did not request this, you can ignore this message.")
	return b.String()
}

func htmlBody(msg CodeMessage) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	if msg.LinkBase != "" {
		fmt.Fprintf(&b, `<p><a href="%s">Continue</a></p>`, link(msg))
	} else {
		fmt.Fprintf(&b, "<p>Your code is: <strong>%s</strong></p>", msg.Code)
	}
	if msg.ExpiresIn > 0 {
		fmt.Fprintf(&b, "<p>It expires in %s.</p>", msg.ExpiresIn)
	}
	b.WriteString("<p>If you did not request this, you can ignore this message.</p>")
	b.WriteString("</body></html>")
	return b.String()
}

func link(msg CodeMessage) string {
	base := strings.TrimRight(msg.LinkBase, "/")
	return base + "/" + msg.Code
}
