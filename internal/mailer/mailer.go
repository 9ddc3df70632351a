package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"github.com/andresuchdata/stockpulse/internal/config"
)

// Attachment is a binary artifact attached to an outbound message.
type Attachment struct {
	Filename    string
	Content     []byte
	ContentType string
}

// Message is one outbound email.
type Message struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// Sender delivers messages. Delivery is an independent failure domain: a
// failed send never invalidates work already persisted by the caller.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(cfg config.MailConfig) (Sender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP_HOST not set")
	}
	if cfg.Port == "" {
		return nil, fmt.Errorf("SMTP_PORT not set")
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	if from == "" {
		return nil, fmt.Errorf("MAIL_FROM not set")
	}
	return &smtpSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("message recipient is required")
	}

	payload, err := encodeMessage(s.from, msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// encodeMessage builds an RFC 5322 message; with an attachment it becomes a
// multipart/mixed payload with the attachment base64-encoded.
func encodeMessage(from string, msg Message) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")

	if msg.Attachment == nil {
		buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		buf.WriteString(msg.Body)
		return buf.Bytes(), nil
	}

	writer := multipart.NewWriter(&buf)
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", writer.Boundary())

	textHeader := textproto.MIMEHeader{}
	textHeader.Set("Content-Type", "text/plain; charset=UTF-8")
	textPart, err := writer.CreatePart(textHeader)
	if err != nil {
		return nil, err
	}
	if _, err := textPart.Write([]byte(msg.Body)); err != nil {
		return nil, err
	}

	att := msg.Attachment
	attHeader := textproto.MIMEHeader{}
	attHeader.Set("Content-Type", att.ContentType)
	attHeader.Set("Content-Transfer-Encoding", "base64")
	attHeader.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", att.Filename))
	attPart, err := writer.CreatePart(attHeader)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
	base64.StdEncoding.Encode(encoded, att.Content)
	// 76-char lines per RFC 2045
	for len(encoded) > 0 {
		n := 76
		if n > len(encoded) {
			n = len(encoded)
		}
		if _, err := attPart.Write(encoded[:n]); err != nil {
			return nil, err
		}
		if _, err := attPart.Write([]byte("\r\n")); err != nil {
			return nil, err
		}
		encoded = encoded[n:]
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
