// Package mail builds MIME messages and hands them to a delivery provider.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment is a file carried by a Message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is a single outgoing email. From and To are RFC 5322 addresses,
// optionally with a display name.
type Message struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Receipt identifies an accepted message.
type Receipt struct {
	MessageID string
	Provider  string
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// FormatAddress renders name <email>, or the bare email when name is empty.
func FormatAddress(name, email string) string {
	if name == "" {
		return email
	}
	return (&mail.Address{Name: name, Address: email}).String()
}

// Validate checks the envelope of msg.
func (m Message) Validate() error {
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("invalid from address %q: %w", m.From, err)
	}
	if len(m.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}
	for _, to := range m.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	if m.ReplyTo != "" {
		if _, err := mail.ParseAddress(m.ReplyTo); err != nil {
			return fmt.Errorf("invalid reply-to address %q: %w", m.ReplyTo, err)
		}
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("message body is empty")
	}
	return nil
}

// envelopeFrom returns the bare sender address.
func (m Message) envelopeFrom() string {
	if a, err := mail.ParseAddress(m.From); err == nil {
		return a.Address
	}
	return m.From
}

// envelopeTo returns the bare recipient addresses.
func (m Message) envelopeTo() []string {
	out := make([]string, 0, len(m.To))
	for _, to := range m.To {
		if a, err := mail.ParseAddress(to); err == nil {
			out = append(out, a.Address)
			continue
		}
		out = append(out, to)
	}
	return out
}

// Encode renders msg as a multipart/mixed MIME document and returns it with
// the Message-ID it was stamped with.
func Encode(msg Message, now time.Time) ([]byte, string, error) {
	if err := msg.Validate(); err != nil {
		return nil, "", err
	}

	domain := "localhost"
	if at := strings.LastIndex(msg.envelopeFrom(), "@"); at >= 0 {
		domain = msg.envelopeFrom()[at+1:]
	}
	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)

	var buf bytes.Buffer
	writeHeader(&buf, "From", msg.From)
	writeHeader(&buf, "To", strings.Join(msg.To, ", "))
	if msg.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", messageID)
	writeHeader(&buf, "MIME-Version", "1.0")

	mixed := multipart.NewWriter(&buf)
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", mixed.Boundary()))
	buf.WriteString("\r\n")

	if err := writeBody(mixed, msg); err != nil {
		return nil, "", err
	}
	for _, a := range msg.Attachments {
		if err := writeAttachment(mixed, a); err != nil {
			return nil, "", err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, "", fmt.Errorf("close mime writer: %w", err)
	}
	return buf.Bytes(), messageID, nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeBody(mixed *multipart.Writer, msg Message) error {
	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)

	parts := []struct{ contentType, body string }{
		{"text/plain; charset=UTF-8", msg.Text},
		{"text/html; charset=UTF-8", msg.HTML},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"base64"},
		})
		if err != nil {
			return fmt.Errorf("create body part: %w", err)
		}
		if err := writeBase64(w, []byte(p.body)); err != nil {
			return err
		}
	}
	if err := altWriter.Close(); err != nil {
		return fmt.Errorf("close body writer: %w", err)
	}

	w, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", altWriter.Boundary())},
	})
	if err != nil {
		return fmt.Errorf("create alternative part: %w", err)
	}
	_, err = w.Write(alt.Bytes())
	return err
}

func writeAttachment(mixed *multipart.Writer, a Attachment) error {
	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("%s; name=%q", contentType, a.Filename)},
		"Content-Disposition":       {mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})},
		"Content-Transfer-Encoding": {"base64"},
	})
	if err != nil {
		return fmt.Errorf("create attachment %s: %w", a.Filename, err)
	}
	return writeBase64(w, a.Data)
}

// writeBase64 writes data base64-encoded in 76 character lines.
func writeBase64(w io.Writer, data []byte) error {
	encoded := base64.StdEncoding.EncodeToString(data)
	for len(encoded) > 76 {
		if _, err := fmt.Fprintf(w, "%s\r\n", encoded[:76]); err != nil {
			return err
		}
		encoded = encoded[76:]
	}
	_, err := fmt.Fprintf(w, "%s\r\n", encoded)
	return err
}
