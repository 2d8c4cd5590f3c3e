package email

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a fully rendered email ready for a Transport.
type Message struct {
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
}

// Compose renders the message as RFC 5322 bytes with CRLF line endings.
func (m Message) Compose(from string, now time.Time) ([]byte, error) {
	if m.HTMLBody == "" && m.TextBody == "" {
		return nil, errors.New("email: message has no body")
	}
	fromAddr, err := mail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	toAddr, err := mail.ParseAddress(m.To)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	var buf bytes.Buffer
	writeHeader(&buf, "From", fromAddr.String())
	writeHeader(&buf, "To", toAddr.String())
	if m.ReplyTo != "" {
		replyTo, err := mail.ParseAddress(m.ReplyTo)
		if err != nil {
			return nil, fmt.Errorf("invalid reply-to address: %w", err)
		}
		writeHeader(&buf, "Reply-To", replyTo.String())
	}
	writeHeader(&buf, "Subject", encodeSubject(m.Subject))
	writeHeader(&buf, "Date", now.Format(time.RFC1123Z))
	writeHeader(&buf, "Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), domainOf(fromAddr.Address)))
	writeHeader(&buf, "MIME-Version", "1.0")

	// Single-part messages skip the multipart envelope.
	if m.HTMLBody == "" || m.TextBody == "" {
		contentType := "text/html; charset=UTF-8"
		body := m.HTMLBody
		if m.HTMLBody == "" {
			contentType = "text/plain; charset=UTF-8"
			body = m.TextBody
		}
		writeHeader(&buf, "Content-Type", contentType)
		writeHeader(&buf, "Content-Transfer-Encoding", "quoted-printable")
		buf.WriteString("\r\n")
		if err := writeQuotedPrintable(&buf, body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	var parts bytes.Buffer
	mw := multipart.NewWriter(&parts)
	writeHeader(&buf, "Content-Type", "multipart/alternative; boundary="+mw.Boundary())
	buf.WriteString("\r\n")

	for _, p := range []struct{ contentType, body string }{
		{"text/plain; charset=UTF-8", m.TextBody},
		{"text/html; charset=UTF-8", m.HTMLBody},
	} {
		pw, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create mime part: %w", err)
		}
		if err := writeQuotedPrintable(pw, p.body); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close mime writer: %w", err)
	}
	buf.Write(parts.Bytes())
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, key, value string) {
	buf.WriteString(key)
	buf.WriteString(": ")
	buf.WriteString(value)
	buf.WriteString("\r\n")
}

func writeQuotedPrintable(w io.Writer, body string) error {
	qp := quotedprintable.NewWriter(w)
	if _, err := qp.Write([]byte(body)); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	if err := qp.Close(); err != nil {
		return fmt.Errorf("failed to encode body: %w", err)
	}
	return nil
}

// encodeSubject Q-encodes the subject and folds between encoded-words so no
// header line exceeds the RFC 5322 line limit.
func encodeSubject(subject string) string {
	encoded := mime.QEncoding.Encode("utf-8", sanitizeHeader(subject))
	return strings.ReplaceAll(encoded, "?= =?", "?=\r\n =?")
}

// sanitizeHeader folds CR/LF into spaces so user text cannot start a new header.
func sanitizeHeader(v string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(v)), " ")
}

func domainOf(address string) string {
	if i := strings.LastIndexByte(address, '@'); i >= 0 && i < len(address)-1 {
		return address[i+1:]
	}
	return "localhost"
}
