package contact

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is an accepted submission ready for delivery.
type Message struct {
	ID         string
	Request    Request
	ReceivedAt time.Time
	RemoteAddr string
}

// NewMessage stamps a validated request with an ID and receive time.
func NewMessage(req Request, remoteAddr string) Message {
	return Message{
		ID:         uuid.NewString(),
		Request:    req,
		ReceivedAt: time.Now().UTC(),
		RemoteAddr: remoteAddr,
	}
}

// headerSafe strips characters that would start a new mail header.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

// RFC822 renders the message as a plain-text mail from from to to.
// The sender goes into Reply-To so answering reaches them directly.
func (m Message) RFC822(from, to string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", headerSafe(from))
	fmt.Fprintf(&b, "To: %s\r\n", headerSafe(to))
	fmt.Fprintf(&b, "Reply-To: %s\r\n", headerSafe(m.Request.SenderEmail))
	fmt.Fprintf(&b, "Subject: [Contact] %s\r\n", headerSafe(m.Request.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.ReceivedAt.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%s@sitebuilder>\r\n", m.ID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&b, "From: %s\r\n\r\n", m.Request.SenderEmail)
	b.WriteString(strings.ReplaceAll(m.Request.Message, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
