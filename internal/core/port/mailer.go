package port

import "context"

// Message is a notification delivered to one or more recipients.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// MailSender delivers a message. Fire-and-forget from the caller's
// perspective; a returned error still propagates as a service failure.
type MailSender interface {
	Send(ctx context.Context, msg Message) error
}
