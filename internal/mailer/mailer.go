// Package mailer delivers transactional email over SMTP.
package mailer

import (
    "context"
    "fmt"

    "github.com/wneessen/go-mail"
)

// Mailer sends plain-text mail through a single SMTP account. A nil
// Mailer is valid and drops messages, so environments without SMTP
// credentials (local development, CI) still run.
type Mailer struct {
    client *mail.Client
    from   string
}

// New builds a Mailer. Returns nil when host or from is empty so
// callers can treat mail as disabled.
func New(host string, port int, username, password, from string) (*Mailer, error) {
    if host == "" || from == "" {
        return nil, nil
    }
    opts := []mail.Option{mail.WithPort(port)}
    if username != "" {
        opts = append(opts,
            mail.WithSMTPAuth(mail.SMTPAuthPlain),
            mail.WithUsername(username),
            mail.WithPassword(password),
        )
    }
    client, err := mail.NewClient(host, opts...)
    if err != nil {
        return nil, fmt.Errorf("smtp client: %w", err)
    }
    return &Mailer{client: client, from: from}, nil
}

// Send delivers one plain-text message. No-op on a nil Mailer.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
    if m == nil {
        return nil
    }
    msg := mail.NewMsg()
    if err := msg.From(m.from); err != nil {
        return fmt.Errorf("from address: %w", err)
    }
    if err := msg.To(to); err != nil {
        return fmt.Errorf("to address: %w", err)
    }
    msg.Subject(subject)
    msg.SetBodyString(mail.TypeTextPlain, body)
    return m.client.DialAndSendWithContext(ctx, msg)
}

// OTPBody renders the login-code email shared by request and resend.
// ttlMin must match the stored code's expiry; non-positive values fall
// back to the default window so a malformed event still reads sanely.
func OTPBody(code string, ttlMin int) (subject, body string) {
    if ttlMin <= 0 {
        ttlMin = 5
    }
    subject = "Your RitmoFit access code"
    body = fmt.Sprintf("Your one-time login code is: %s\n\nIt expires in %d minutes. If you did not request it, ignore this email.\n", code, ttlMin)
    return subject, body
}
