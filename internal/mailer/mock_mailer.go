package mailer

import (
	"sync"
)

type Email struct {
	Recipient    string
	TemplateFile string
	Data         any
}

// MockMailer records mails instead of sending them. Setting Err makes every
// Send fail.
type MockMailer struct {
	mu     sync.RWMutex
	emails []Email
	Err    error
}

func NewMockMailer() *MockMailer {
	return &MockMailer{
		emails: make([]Email, 0),
	}
}

func (m *MockMailer) Send(recipient, templateFile string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}

	m.emails = append(m.emails, Email{
		Recipient:    recipient,
		TemplateFile: templateFile,
		Data:         data,
	})

	return nil
}

func (m *MockMailer) SentEmails() []Email {
	m.mu.RLock()
	defer m.mu.RUnlock()

	emails := make([]Email, len(m.emails))
	copy(emails, m.emails)
	return emails
}

func (m *MockMailer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.emails = make([]Email, 0)
}
