package testutils

import (
	"github.com/staffdesk/identity/services/mail"
	"github.com/stretchr/testify/mock"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(msg mail.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

// CapturingNotifier records every message and optionally fails with a
// preset error, for tests that assert on dispatch contents.
type CapturingNotifier struct {
	Messages []mail.Message
	Err      error
}

func (n *CapturingNotifier) Send(msg mail.Message) error {
	n.Messages = append(n.Messages, msg)
	return n.Err
}
