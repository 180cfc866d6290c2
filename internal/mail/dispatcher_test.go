package mail

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type captureMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *captureMailer) Send(msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_DeliversAsync(t *testing.T) {
	mailer := &captureMailer{}
	d := NewDispatcher(mailer)

	d.Dispatch(Message{Kind: KindInvite, Recipient: "viewer@example.com",
		Params: map[string]string{"record_name": "Lahore Milk"}})

	waitFor(t, func() bool { return mailer.count() == 1 })

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Equal(t, KindInvite, mailer.sent[0].Kind)
	assert.Equal(t, "viewer@example.com", mailer.sent[0].Recipient)
}

func TestDispatcher_SendFailureDoesNotPropagate(t *testing.T) {
	mailer := &captureMailer{err: errors.New("smtp down")}
	d := NewDispatcher(mailer)

	// Dispatch must not block or panic when delivery fails.
	d.Dispatch(Message{Kind: KindRevoke, Recipient: "viewer@example.com"})
	d.Dispatch(Message{Kind: KindWelcome, Recipient: "admin@example.com"})

	waitFor(t, func() bool { return mailer.count() == 2 })
}

func TestRender_InviteWithTempPassword(t *testing.T) {
	subject, body := render(Message{
		Kind:      KindInvite,
		Recipient: "viewer@example.com",
		Params: map[string]string{
			"name":          "viewer",
			"inviter_name":  "Asim",
			"record_name":   "Lahore Milk",
			"temp_password": "abc123def456",
		},
	})

	assert.Contains(t, subject, "invited")
	assert.Contains(t, body, "Lahore Milk")
	assert.Contains(t, body, "abc123def456")
	assert.Contains(t, body, "Asim")
}

func TestRender_InviteExistingUserOmitsPassword(t *testing.T) {
	_, body := render(Message{
		Kind:      KindInvite,
		Recipient: "viewer@example.com",
		Params:    map[string]string{"inviter_name": "Asim", "record_name": "Rent 2025"},
	})

	assert.NotContains(t, body, "temporary password")
}
