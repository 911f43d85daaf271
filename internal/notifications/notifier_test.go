package notifications

import (
	"context"
	"errors"
	"testing"

	"studydeck/internal/featureflags"
	"studydeck/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type directoryStub struct {
	users []*models.User
	err   error
}

func (d *directoryStub) GetByUsernames(_ context.Context, _ []string) ([]*models.User, error) {
	return d.users, d.err
}

type mailerStub struct {
	subjects   []string
	bodies     []string
	recipients [][]string
	err        error
}

func (m *mailerStub) Send(_ context.Context, subject, body string, recipients []string) error {
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	m.recipients = append(m.recipients, recipients)
	return m.err
}

func TestExtractMentions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{"single", "thanks @alice", []string{"alice"}},
		{"multiple in order", "@bob see what @alice said", []string{"bob", "alice"}},
		{"duplicates collapse", "@alice @alice @alice", []string{"alice"}},
		{"underscore and digits", "ping @user_42", []string{"user_42"}},
		{"punctuation stops the handle", "hey @alice, look", []string{"alice"}},
		{"bare at sign", "meet @ noon", nil},
		{"email-like text still matches", "mail me at a@example.com", []string{"example"}},
		{"none", "no handles here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractMentions(tt.content))
		})
	}
}

func TestNotifier_NotifyMentions(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	thread := &models.Thread{ID: 1, Title: "Midterm prep", AuthorID: 1,
		Author: models.User{ID: 1, Username: "alice", Email: "alice@example.edu"}}

	t.Run("mails resolved handles except the sender", func(t *testing.T) {
		t.Parallel()
		directory := &directoryStub{users: []*models.User{
			{ID: 1, Username: "alice", Email: "alice@example.edu"},
			{ID: 3, Username: "carol", Email: "carol@example.edu"},
		}}
		mailer := &mailerStub{}
		n := NewNotifier(directory, mailer, nil, "http://localhost:5173")

		n.NotifyMentions(ctx, "@alice @carol take a look", 1, "alice", thread)
		require.Len(t, mailer.recipients, 1)
		assert.Equal(t, []string{"carol@example.edu"}, mailer.recipients[0])
		assert.Contains(t, mailer.subjects[0], "Midterm prep")
		assert.Contains(t, mailer.bodies[0], "http://localhost:5173/thread/1/")
	})

	t.Run("disabled by flag", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		flags := featureflags.NewManager("mention_emails=off")
		n := NewNotifier(&directoryStub{}, mailer, flags, "")

		n.NotifyMentions(ctx, "@carol hi", 1, "alice", thread)
		assert.Empty(t, mailer.recipients)
	})

	t.Run("no handles means no lookup", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		n := NewNotifier(&directoryStub{err: errors.New("should not be called")}, mailer, nil, "")

		n.NotifyMentions(ctx, "plain content", 1, "alice", thread)
		assert.Empty(t, mailer.recipients)
	})

	t.Run("lookup failure is swallowed", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		n := NewNotifier(&directoryStub{err: errors.New("db down")}, mailer, nil, "")

		n.NotifyMentions(ctx, "@carol hi", 1, "alice", thread)
		assert.Empty(t, mailer.recipients)
	})
}

func TestNotifier_NotifyThreadReply(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	thread := &models.Thread{ID: 2, Title: "Office hours", AuthorID: 1,
		Author: models.User{ID: 1, Username: "alice", Email: "alice@example.edu"}}

	t.Run("author gets mailed", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		n := NewNotifier(&directoryStub{}, mailer, nil, "http://localhost:5173")

		n.NotifyThreadReply(ctx, thread, 2, "bob", "are they moved this week?")
		require.Len(t, mailer.recipients, 1)
		assert.Equal(t, []string{"alice@example.edu"}, mailer.recipients[0])
	})

	t.Run("self-reply suppressed", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{}
		n := NewNotifier(&directoryStub{}, mailer, nil, "")

		n.NotifyThreadReply(ctx, thread, 1, "alice", "bump")
		assert.Empty(t, mailer.recipients)
	})

	t.Run("mailer failure is swallowed", func(t *testing.T) {
		t.Parallel()
		mailer := &mailerStub{err: errors.New("smtp down")}
		n := NewNotifier(&directoryStub{}, mailer, nil, "")

		n.NotifyThreadReply(ctx, thread, 2, "bob", "hello")
	})
}

func TestNotifier_NotifyThreadStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	thread := &models.Thread{ID: 3, Title: "Old thread", AuthorID: 1,
		Author: models.User{ID: 1, Username: "alice", Email: "alice@example.edu"}}

	mailer := &mailerStub{}
	n := NewNotifier(&directoryStub{}, mailer, nil, "")

	n.NotifyThreadStatus(ctx, thread, "locked", 9, "mod")
	require.Len(t, mailer.subjects, 1)
	assert.Contains(t, mailer.subjects[0], "locked")

	// Moderator locking their own thread gets no mail.
	n.NotifyThreadStatus(ctx, thread, "locked", 1, "alice")
	assert.Len(t, mailer.subjects, 1)
}

func TestSnippet(t *testing.T) {
	t.Parallel()

	short := "short content"
	assert.Equal(t, short, snippet(short))

	long := make([]byte, snippetLen+10)
	for i := range long {
		long[i] = 'a'
	}
	got := snippet(string(long))
	assert.Len(t, got, snippetLen+3)
	assert.Equal(t, "...", got[snippetLen:])
}
