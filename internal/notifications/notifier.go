package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"studydeck/internal/featureflags"
	"studydeck/internal/middleware"
	"studydeck/internal/models"
	"studydeck/internal/observability"
)

// mentionPattern is the tokenizer contract for @handle extraction: an
// "@" followed by one or more word characters. Matching is
// case-sensitive, the same way usernames are stored.
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// snippetLen bounds the content excerpt included in notification mail.
const snippetLen = 100

// FlagMentionEmails gates mention notification dispatch.
const FlagMentionEmails = "mention_emails"

// userDirectory resolves mention handles to accounts.
type userDirectory interface {
	GetByUsernames(ctx context.Context, usernames []string) ([]*models.User, error)
}

// Notifier dispatches forum email through a Mailer. All methods swallow
// delivery failures: they log, bump a metric and return.
type Notifier struct {
	users   userDirectory
	mailer  Mailer
	flags   *featureflags.Manager
	baseURL string
}

// NewNotifier creates a Notifier. A nil mailer disables dispatch.
func NewNotifier(users userDirectory, mailer Mailer, flags *featureflags.Manager, baseURL string) *Notifier {
	return &Notifier{users: users, mailer: mailer, flags: flags, baseURL: baseURL}
}

// ExtractMentions returns the distinct @handles found in content, in
// first-appearance order.
func ExtractMentions(content string) []string {
	var handles []string
	seen := map[string]struct{}{}
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		handle := m[1]
		if _, ok := seen[handle]; ok {
			continue
		}
		seen[handle] = struct{}{}
		handles = append(handles, handle)
	}
	return handles
}

// NotifyMentions scans content for @handles and mails each resolved
// user except the sender. Unresolved handles are ignored.
func (n *Notifier) NotifyMentions(ctx context.Context, content string, senderID uint, senderName string, thread *models.Thread) {
	if n == nil || !n.flags.Enabled(FlagMentionEmails, senderID, true) {
		return
	}

	handles := ExtractMentions(content)
	if len(handles) == 0 {
		return
	}

	users, err := n.users.GetByUsernames(ctx, handles)
	if err != nil {
		n.dispatchFailed(ctx, "mention", err)
		return
	}

	var emails []string
	for _, u := range users {
		if u.ID == senderID {
			continue
		}
		emails = append(emails, u.Email)
	}
	if len(emails) == 0 {
		return
	}

	subject := fmt.Sprintf("You were mentioned in: %s", thread.Title)
	body := fmt.Sprintf(
		"Hello,\n\n%s mentioned you in a post on StudyDeck.\n\nThread: %s\nSnippet: %q\n\nView here: %s",
		senderName, thread.Title, snippet(content), n.threadURL(thread.ID),
	)
	n.send(ctx, "mention", subject, body, emails)
}

// NotifyThreadReply mails the thread author about a new reply.
// Self-replies are suppressed.
func (n *Notifier) NotifyThreadReply(ctx context.Context, thread *models.Thread, replierID uint, replierName, content string) {
	if n == nil || thread.AuthorID == replierID {
		return
	}

	subject := fmt.Sprintf("New Reply on: %s", thread.Title)
	body := fmt.Sprintf(
		"Hello %s,\n\n%s just replied to your thread.\n\nReply: %q\n\nCheck it out: %s",
		thread.Author.Username, replierName, snippet(content), n.threadURL(thread.ID),
	)
	n.send(ctx, "reply", subject, body, []string{thread.Author.Email})
}

// NotifyThreadStatus mails the thread author when a moderator locks or
// (un)pins their thread. Suppressed when the moderator is the author.
func (n *Notifier) NotifyThreadStatus(ctx context.Context, thread *models.Thread, action string, moderatorID uint, moderatorName string) {
	if n == nil || thread.AuthorID == moderatorID {
		return
	}

	subject := fmt.Sprintf("Your thread has been %s", action)
	body := fmt.Sprintf(
		"Hello %s,\n\nA moderator (%s) has %s your thread: '%s'.\n\nView status: %s",
		thread.Author.Username, moderatorName, action, thread.Title, n.threadURL(thread.ID),
	)
	n.send(ctx, "status", subject, body, []string{thread.Author.Email})
}

func (n *Notifier) send(ctx context.Context, kind, subject, body string, recipients []string) {
	if n.mailer == nil || len(recipients) == 0 {
		return
	}
	if err := n.mailer.Send(ctx, subject, body, recipients); err != nil {
		n.dispatchFailed(ctx, kind, err)
	}
}

func (n *Notifier) dispatchFailed(ctx context.Context, kind string, err error) {
	observability.NotificationFailures.WithLabelValues(kind).Inc()
	middleware.Logger.WarnContext(ctx, "notification dispatch failed",
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}

func (n *Notifier) threadURL(threadID uint) string {
	return fmt.Sprintf("%s/thread/%d/", n.baseURL, threadID)
}

func snippet(content string) string {
	if len(content) <= snippetLen {
		return content
	}
	return content[:snippetLen] + "..."
}
