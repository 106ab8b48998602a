package service

import (
	"context"
	"sync"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

// inlineQueue runs remote writes synchronously and records their outcome.
type inlineQueue struct {
	mu     sync.Mutex
	jobs   int
	errors []error
}

func (q *inlineQueue) Enqueue(_ string, job func(ctx context.Context) error) {
	err := job(context.Background())
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs++
	if err != nil {
		q.errors = append(q.errors, err)
	}
}

func (q *inlineQueue) Jobs() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.jobs
}

type sentNotification struct {
	kind           domain.NotificationKind
	title, message string
}

// recordingNotifier captures every notification in order.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

func (n *recordingNotifier) add(kind domain.NotificationKind, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{kind: kind, title: title, message: message})
}

func (n *recordingNotifier) Success(title, message string) { n.add(domain.KindSuccess, title, message) }
func (n *recordingNotifier) Error(title, message string)   { n.add(domain.KindError, title, message) }
func (n *recordingNotifier) Warning(title, message string) { n.add(domain.KindWarning, title, message) }
func (n *recordingNotifier) Info(title, message string)    { n.add(domain.KindInfo, title, message) }

func (n *recordingNotifier) withTitle(title string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []sentNotification
	for _, s := range n.sent {
		if s.title == title {
			out = append(out, s)
		}
	}
	return out
}

func ids(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}
