package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/pkg/metrics"
)

// NotificationService is the per-session notification queue. Queued entries
// auto-close through timers unless AutoClose is false.
type NotificationService struct {
	mu     sync.Mutex
	items  []domain.Notification
	timers map[string]*time.Timer
	closed bool

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) *time.Timer
	logger    zerolog.Logger
}

func NewNotificationService(logger zerolog.Logger) *NotificationService {
	return &NotificationService{
		timers:    make(map[string]*time.Timer),
		now:       time.Now,
		afterFunc: time.AfterFunc,
		logger:    logger,
	}
}

// AddNotification queues a notification and reports whether it was kept.
// An identical title, message and kind queued less than a second earlier
// suppresses the new one.
func (s *NotificationService) AddNotification(in domain.NotificationInput) (domain.Notification, bool) {
	now := s.now()
	n := domain.Notification{
		ID:        newNotificationID(now),
		Kind:      in.Kind,
		Title:     in.Title,
		Message:   in.Message,
		Duration:  in.Duration,
		AutoClose: true,
		CreatedAt: now,
	}
	if n.Duration <= 0 {
		n.Duration = domain.DefaultNotificationDuration
	}
	if in.AutoClose != nil {
		n.AutoClose = *in.AutoClose
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return n, false
	}
	for _, existing := range s.items {
		if existing.Title == n.Title && existing.Message == n.Message && existing.Kind == n.Kind &&
			now.UnixMilli()-idTimestamp(existing.ID) < domain.NotificationDedupeWindow.Milliseconds() {
			metrics.NotificationsSuppressedTotal.Inc()
			s.logger.Debug().Str("title", n.Title).Str("kind", string(n.Kind)).Msg("duplicate notification suppressed")
			return existing, false
		}
	}
	s.items = append(s.items, n)

	if n.AutoClose {
		id := n.ID
		s.timers[id] = s.afterFunc(n.Duration, func() { s.RemoveNotification(id) })
	}
	return n, true
}

// RemoveNotification drops the notification with the given id. Unknown ids
// are ignored.
func (s *NotificationService) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
	out := s.items[:0]
	for _, n := range s.items {
		if n.ID != id {
			out = append(out, n)
		}
	}
	s.items = out
}

// List returns the queued notifications, oldest first.
func (s *NotificationService) List() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Close stops pending auto-close timers and rejects further notifications.
func (s *NotificationService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	s.items = nil
	s.closed = true
}

func (s *NotificationService) Success(title, message string) {
	s.AddNotification(domain.NotificationInput{Kind: domain.KindSuccess, Title: title, Message: message})
}

// Error notifications stay queued until dismissed.
func (s *NotificationService) Error(title, message string) {
	keep := false
	s.AddNotification(domain.NotificationInput{Kind: domain.KindError, Title: title, Message: message, AutoClose: &keep})
}

func (s *NotificationService) Warning(title, message string) {
	s.AddNotification(domain.NotificationInput{Kind: domain.KindWarning, Title: title, Message: message})
}

func (s *NotificationService) Info(title, message string) {
	s.AddNotification(domain.NotificationInput{Kind: domain.KindInfo, Title: title, Message: message})
}

// newNotificationID returns "<token>-<unix millis>".
func newNotificationID(now time.Time) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s-%d", token, now.UnixMilli())
}

// idTimestamp extracts the creation time embedded in an id; 0 when absent.
func idTimestamp(id string) int64 {
	i := strings.LastIndexByte(id, '-')
	if i < 0 {
		return 0
	}
	ms, err := strconv.ParseInt(id[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return ms
}
