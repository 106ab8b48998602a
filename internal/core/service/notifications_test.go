package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
)

type fakeClock struct {
	now    time.Time
	fired  map[time.Duration][]func()
	armed  int
	timers []*time.Timer
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000), fired: map[time.Duration][]func(){}}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) AfterFunc(d time.Duration, f func()) *time.Timer {
	c.armed++
	c.fired[d] = append(c.fired[d], f)
	t := time.AfterFunc(time.Hour, func() {})
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Fire(d time.Duration) {
	for _, f := range c.fired[d] {
		f()
	}
	delete(c.fired, d)
}

func newTestNotifications(t *testing.T) (*NotificationService, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	s := NewNotificationService(zerolog.Nop())
	s.now = clock.Now
	s.afterFunc = clock.AfterFunc
	t.Cleanup(s.Close)
	return s, clock
}

func TestNotifications_DuplicateWithinWindowCollapses(t *testing.T) {
	s, clock := newTestNotifications(t)

	first, kept := s.AddNotification(domain.NotificationInput{Kind: domain.KindSuccess, Title: "Saved", Message: "ok"})
	require.True(t, kept)

	clock.now = clock.now.Add(999 * time.Millisecond)
	dup, kept := s.AddNotification(domain.NotificationInput{Kind: domain.KindSuccess, Title: "Saved", Message: "ok"})

	assert.False(t, kept)
	assert.Equal(t, first.ID, dup.ID)
	assert.Len(t, s.List(), 1)
	assert.Equal(t, 1, clock.armed, "a suppressed duplicate arms no timer")
}

func TestNotifications_DuplicateAfterWindowKept(t *testing.T) {
	s, clock := newTestNotifications(t)

	s.AddNotification(domain.NotificationInput{Kind: domain.KindInfo, Title: "Removed from favorites", Message: "Camaro"})
	clock.now = clock.now.Add(1500 * time.Millisecond)
	_, kept := s.AddNotification(domain.NotificationInput{Kind: domain.KindInfo, Title: "Removed from favorites", Message: "Camaro"})

	assert.True(t, kept)
	assert.Len(t, s.List(), 2)
}

func TestNotifications_DifferentKindNotDeduplicated(t *testing.T) {
	s, _ := newTestNotifications(t)

	s.Success("Done", "")
	s.Info("Done", "")

	assert.Len(t, s.List(), 2)
}

func TestNotifications_AutoCloseDefaults(t *testing.T) {
	s, clock := newTestNotifications(t)

	n, kept := s.AddNotification(domain.NotificationInput{Kind: domain.KindSuccess, Title: "Saved"})
	require.True(t, kept)
	assert.True(t, n.AutoClose)
	assert.Equal(t, domain.DefaultNotificationDuration, n.Duration)

	clock.Fire(domain.DefaultNotificationDuration)
	assert.Empty(t, s.List())
}

func TestNotifications_ErrorStaysUntilDismissed(t *testing.T) {
	s, clock := newTestNotifications(t)

	s.Error("Could not add product", "Check the data and try again")
	assert.Equal(t, 0, clock.armed)

	items := s.List()
	require.Len(t, items, 1)
	assert.False(t, items[0].AutoClose)

	s.RemoveNotification(items[0].ID)
	s.RemoveNotification(items[0].ID)
	assert.Empty(t, s.List())
}

func TestNotifications_CustomDuration(t *testing.T) {
	s, clock := newTestNotifications(t)

	s.AddNotification(domain.NotificationInput{Kind: domain.KindWarning, Title: "Low stock", Duration: 2 * time.Second})
	clock.Fire(domain.DefaultNotificationDuration)
	assert.Len(t, s.List(), 1)

	clock.Fire(2 * time.Second)
	assert.Empty(t, s.List())
}

func TestNotifications_ClosedRejects(t *testing.T) {
	s, _ := newTestNotifications(t)
	s.Close()

	_, kept := s.AddNotification(domain.NotificationInput{Kind: domain.KindInfo, Title: "late"})
	assert.False(t, kept)
	assert.Empty(t, s.List())
}

func TestNotificationID(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	id := newNotificationID(now)

	assert.Equal(t, now.UnixMilli(), idTimestamp(id))
	assert.Equal(t, int64(0), idTimestamp("garbage"))
}
