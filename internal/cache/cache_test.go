package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetSetRoundtrip(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", []byte("v"))

	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestExpiryWithInjectedClock(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewWithClock(5*time.Minute, func() time.Time { return now })

	c.Set("k", []byte("v"))

	now = now.Add(4 * time.Minute)
	_, ok := c.Get("k")
	assert.True(t, ok, "entry should survive inside the TTL")

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("k")
	assert.False(t, ok, "entry should expire past the TTL")
}

func TestInvalidateAndPurge(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))

	c.Invalidate("a")
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)

	c.Purge()
	_, ok = c.Get("b")
	assert.False(t, ok)
}
