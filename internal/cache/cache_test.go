package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheExpiresAtDeadline(t *testing.T) {
	now := time.Date(2024, time.January, 15, 23, 0, 0, 0, time.UTC)
	c := New(true)
	c.now = func() time.Time { return now }

	etag := c.SetUntil("daily:2024-01-15", []byte(`{"ok":true}`), now.Add(time.Hour))

	data, got, ok := c.Get("daily:2024-01-15")
	assert.True(t, ok)
	assert.Equal(t, etag, got)
	assert.Equal(t, `{"ok":true}`, string(data))

	now = now.Add(time.Hour)
	_, _, ok = c.Get("daily:2024-01-15")
	assert.False(t, ok, "deadline is exclusive")
	assert.Equal(t, 1, c.Stats()["expired_keys"])
	assert.Equal(t, 1, c.Evict())
	assert.Equal(t, 0, c.Stats()["total_keys"])
}

func TestDisabledCacheStoresNothing(t *testing.T) {
	c := New(false)
	etag := c.Set("k", []byte("v"), time.Hour)

	assert.NotEmpty(t, etag)
	_, _, ok := c.Get("k")
	assert.False(t, ok)
}

func TestETag(t *testing.T) {
	a := ComputeETag([]byte("a"))
	assert.Equal(t, a, ComputeETag([]byte("a")))
	assert.NotEqual(t, a, ComputeETag([]byte("b")))
	assert.Regexp(t, `^W/"[0-9a-f]{16}"$`, a)

	assert.True(t, CheckETagMatch(a, a))
	assert.True(t, CheckETagMatch(`W/"x", `+a, a))
	assert.True(t, CheckETagMatch("*", a))
	assert.False(t, CheckETagMatch("", a))
	assert.False(t, CheckETagMatch(`W/"x"`, a))
}
