package relay_test

import (
	"testing"
	"time"

	"character-relay/internal/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterEscalation(t *testing.T) {
	l := relay.NewRateLimiter(5, nil)

	// messages 1..3 pass silently
	for i := 0; i < 3; i++ {
		assert.Equal(t, relay.Allow, l.Check("u1", false, 100))
	}
	// message 4 (limit-1) triggers the warning exactly once
	assert.Equal(t, relay.Warn, l.Check("u1", false, 100))
	// message 5 (== limit) still goes through
	assert.Equal(t, relay.Allow, l.Check("u1", false, 100))
	// message 6 (> limit) bans
	assert.Equal(t, relay.Ban, l.Check("u1", false, 100))
	assert.True(t, l.IsBanned("u1"))

	// banned stays banned in any later minute
	assert.Equal(t, relay.Ban, l.Check("u1", false, 101))
}

func TestRateLimiterMinuteReset(t *testing.T) {
	l := relay.NewRateLimiter(5, nil)

	for i := 0; i < 3; i++ {
		assert.Equal(t, relay.Allow, l.Check("u1", false, 100))
	}
	// new minute bucket: the count restarts, so no warn at message 4
	assert.Equal(t, relay.Allow, l.Check("u1", false, 101))
	assert.Equal(t, relay.Allow, l.Check("u1", false, 101))
	assert.Equal(t, relay.Allow, l.Check("u1", false, 101))
	assert.Equal(t, relay.Warn, l.Check("u1", false, 101))
}

func TestRateLimiterGuildOwnerBypass(t *testing.T) {
	l := relay.NewRateLimiter(3, nil)

	for i := 0; i < 20; i++ {
		assert.Equal(t, relay.Allow, l.Check("owner", true, 100))
	}
	assert.False(t, l.IsBanned("owner"))
}

func TestRateLimiterSendersCountedIndependently(t *testing.T) {
	l := relay.NewRateLimiter(5, nil)

	for i := 0; i < 3; i++ {
		l.Check("u1", false, 100)
	}
	// u2's first message in the same minute is unaffected by u1's count
	assert.Equal(t, relay.Allow, l.Check("u2", false, 100))
}

func TestRateLimiterIsBannedDoesNotCount(t *testing.T) {
	l := relay.NewRateLimiter(5, nil)

	for i := 0; i < 10; i++ {
		assert.False(t, l.IsBanned("u1"))
	}
	// the count is untouched: three real messages still pass
	for i := 0; i < 3; i++ {
		assert.Equal(t, relay.Allow, l.Check("u1", false, 100))
	}
}

func TestRateLimiterBanUnban(t *testing.T) {
	saved := make(chan []string, 4)
	l := relay.NewRateLimiter(5, func(ids []string) { saved <- ids })

	l.Ban("u1")
	assert.True(t, l.IsBanned("u1"))
	require.Equal(t, []string{"u1"}, <-saved)

	assert.True(t, l.Unban("u1"))
	assert.False(t, l.IsBanned("u1"))
	require.Empty(t, <-saved)

	// unbanning someone never banned reports false
	assert.False(t, l.Unban("u2"))
}

func TestRateLimiterRestore(t *testing.T) {
	l := relay.NewRateLimiter(5, nil)
	l.Restore([]string{"u1", "u2"})

	assert.True(t, l.IsBanned("u1"))
	assert.True(t, l.IsBanned("u2"))
	assert.Equal(t, []string{"u1", "u2"}, l.Banned())
}

func TestMinuteKey(t *testing.T) {
	ts := time.Date(2024, 5, 1, 13, 37, 59, 0, time.UTC)
	assert.Equal(t, 13*60+37, relay.MinuteKey(ts))
}
