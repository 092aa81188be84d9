package relay_test

import (
	"errors"
	"testing"

	"character-relay/internal/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	replies []relay.Reply
	err     error
	calls   int
}

func (f *fakeSource) MoreReplies(historyID string, parentMsgID uint64) ([]relay.Reply, error) {
	f.calls++
	return f.replies, f.err
}

type renderCall struct {
	text  string
	image string
}

type fakeRenderer struct {
	calls []renderCall
}

func (f *fakeRenderer) Rewrite(channelID, messageID, text, imageURL string) error {
	f.calls = append(f.calls, renderCall{text: text, image: imageURL})
	return nil
}

func newSwipeSession(replies ...relay.Reply) *relay.Session {
	return &relay.Session{
		HistoryID: "hist",
		LastCall: &relay.CallResult{
			Replies:       replies,
			LastUserMsgID: 77,
		},
	}
}

func TestSwipeLeftAtZeroIsNoop(t *testing.T) {
	src := &fakeSource{}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := newSwipeSession(relay.Reply{ID: 1, Text: "one"})

	require.NoError(t, sw.Left(sess, "ch", "msg"))
	assert.Zero(t, src.calls)
	assert.Empty(t, r.calls)
	assert.Equal(t, 0, sess.LastCall.CurrentReplyIndex)
}

func TestSwipeLeftAfterRightUsesCache(t *testing.T) {
	src := &fakeSource{}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := newSwipeSession(
		relay.Reply{ID: 1, Text: "one"},
		relay.Reply{ID: 2, Text: "two"},
	)

	require.NoError(t, sw.Right(sess, "ch", "msg"))
	require.NoError(t, sw.Left(sess, "ch", "msg"))

	assert.Zero(t, src.calls, "cached navigation must not fetch")
	require.Len(t, r.calls, 2)
	assert.Equal(t, "two", r.calls[0].text)
	assert.Equal(t, "one", r.calls[1].text)
	assert.Equal(t, uint64(1), sess.LastCall.CurrentPrimaryMsgID)
}

func TestSwipeRightPastCacheFetchesOnce(t *testing.T) {
	src := &fakeSource{replies: []relay.Reply{{ID: 5, Text: "fresh"}}}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := newSwipeSession(relay.Reply{ID: 1, Text: "one"})

	require.NoError(t, sw.Right(sess, "ch", "msg"))

	assert.Equal(t, 1, src.calls)
	require.Len(t, r.calls, 2)
	assert.Equal(t, "( 🕓 Wait... )", r.calls[0].text)
	assert.Equal(t, "fresh", r.calls[1].text)
	assert.Equal(t, 1, sess.LastCall.CurrentReplyIndex)
	assert.Equal(t, uint64(5), sess.LastCall.CurrentPrimaryMsgID)
	assert.Len(t, sess.LastCall.Replies, 2)
}

func TestSwipeRightFetchFailureRollsBack(t *testing.T) {
	src := &fakeSource{err: errors.New("service down")}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := newSwipeSession(relay.Reply{ID: 1, Text: "one"})

	require.NoError(t, sw.Right(sess, "ch", "msg"))

	// cursor back on the last valid reply; a later Right may retry
	assert.Equal(t, 0, sess.LastCall.CurrentReplyIndex)
	require.Len(t, r.calls, 2)
	assert.Contains(t, r.calls[1].text, "⚠")
	assert.Contains(t, r.calls[1].text, "service down")

	require.NoError(t, sw.Right(sess, "ch", "msg"))
	assert.Equal(t, 2, src.calls)
}

func TestSwipeRightEmptyFetchIsNotFound(t *testing.T) {
	src := &fakeSource{}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := newSwipeSession(relay.Reply{ID: 1, Text: "one"})

	require.NoError(t, sw.Right(sess, "ch", "msg"))

	assert.Equal(t, 0, sess.LastCall.CurrentReplyIndex)
	require.Len(t, r.calls, 2)
	assert.Contains(t, r.calls[1].text, "not found")
}

func TestSwipeImageOnlyWhenProbePasses(t *testing.T) {
	r := &fakeRenderer{}
	sw := &relay.Swiper{
		Source: &fakeSource{},
		Render: r,
		Probe:  func(url string) bool { return url == "https://img/good.png" },
	}
	sess := newSwipeSession(
		relay.Reply{ID: 1, Text: "one"},
		relay.Reply{ID: 2, Text: "two", HasImage: true, ImagePath: "https://img/good.png"},
		relay.Reply{ID: 3, Text: "three", HasImage: true, ImagePath: "https://img/dead.png"},
	)

	require.NoError(t, sw.Right(sess, "ch", "msg"))
	require.NoError(t, sw.Right(sess, "ch", "msg"))

	require.Len(t, r.calls, 2)
	assert.Equal(t, "https://img/good.png", r.calls[0].image)
	assert.Empty(t, r.calls[1].image, "unreachable image degrades to text only")
}

func TestSwipeNoCallResultIsNoop(t *testing.T) {
	src := &fakeSource{}
	r := &fakeRenderer{}
	sw := &relay.Swiper{Source: src, Render: r}
	sess := &relay.Session{HistoryID: "hist"}

	require.NoError(t, sw.Left(sess, "ch", "msg"))
	require.NoError(t, sw.Right(sess, "ch", "msg"))
	assert.Zero(t, src.calls)
	assert.Empty(t, r.calls)
}
