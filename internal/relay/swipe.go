package relay

// AlternateSource fetches additional replies for an existing turn, resuming
// from the turn's last user message.
type AlternateSource interface {
	MoreReplies(historyID string, parentMsgID uint64) ([]Reply, error)
}

// Renderer rewrites the swiped message in place. imageURL is empty when the
// message should show text only.
type Renderer interface {
	Rewrite(channelID, messageID, text, imageURL string) error
}

const waitingText = "( 🕓 Wait... )"

// Swiper navigates the alternate-reply cursor on a channel's last character
// message. All methods expect the session lock to be held by the caller.
type Swiper struct {
	Source AlternateSource
	Render Renderer
	Probe  func(url string) bool // image reachability check, may be nil
}

// Left shows the previous cached reply. At index 0 it is a no-op: no fetch,
// no re-render.
func (sw *Swiper) Left(sess *Session, channelID, messageID string) error {
	lc := sess.LastCall
	if lc == nil || lc.CurrentReplyIndex == 0 {
		return nil
	}
	lc.CurrentReplyIndex--
	return sw.show(sess, channelID, messageID)
}

// Right advances the cursor, fetching one batch of alternates from the
// character service when the cursor moves past the cached replies. On fetch
// failure the cursor is rolled back to the last valid position and the error
// text becomes the message body.
func (sw *Swiper) Right(sess *Session, channelID, messageID string) error {
	lc := sess.LastCall
	if lc == nil {
		return nil
	}
	lc.CurrentReplyIndex++
	return sw.show(sess, channelID, messageID)
}

func (sw *Swiper) show(sess *Session, channelID, messageID string) error {
	lc := sess.LastCall
	if lc.CurrentReplyIndex >= len(lc.Replies) {
		_ = sw.Render.Rewrite(channelID, messageID, waitingText, "")

		more, err := sw.Source.MoreReplies(sess.HistoryID, lc.LastUserMsgID)
		if err == nil && len(more) == 0 {
			err = ErrNotFound
		}
		if err != nil {
			lc.CurrentReplyIndex = len(lc.Replies) - 1
			if lc.CurrentReplyIndex < 0 {
				lc.CurrentReplyIndex = 0
			}
			return sw.Render.Rewrite(channelID, messageID, warnText(err), "")
		}
		lc.Replies = append(lc.Replies, more...)
		if lc.CurrentReplyIndex >= len(lc.Replies) {
			lc.CurrentReplyIndex = len(lc.Replies) - 1
		}
	}

	reply := lc.Replies[lc.CurrentReplyIndex]
	lc.CurrentPrimaryMsgID = reply.ID

	image := ""
	if reply.HasImage && reply.ImagePath != "" && sw.Probe != nil && sw.Probe(reply.ImagePath) {
		image = reply.ImagePath
	}
	return sw.Render.Rewrite(channelID, messageID, reply.Text, image)
}
