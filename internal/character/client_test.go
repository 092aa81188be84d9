package character_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"character-relay/internal/character"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNewChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chat/history/create/", r.URL.Path)
		require.Equal(t, "Token secret", r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "char1", payload["character_external_id"])

		_ = json.NewEncoder(w).Encode(map[string]string{"external_id": "hist-42"})
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	id, err := c.CreateNewChat(context.Background(), "char1")
	require.NoError(t, err)
	assert.Equal(t, "hist-42", id)
}

func TestCallCharacterParsesReplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/streaming/", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello", payload["text"])
		assert.Equal(t, "hist-1", payload["history_external_id"])
		assert.Equal(t, float64(9), payload["parent_msg_id"])

		_, _ = w.Write([]byte(`{
			"replies": [
				{"id": 11, "text": "  hi there  "},
				{"id": 12, "text": "alt", "image_rel_path": "https://img/x.png"}
			],
			"last_user_msg_id": 10
		}`))
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	resp, err := c.CallCharacter(context.Background(), "hello", "", "hist-1", 9)
	require.NoError(t, err)

	assert.Equal(t, uint64(10), resp.LastUserMsgID)
	require.Len(t, resp.Replies, 2)
	assert.Equal(t, "hi there", resp.Replies[0].Text, "reply text is trimmed")
	assert.False(t, resp.Replies[0].HasImage)
	assert.True(t, resp.Replies[1].HasImage)
	assert.Equal(t, "https://img/x.png", resp.Replies[1].ImagePath)
}

func TestCallCharacterOmitsZeroFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotContains(t, payload, "text")
		assert.NotContains(t, payload, "image_rel_path")
		assert.NotContains(t, payload, "parent_msg_id")

		_, _ = w.Write([]byte(`{"replies": [{"id": 1, "text": "x"}], "last_user_msg_id": 2}`))
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	_, err := c.CallCharacter(context.Background(), "", "", "hist-1", 0)
	require.NoError(t, err)
}

func TestCallCharacterEmptyRepliesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"replies": [], "last_user_msg_id": 2}`))
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	_, err := c.CallCharacter(context.Background(), "hi", "", "hist-1", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no answer")
}

func TestSearchCharacters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/chat/characters/search/", r.URL.Path)
		require.Equal(t, "space pirate", r.URL.Query().Get("query"))

		_, _ = w.Write([]byte(`{"characters": [
			{"external_id": "c1", "participant__name": "Pirate", "title": "Arr",
			 "user__username": "auth", "avatar_file_name": "p.png",
			 "participant__num_interactions": 9000},
			{"external_id": "c2", "participant__name": "Captain"}
		]}`))
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	chars, err := c.SearchCharacters(context.Background(), "space pirate")
	require.NoError(t, err)
	require.Len(t, chars, 2)

	assert.Equal(t, "c1", chars[0].ID)
	assert.Equal(t, "Pirate", chars[0].Name)
	assert.Equal(t, "auth", chars[0].Author)
	assert.Equal(t, 9000, chars[0].Interactions)
	assert.Equal(t, "https://characterai.io/i/400/static/avatars/p.png", chars[0].AvatarURLFull)
	assert.Empty(t, chars[1].AvatarURLFull, "no avatar file, no url")
}

func TestGetInfoMissingCharacterIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/character/info/", r.URL.Path)
		_, _ = w.Write([]byte(`{"character": {}}`))
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	info, err := c.GetInfo(context.Background(), "ghost")
	require.NoError(t, err)
	assert.True(t, info.IsEmpty())
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"external_id": "hist-1"})
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("secret", srv.URL)
	id, err := c.CreateNewChat(context.Background(), "char1")
	require.NoError(t, err)
	assert.Equal(t, "hist-1", id)
	assert.Equal(t, 2, hits)
}

func TestClientDoesNotRetryHardFailures(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := character.NewWithBaseURL("bad-token", srv.URL)
	_, err := c.CreateNewChat(context.Background(), "char1")
	require.Error(t, err)
	assert.Equal(t, 1, hits)
}

func TestTryGetImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/good.png" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, character.TryGetImage(context.Background(), srv.URL+"/good.png"))
	assert.False(t, character.TryGetImage(context.Background(), srv.URL+"/missing.png"))
}
