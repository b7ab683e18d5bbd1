package chat

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/mhr3/skipscan/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, users ...string) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	for _, u := range users {
		_, err := s.CreateUser(u, t0)
		require.NoError(t, err)
	}
	return s
}

func send(t *testing.T, s *store.Store, from, to, content string, at time.Time) {
	t.Helper()
	_, err := s.AddMessage(store.Message{Sender: from, Receiver: to, Content: content, Timestamp: at})
	require.NoError(t, err)
}

func contents(msgs []store.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}

func TestFold(t *testing.T) {
	assert.Equal(t, "hello world", Fold("Hello WORLD"))
	assert.Equal(t, "straße", Fold("STRAßE"))
	assert.Equal(t, "", Fold(""))
}

func TestFoldKeepsOffsets(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"Hello WORLD", true},
		{"日本語", true},
		{"ÀB straße", true},
		{"ȺȺK", false},
		{"\u212A", false},
		{"ok\xff", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldKeepsOffsets(tt.in))
			if tt.want {
				assert.Len(t, Fold(tt.in), len(tt.in))
			}
		})
	}
}

func TestFilterMatch(t *testing.T) {
	tests := []struct {
		query, content string
		want           bool
	}{
		{"", "anything", true},
		{"", "", true},
		{"hello", "Say HELLO there", true},
		{"HeLLo", "hello", true},
		{"bye", "hello", false},
		{"ÄPFEL", "grüne äpfel", true},
		{"longer than content", "short", false},
	}
	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, NewFilter(tt.query).Match(tt.content))
		})
	}
}

func TestZeroFilter(t *testing.T) {
	var f Filter
	assert.True(t, f.Match("x"))
	assert.Equal(t, []int{}, f.Highlights("x"))
}

func TestFilterHighlights(t *testing.T) {
	f := NewFilter("ABA")
	assert.Equal(t, []int{0, 3, 8, 10}, f.Highlights("abaabaacababa"))
	assert.Equal(t, []int{}, f.Highlights("nothing"))
	assert.Equal(t, "ABA", f.Query())
}

func TestFilterApplyKeepsOrder(t *testing.T) {
	msgs := []store.Message{
		{ID: 1, Content: "Deploy done"},
		{ID: 2, Content: "lunch?"},
		{ID: 3, Content: "redeploy tonight"},
	}
	got := NewFilter("deploy").Apply(msgs)
	assert.Equal(t, []string{"Deploy done", "redeploy tonight"}, contents(got))
	assert.Len(t, NewFilter("").Apply(msgs), 3)
	assert.Empty(t, NewFilter("zzz").Apply(msgs))
}

func TestRoom(t *testing.T) {
	s := newTestStore(t, "alice", "bob", "carol", "dave")
	send(t, s, "alice", "bob", "Hello Bob", t0.Add(time.Minute))
	send(t, s, "bob", "alice", "hi alice, hello!", t0.Add(2*time.Minute))
	send(t, s, "alice", "bob", "see you", t0.Add(3*time.Minute))
	send(t, s, "carol", "alice", "ping", t0.Add(10*time.Minute))

	view, err := Room(s, "alice", "bob", "")
	require.NoError(t, err)
	assert.Equal(t, "bob", view.Peer.Username)
	assert.Equal(t, []string{"Hello Bob", "hi alice, hello!", "see you"}, contents(view.Messages))

	require.Len(t, view.Contacts, 3)
	assert.Equal(t, "carol", view.Contacts[0].User.Username)
	assert.Equal(t, "ping", view.Contacts[0].Last.Content)
	assert.Equal(t, "bob", view.Contacts[1].User.Username)
	assert.Equal(t, "see you", view.Contacts[1].Last.Content)
	assert.Equal(t, "dave", view.Contacts[2].User.Username)
	assert.False(t, view.Contacts[2].HasLast)

	view, err = Room(s, "alice", "bob", "HELLO")
	require.NoError(t, err)
	assert.Equal(t, "HELLO", view.Query)
	assert.Equal(t, []string{"Hello Bob", "hi alice, hello!"}, contents(view.Messages))
}

func TestRoomUnknownUser(t *testing.T) {
	s := newTestStore(t, "alice")
	_, err := Room(s, "alice", "ghost", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = Room(s, "ghost", "alice", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestContactsWithoutMessages(t *testing.T) {
	s := newTestStore(t, "zed", "amy", "me")
	contacts, err := Contacts(s, "me")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "amy", contacts[0].User.Username)
	assert.Equal(t, "zed", contacts[1].User.Username)
}
