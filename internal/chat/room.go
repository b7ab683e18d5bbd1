// Package chat assembles conversation views and searches message history.
package chat

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mhr3/skipscan/internal/store"
)

// Store is the subset of the store a room view reads from.
type Store interface {
	GetUser(username string) (store.User, error)
	ListUsers(exclude string) ([]store.User, error)
	Conversation(a, b string) ([]store.Message, error)
	LastMessage(a, b string) (store.Message, bool, error)
}

// Contact is another user and the newest message exchanged with them.
type Contact struct {
	User    store.User
	Last    store.Message
	HasLast bool
}

// RoomView is what one user sees when talking to a peer.
type RoomView struct {
	Peer     store.User
	Query    string
	Messages []store.Message
	Contacts []Contact
}

// Room builds the view of me talking to peer. A non-empty query keeps only
// messages containing it, ignoring case.
func Room(s Store, me, peer, query string) (RoomView, error) {
	if _, err := s.GetUser(me); err != nil {
		return RoomView{}, fmt.Errorf("room: %w", err)
	}
	p, err := s.GetUser(peer)
	if err != nil {
		return RoomView{}, fmt.Errorf("room: %w", err)
	}
	msgs, err := s.Conversation(me, peer)
	if err != nil {
		return RoomView{}, fmt.Errorf("room: conversation: %w", err)
	}
	contacts, err := Contacts(s, me)
	if err != nil {
		return RoomView{}, err
	}
	return RoomView{
		Peer:     p,
		Query:    query,
		Messages: NewFilter(query).Apply(msgs),
		Contacts: contacts,
	}, nil
}

// Contacts lists every user except me. Users with a message come first,
// newest exchange first; the rest follow by username.
func Contacts(s Store, me string) ([]Contact, error) {
	users, err := s.ListUsers(me)
	if err != nil {
		return nil, fmt.Errorf("contacts: %w", err)
	}
	contacts := make([]Contact, 0, len(users))
	for _, u := range users {
		last, ok, err := s.LastMessage(me, u.Username)
		if err != nil {
			return nil, fmt.Errorf("contacts: %s: %w", u.Username, err)
		}
		contacts = append(contacts, Contact{User: u, Last: last, HasLast: ok})
	}
	slices.SortStableFunc(contacts, compareContacts)
	return contacts, nil
}

func compareContacts(a, b Contact) int {
	switch {
	case a.HasLast && !b.HasLast:
		return -1
	case !a.HasLast && b.HasLast:
		return 1
	case a.HasLast && b.HasLast:
		if c := b.Last.Timestamp.Compare(a.Last.Timestamp); c != 0 {
			return c
		}
	}
	return strings.Compare(a.User.Username, b.User.Username)
}
