package store

import (
	"fmt"
	"slices"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Message is one chat message between two users.
type Message struct {
	ID        uint64    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func (m Message) between(a, b string) bool {
	return (m.Sender == a && m.Receiver == b) || (m.Sender == b && m.Receiver == a)
}

// compareMessages orders by timestamp, then by ID.
func compareMessages(x, y Message) int {
	if c := x.Timestamp.Compare(y.Timestamp); c != 0 {
		return c
	}
	switch {
	case x.ID < y.ID:
		return -1
	case x.ID > y.ID:
		return 1
	}
	return 0
}

// AddMessage stores m and returns it with its assigned ID.
// Both participants must exist.
func (s *Store) AddMessage(m Message) (Message, error) {
	if m.Timestamp.IsZero() {
		return Message{}, fmt.Errorf("timestamp: %w", ErrInvalid)
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(bucketUsers)
		for _, name := range []string{m.Sender, m.Receiver} {
			if users.Get([]byte(name)) == nil {
				return fmt.Errorf("user %q: %w", name, ErrNotFound)
			}
		}
		b := tx.Bucket(bucketMessages)
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		m.ID = id
		return putJSON(b, itob(id), m)
	})
	if err != nil {
		return Message{}, err
	}
	return m, nil
}

// Conversation returns every message exchanged between a and b, in either
// direction, oldest first.
func (s *Store) Conversation(a, b string) ([]Message, error) {
	var msgs []Message
	err := s.eachMessage(func(m Message) {
		if m.between(a, b) {
			msgs = append(msgs, m)
		}
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(msgs, compareMessages)
	return msgs, nil
}

// LastMessage returns the newest message between a and b.
// ok is false when they have never exchanged one.
func (s *Store) LastMessage(a, b string) (last Message, ok bool, err error) {
	err = s.eachMessage(func(m Message) {
		if !m.between(a, b) {
			return
		}
		if !ok || compareMessages(m, last) > 0 {
			last, ok = m, true
		}
	})
	return last, ok, err
}

func (s *Store) eachMessage(fn func(Message)) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMessages).ForEach(func(k, v []byte) error {
			var m Message
			if err := decode(k, v, &m); err != nil {
				return err
			}
			fn(m)
			return nil
		})
	})
}
