package store

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// User is a registered chat participant.
type User struct {
	ID       uint64    `json:"id"`
	Username string    `json:"username"`
	Joined   time.Time `json:"joined"`
}

// Profile holds per-user presence and the encrypted secret field.
type Profile struct {
	Username        string    `json:"username"`
	Name            string    `json:"name,omitempty"`
	LastSeen        time.Time `json:"last_seen"`
	SecretEncrypted string    `json:"secret_encrypted,omitempty"`
}

// Sealer encrypts and decrypts field values. *secret.Box implements it.
type Sealer interface {
	EncryptString(plain string) (string, error)
	Decrypt(token string) ([]byte, error)
}

// SetSecret encrypts value into the profile.
func (p *Profile) SetSecret(box Sealer, value string) error {
	token, err := box.EncryptString(value)
	if err != nil {
		return err
	}
	p.SecretEncrypted = token
	return nil
}

// Secret decrypts the profile secret. ok is false when none is stored.
func (p *Profile) Secret(box Sealer) (value string, ok bool, err error) {
	if p.SecretEncrypted == "" {
		return "", false, nil
	}
	plain, err := box.Decrypt(p.SecretEncrypted)
	if err != nil {
		return "", false, err
	}
	return string(plain), true, nil
}

// CreateUser registers username. Returns ErrExists if it is taken.
func (s *Store) CreateUser(username string, joined time.Time) (User, error) {
	if username == "" {
		return User{}, fmt.Errorf("username: %w", ErrInvalid)
	}
	var u User
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUsers)
		if b.Get([]byte(username)) != nil {
			return fmt.Errorf("user %q: %w", username, ErrExists)
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		u = User{ID: id, Username: username, Joined: joined}
		return putJSON(b, []byte(username), u)
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// GetUser returns the user named username, or ErrNotFound.
func (s *Store) GetUser(username string) (User, error) {
	var u User
	err := s.db.View(func(tx *bolt.Tx) error {
		ok, err := getJSON(tx.Bucket(bucketUsers), []byte(username), &u)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil
	})
	return u, err
}

// ListUsers returns all users except exclude, ordered by username.
func (s *Store) ListUsers(exclude string) ([]User, error) {
	var users []User
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketUsers).ForEach(func(k, v []byte) error {
			if string(k) == exclude {
				return nil
			}
			var u User
			if err := decode(k, v, &u); err != nil {
				return err
			}
			users = append(users, u)
			return nil
		})
	})
	return users, err
}

// GetProfile returns the stored profile for username, or ErrNotFound.
func (s *Store) GetProfile(username string) (Profile, error) {
	var p Profile
	err := s.db.View(func(tx *bolt.Tx) error {
		ok, err := getJSON(tx.Bucket(bucketProfiles), []byte(username), &p)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile %q: %w", username, ErrNotFound)
		}
		return nil
	})
	return p, err
}

// EnsureProfile returns the profile for username, creating an empty one if
// the user exists but has no profile yet.
func (s *Store) EnsureProfile(username string) (Profile, error) {
	var p Profile
	err := s.db.Update(func(tx *bolt.Tx) error {
		var err error
		p, err = ensureProfile(tx, username)
		return err
	})
	return p, err
}

func ensureProfile(tx *bolt.Tx, username string) (Profile, error) {
	if tx.Bucket(bucketUsers).Get([]byte(username)) == nil {
		return Profile{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	b := tx.Bucket(bucketProfiles)
	var p Profile
	ok, err := getJSON(b, []byte(username), &p)
	if err != nil {
		return Profile{}, err
	}
	if ok {
		return p, nil
	}
	p = Profile{Username: username}
	return p, putJSON(b, []byte(username), p)
}

// SaveProfile writes p. The owning user must exist.
func (s *Store) SaveProfile(p Profile) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketUsers).Get([]byte(p.Username)) == nil {
			return fmt.Errorf("user %q: %w", p.Username, ErrNotFound)
		}
		return putJSON(tx.Bucket(bucketProfiles), []byte(p.Username), p)
	})
}

// TouchLastSeen records at as the last activity of username, creating the
// profile if needed.
func (s *Store) TouchLastSeen(username string, at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		p, err := ensureProfile(tx, username)
		if err != nil {
			return err
		}
		p.LastSeen = at
		return putJSON(tx.Bucket(bucketProfiles), []byte(username), p)
	})
}
