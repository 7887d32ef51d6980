// Package session persists the signed-in user's token between CLI runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/dmitrijs2005/cinecollection/internal/client/repositories/metadata"
)

const (
	tokenKey = "session.token"
	userKey  = "session.user"
)

// Session is the authenticated identity of the CLI user.
type Session struct {
	Token string
	User  models.UserView
}

func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}

type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Load returns the stored session, or nil when nobody is signed in.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	tok, err := s.repo.Get(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if len(tok) == 0 {
		return nil, nil
	}

	sess := &Session{Token: string(tok)}
	raw, err := s.repo.Get(ctx, userKey)
	if err != nil {
		return nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &sess.User); err != nil {
			return nil, fmt.Errorf("decode stored user: %w", err)
		}
	}
	return sess, nil
}

func (s *Store) Save(ctx context.Context, sess *Session) error {
	if !sess.LoggedIn() {
		return s.Clear(ctx)
	}
	raw, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	if err := s.repo.Set(ctx, userKey, raw); err != nil {
		return err
	}
	return s.repo.Set(ctx, tokenKey, []byte(sess.Token))
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, tokenKey); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userKey)
}
