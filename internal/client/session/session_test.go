package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/cinecollection/internal/client/client"
	"github.com/dmitrijs2005/cinecollection/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(client.NewRepositories(db).Metadata)
}

func TestLoad_Empty(t *testing.T) {
	s := newStore(t)

	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
	assert.False(t, sess.LoggedIn())
}

func TestSaveLoadClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	want := &Session{Token: "tok", User: models.UserView{ID: 4, Email: "a@b.c", Name: "Ann"}}

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, got.LoggedIn())

	require.NoError(t, s.Clear(ctx))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSave_EmptyTokenClears(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &Session{Token: "tok"}))
	require.NoError(t, s.Save(ctx, &Session{}))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingRepo) Set(context.Context, string, []byte) error { return f.err }
func (f failingRepo) Delete(context.Context, string) error { return f.err }
func (f failingRepo) List(context.Context) (map[string][]byte, error) { return nil, f.err }
func (f failingRepo) Clear(context.Context) error { return f.err }

func TestStore_PropagatesRepoErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewStore(failingRepo{err: boom})
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Save(ctx, &Session{Token: "t"}), boom)
	assert.ErrorIs(t, s.Clear(ctx), boom)
}
