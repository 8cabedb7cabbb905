package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "jobswipe.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestProfileRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	profile := &schemas.UserProfileData{
		Identity: schemas.Identity{Firstname: "Ada", Email: "ada@example.com"},
		Links:    schemas.Links{LinkedIn: "https://linkedin.com/in/ada"},
	}
	require.NoError(t, s.SaveProfile(ctx, profile))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, profile, got)
}

func TestLoadMissingKeysReturnsNil(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	profile, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	offer, err := s.LoadOffer(ctx)
	require.NoError(t, err)
	assert.Nil(t, offer)
}

func TestLastWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveProfile(ctx, &schemas.UserProfileData{
		Identity: schemas.Identity{Firstname: "Ada"},
	}))
	require.NoError(t, s.SaveProfile(ctx, &schemas.UserProfileData{
		Identity: schemas.Identity{Firstname: "Grace"},
	}))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Grace", got.Identity.Firstname)
}

func TestOfferRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	offer := &schemas.JobOffer{
		Title:   "Backend Engineer",
		Company: "Acme Corp",
		URL:     "https://jobs.acme.test/backend",
	}
	require.NoError(t, s.SaveOffer(ctx, offer))

	got, err := s.LoadOffer(ctx)
	require.NoError(t, err)
	assert.Equal(t, offer, got)
}

func TestKeysAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveOffer(ctx, &schemas.JobOffer{Title: "Backend Engineer"}))

	profile, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobswipe.db")

	s, err := Open(ctx, path, nil)
	require.NoError(t, err)
	require.NoError(t, s.SaveProfile(ctx, &schemas.UserProfileData{
		Identity: schemas.Identity{Firstname: "Ada"},
	}))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path, nil)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", got.Identity.Firstname)
}
