package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
	"github.com/target/social-login-api/internal/testutil"
	"golang.org/x/sync/errgroup"
)

func newTestRepo(db *sql.DB) *IdentityRepo {
	return NewIdentityRepo(db, NewFixedTimeProvider(testutil.TestTime()))
}

func TestIdentityRepo_FindOrCreate(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)
		ctx := context.Background()

		identity, err := repo.FindOrCreate(ctx, domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			ProviderID: "li-subject",
			Name:       "Jane Doe",
			Email:      "jane@example.com",
			AvatarURL:  "https://cdn.example.com/jane.png",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, identity.ID)
		assert.Equal(t, domainauth.ProviderLinkedIn, identity.Provider)
		assert.Equal(t, "li-subject", identity.ProviderID)
		assert.Equal(t, "Jane Doe", identity.Name)
		assert.Equal(t, "jane@example.com", identity.Email)
		assert.Equal(t, "https://cdn.example.com/jane.png", identity.AvatarURL)
		assert.Equal(t, testutil.TestTime(), identity.CreatedAt.UTC())
	})
}

func TestIdentityRepo_FindOrCreate_Idempotent(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)
		ctx := context.Background()

		first, err := repo.FindOrCreate(ctx, domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			ProviderID: "li-subject",
			Name:       "Jane Doe",
		})
		require.NoError(t, err)

		// A second login with fresher profile data returns the original row.
		second, err := repo.FindOrCreate(ctx, domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			ProviderID: "li-subject",
			Name:       "Jane Renamed",
			Email:      "new@example.com",
		})
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "Jane Doe", second.Name)
		assert.Empty(t, second.Email)
	})
}

func TestIdentityRepo_FindOrCreate_ProvidersAreIsolated(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)
		ctx := context.Background()

		li, err := repo.FindOrCreate(ctx, domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			ProviderID: "shared-id",
			Name:       "Jane Doe",
		})
		require.NoError(t, err)

		tt, err := repo.FindOrCreate(ctx, domainauth.ProviderTikTok, domainauth.NormalizedProfile{
			ProviderID: "shared-id",
			Name:       "TT Jane",
		})
		require.NoError(t, err)

		assert.NotEqual(t, li.ID, tt.ID)
	})
}

func TestIdentityRepo_FindOrCreate_EmptyProviderID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)

		_, err := repo.FindOrCreate(context.Background(), domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			Name: "No Subject",
		})
		assert.ErrorIs(t, err, domainauth.ErrProfileIncomplete)
	})
}

func TestIdentityRepo_FindOrCreate_ConcurrentFirstLogin(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)
		ctx := context.Background()

		const workers = 8
		ids := make([]string, workers)

		var group errgroup.Group
		for i := 0; i < workers; i++ {
			group.Go(func() error {
				identity, err := repo.FindOrCreate(ctx, domainauth.ProviderTikTok, domainauth.NormalizedProfile{
					ProviderID: "open-1",
					Name:       "TT Jane",
				})
				if err != nil {
					return err
				}
				ids[i] = identity.ID
				return nil
			})
		}
		require.NoError(t, group.Wait())

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}

		var count int
		require.NoError(t, db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM identities WHERE provider = $1 AND provider_id = $2`,
			string(domainauth.ProviderTikTok), "open-1",
		).Scan(&count))
		assert.Equal(t, 1, count)
	})
}

func TestIdentityRepo_FindByID(t *testing.T) {
	testutil.WithTestDB(t, func(db *sql.DB) {
		repo := newTestRepo(db)
		ctx := context.Background()

		created, err := repo.FindOrCreate(ctx, domainauth.ProviderLinkedIn, domainauth.NormalizedProfile{
			ProviderID: "li-subject",
			Name:       "Jane Doe",
		})
		require.NoError(t, err)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, created.ProviderID, found.ProviderID)

		_, err = repo.FindByID(ctx, "no-such-id")
		assert.ErrorIs(t, err, domainauth.ErrIdentityNotFound)
	})
}
