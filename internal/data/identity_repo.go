package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/target/social-login-api/internal/data/pgxutil"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

// IdentityRepo is the Postgres-backed identity registry. The UNIQUE
// (provider, provider_id) constraint makes FindOrCreate race-safe across
// replicas: concurrent first logins for the same pair settle on one row.
type IdentityRepo struct {
	DB           *sql.DB
	TimeProvider TimeProvider
	newID        func() string
}

// NewIdentityRepo creates a Postgres identity registry.
func NewIdentityRepo(db *sql.DB, tp TimeProvider) *IdentityRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &IdentityRepo{
		DB:           db,
		TimeProvider: tp,
		newID:        func() string { return uuid.NewString() },
	}
}

const identityColumns = `id, provider, provider_id, name, email, avatar_url, created_at`

// FindOrCreate returns the identity for (provider, profile.ProviderID),
// creating it on first login. Profile data from later logins is discarded:
// identities are immutable after creation.
func (r *IdentityRepo) FindOrCreate(
	ctx context.Context,
	provider domainauth.Provider,
	profile domainauth.NormalizedProfile,
) (domainauth.Identity, error) {
	if profile.ProviderID == "" {
		return domainauth.Identity{}, domainauth.ErrProfileIncomplete
	}

	var identity domainauth.Identity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		found, lookupErr := r.lookup(ctx, conn, provider, profile.ProviderID, &identity)
		if lookupErr != nil {
			return lookupErr
		}
		if found {
			return nil
		}

		insertErr := r.insert(ctx, conn, provider, profile, &identity)
		if insertErr == nil {
			return nil
		}

		// A concurrent login won the insert race; its row is the identity.
		var pgErr *pgconn.PgError
		if errors.As(insertErr, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			found, lookupErr = r.lookup(ctx, conn, provider, profile.ProviderID, &identity)
			if lookupErr != nil {
				return lookupErr
			}
			if found {
				return nil
			}
		}
		return insertErr
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	return identity, nil
}

func (r *IdentityRepo) lookup(
	ctx context.Context,
	conn *pgx.Conn,
	provider domainauth.Provider,
	providerID string,
	dst *domainauth.Identity,
) (bool, error) {
	row := conn.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE provider = $1 AND provider_id = $2`,
		string(provider), providerID,
	)
	if err := scanIdentity(row, dst); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("select identity: %w", err)
	}
	return true, nil
}

func (r *IdentityRepo) insert(
	ctx context.Context,
	conn *pgx.Conn,
	provider domainauth.Provider,
	profile domainauth.NormalizedProfile,
	dst *domainauth.Identity,
) error {
	row := conn.QueryRow(ctx,
		`INSERT INTO identities (id, provider, provider_id, name, email, avatar_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+identityColumns,
		r.newID(), string(provider), profile.ProviderID,
		profile.Name, profile.Email, profile.AvatarURL,
		r.TimeProvider.Now().UTC(),
	)
	if err := scanIdentity(row, dst); err != nil {
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

// FindByID returns the identity with the given id.
func (r *IdentityRepo) FindByID(ctx context.Context, id string) (domainauth.Identity, error) {
	var identity domainauth.Identity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		row := conn.QueryRow(ctx,
			`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id,
		)
		if scanErr := scanIdentity(row, &identity); scanErr != nil {
			if errors.Is(scanErr, pgx.ErrNoRows) {
				return domainauth.ErrIdentityNotFound
			}
			return fmt.Errorf("select identity by id: %w", scanErr)
		}
		return nil
	})
	if err != nil {
		return domainauth.Identity{}, err
	}
	return identity, nil
}

func scanIdentity(row pgx.Row, dst *domainauth.Identity) error {
	var provider string
	if err := row.Scan(
		&dst.ID, &provider, &dst.ProviderID,
		&dst.Name, &dst.Email, &dst.AvatarURL, &dst.CreatedAt,
	); err != nil {
		return err
	}
	dst.Provider = domainauth.Provider(provider)
	return nil
}
