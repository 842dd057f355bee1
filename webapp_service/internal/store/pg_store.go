package store

import (
	"context"
	"errors"
	"fmt"

	identityerrors "github.com/flowersales/flowersales/webapp_service/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const userColumns = `id, user_name, normalized_user_name, email, normalized_email,
	email_confirmed, password_hash, security_stamp, created_at`

// PgStore implements UserStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of UserStore using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

func (p *PgStore) Create(ctx context.Context, user User) (*User, error) {
	const q = `INSERT INTO users (id, user_name, normalized_user_name, email, normalized_email,
		email_confirmed, password_hash, security_stamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`
	err := p.db.QueryRow(ctx, q,
		user.ID, user.UserName, user.NormalizedUserName, user.Email, user.NormalizedEmail,
		user.EmailConfirmed, user.PasswordHash, user.SecurityStamp,
	).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, identityerrors.ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return p.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (p *PgStore) FindByNormalizedEmail(ctx context.Context, normalizedEmail string) (*User, error) {
	return p.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE normalized_email = $1`, normalizedEmail)
}

func (p *PgStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return identityerrors.ErrUserNotFound
	}
	return nil
}

func (p *PgStore) findOne(ctx context.Context, sql string, arg any) (*User, error) {
	var u User
	err := p.db.QueryRow(ctx, sql, arg).Scan(
		&u.ID, &u.UserName, &u.NormalizedUserName, &u.Email, &u.NormalizedEmail,
		&u.EmailConfirmed, &u.PasswordHash, &u.SecurityStamp, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identityerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}
