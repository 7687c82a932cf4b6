package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusDisabled Status = "DISABLED"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is the account record. The credential hash never leaves the
// repo/auth layers.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	LastSeenAt   time.Time `json:"last_seen_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const userColumns = `id::text, email, display_name, password_hash, role, status, last_seen_at, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status, &u.LastSeenAt, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, email, displayName, passwordHash string) (*User, error) {
	const q = `
insert into users (email, display_name, password_hash)
values (lower($1), $2, $3)
returning ` + userColumns + `;`

	u, err := scanUser(r.db.QueryRow(ctx, q, email, displayName, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	const q = `select ` + userColumns + ` from users where email = lower($1);`
	return scanUser(r.db.QueryRow(ctx, q, email))
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `select ` + userColumns + ` from users where id = $1::uuid;`
	return scanUser(r.db.QueryRow(ctx, q, id))
}

func (r *Repo) TouchLastSeen(ctx context.Context, id string) error {
	const q = `update users set last_seen_at = now() where id = $1::uuid;`
	_, err := r.db.Exec(ctx, q, id)
	return err
}

// List is the admin oversight view. Accounts are never hard-deleted;
// disabling sets status instead.
func (r *Repo) List(ctx context.Context, limit int) ([]User, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `select ` + userColumns + ` from users order by created_at desc limit $1;`
	rows, err := r.db.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]User, 0, limit)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status, &u.LastSeenAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) SetStatus(ctx context.Context, id string, status Status) error {
	const q = `update users set status = $2 where id = $1::uuid;`
	ct, err := r.db.Exec(ctx, q, id, status)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
