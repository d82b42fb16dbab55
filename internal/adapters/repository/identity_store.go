package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

// IdentityStore keeps credentials in their own table, apart from profile
// documents. Registration treats the two as independent stores and
// compensates across them.
type IdentityStore struct {
	db *sql.DB
}

var _ ports.IdentityStore = (*IdentityStore)(nil)

func NewIdentityStore(db *sql.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

func (s *IdentityStore) CreateCredential(ctx context.Context, id, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO credentials (id, email, password_hash, created_at) VALUES ($1, $2, $3, NOW())",
		id, email, hash,
	)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return domain.ErrEmailInUse
	}
	return err
}

func (s *IdentityStore) DeleteCredential(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credentials WHERE id = $1", id)
	return err
}

func (s *IdentityStore) Authenticate(ctx context.Context, email, password string) (domain.Identity, error) {
	var identity domain.Identity
	var hash []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash FROM credentials WHERE email = $1",
		email,
	).Scan(&identity.ID, &identity.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Identity{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return identity, nil
}
