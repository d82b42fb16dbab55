package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/mirasur/agenda-service/internal/core/domain"
	"github.com/mirasur/agenda-service/internal/core/ports"
)

const eventTypeFamilyRegistered = "family.registered"

type UserRepository struct {
	db *sql.DB
}

var _ ports.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, name, role, created_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) ListParents(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, email, name, role, created_at FROM users WHERE role = $1 ORDER BY name, email",
		domain.RoleParent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parents []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		parents = append(parents, u)
	}
	return parents, rows.Err()
}

// CreateProfile inserts the profile document and an outbox event row in one
// transaction. A trigger on outbox_events notifies the relay.
func (r *UserRepository) CreateProfile(ctx context.Context, user domain.User, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, email, name, role, created_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Email, user.Name, user.Role, user.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
		uuid.NewString(), eventTypeFamilyRegistered, outboxPayload,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
