package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coworkops/internal/common"
	"coworkops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error)
	LockForUpdate(ctx context.Context, id uuid.UUID) error
	WithTx(tx pgx.Tx) UserRepository
}

type userRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) WithTx(tx pgx.Tx) UserRepository {
	return &userRepo{db: tx}
}

const userColumns = `id, email, password_hash, full_name, role, branch_id, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role, &u.BranchID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	query := `
		INSERT INTO users (id, email, password_hash, full_name, role, branch_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query, user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.BranchID, user.IsActive, user.CreatedAt, user.UpdatedAt)
	if isUniqueViolation(err, "") {
		return fmt.Errorf("%w: user with email '%s' already exists", common.ErrValidation, user.Email)
	}
	return translate(err)
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, translate(err))
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context, role *models.Role, limit, offset int) ([]*models.User, error) {
	p := &placeholder{}
	query := `SELECT ` + userColumns + ` FROM users WHERE 1 = 1`
	if role != nil {
		query += " AND role = " + p.add(*role)
	}
	query += " ORDER BY full_name LIMIT " + p.add(limit) + " OFFSET " + p.add(offset)

	rows, err := r.db.Query(ctx, query, p.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// LockForUpdate takes a row lock on the user, serialising that subject's
// concurrent booking requests.
func (r *userRepo) LockForUpdate(ctx context.Context, id uuid.UUID) error {
	var locked uuid.UUID
	if err := r.db.QueryRow(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&locked); err != nil {
		return fmt.Errorf("user %s: %w", id, translate(err))
	}
	return nil
}
