package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"stock-api/internal/domain"
	"stock-api/internal/repository"
)

const selectUserColumns = `SELECT id, name, last_name, email, password_hash, created_at, updated_at FROM users`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

// Init migrates the schema the repository depends on.
func (r *UserRepository) Init(ctx context.Context) error {
	return Migrate(ctx, r.db, nil)
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	stored := *user
	stored.Email = normalizeEmail(user.Email)
	stored.Token = ""
	stored.CreatedAt = now
	stored.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, name, last_name, email, password_hash, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.Name,
		stored.LastName,
		stored.Email,
		stored.PasswordHash,
		stored.CreatedAt,
		stored.UpdatedAt,
	)
	if err != nil {
		switch constraintCode(err) {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return nil, &domain.UserAlreadyExistsError{Email: stored.Email}
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return nil, &domain.UserAlreadyExistsError{ID: stored.ID}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &stored, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET name=?, last_name=?, email=?, password_hash=?, updated_at=?
WHERE id=?`,
		user.Name,
		user.LastName,
		normalizeEmail(user.Email),
		user.PasswordHash,
		time.Now().UTC(),
		user.ID,
	)
	if err != nil {
		if constraintCode(err) == sqlite3lib.SQLITE_CONSTRAINT_UNIQUE {
			return nil, &domain.UserAlreadyExistsError{Email: normalizeEmail(user.Email)}
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("user rows affected: %w", err)
	}
	if affected == 0 {
		return nil, domain.ErrUserNotFound
	}

	return r.FindByID(ctx, user.ID)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+`
WHERE email = ?`,
		normalizeEmail(email),
	)
	return scanUser(row)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserColumns+`
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE email = ? LIMIT 1`, normalizeEmail(email)).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// constraintCode returns the extended sqlite result code of a constraint
// failure, or 0 for any other error.
func constraintCode(err error) int {
	var sqliteErr *msqlite.Error
	if !errors.As(err, &sqliteErr) {
		return 0
	}
	switch code := sqliteErr.Code(); code {
	case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
		return code
	}
	return 0
}
