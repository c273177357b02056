package postgresql

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// CreateUser сохраняет нового пользователя. Уникальный индекс по lower(email)
// превращается в models.ErrDuplicateAccount.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.postgresql.CreateUser"

	query := `INSERT INTO users (id, name, email, password_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5)`
	_, err := s.DB.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateAccount)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByEmail"

	query := `SELECT id, name, email, password_hash, created_at
			  FROM users
			  WHERE lower(email) = lower($1)`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.postgresql.GetUserByID"

	query := `SELECT id, name, email, password_hash, created_at
			  FROM users
			  WHERE id::text = $1`
	u := &models.User{}
	err := s.DB.QueryRowContext(ctx, query, userID).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return u, nil
}
