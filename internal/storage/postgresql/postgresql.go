// Package postgresql реализует удалённое хранилище на PostgreSQL.
//
// Пользователи, кладовые, планы питания и профили (цели по калориям) лежат в
// отдельных таблицах. Запись патча дашборда выполняется одной транзакцией.
package postgresql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/surchef/internal/models"
)

const uniqueViolation = "23505"

// Storage инкапсулирует соединение с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New подключается к удалённому хранилищу. accessKey подставляется в адрес
// в качестве пароля.
func New(ctx context.Context, endpoint, accessKey string) (*Storage, error) {
	const op = "storage.postgresql.New"

	dsn, err := BuildDSN(endpoint, accessKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, classify(err))
	}
	return &Storage{DB: db}, nil
}

// BuildDSN собирает строку подключения из адреса и ключа доступа.
// Поддерживаются URL (postgres://...) и формат key=value.
func BuildDSN(endpoint, accessKey string) (string, error) {
	if endpoint == "" {
		return "", errors.New("empty remote store endpoint")
	}
	if !strings.Contains(endpoint, "://") {
		if accessKey == "" {
			return endpoint, nil
		}
		return endpoint + " password='" + strings.ReplaceAll(accessKey, "'", `\'`) + "'", nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse remote store endpoint: %w", err)
	}
	if accessKey != "" {
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, accessKey)
	}
	return u.String(), nil
}

// classify сводит ошибки соединения к models.ErrRemoteUnavailable.
// Отсутствие строки превращается в models.ErrNotFound.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return err
	}
	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) ||
		pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %w", models.ErrRemoteUnavailable, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Ping проверяет доступность базы.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.postgresql.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, classify(err))
	}
	return nil
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}
