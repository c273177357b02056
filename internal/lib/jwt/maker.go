// Package jwt реализует выпуск и проверку сессионных JWT токенов.
//
// Maker определяет интерфейс для создания и проверки токенов с данными пользователя.
// MakerImpl — конкретная реализация с использованием секретного ключа и срока жизни.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/surchef/internal/models"
)

// DefaultTTL — фиксированный срок жизни сессии.
const DefaultTTL = 7 * 24 * time.Hour

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken выпускает токен с id, именем и email пользователя.
	GenerateToken(user *models.User) (string, error)
	// ParseToken проверяет подпись и срок жизни, возвращает claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string           // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration    // Время жизни токена.
	now       func() time.Time // Источник времени, подменяется в тестах.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
// Нулевой TTL заменяется на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}
