// Package middlewarectx содержит HTTP middleware сервиса.
//
// JWTMiddleware проверяет bearer-токен в заголовке Authorization и кладёт
// идентификатор пользователя в контекст запроса. При ошибке проверки
// возвращает HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/surchef/internal/http/response"
	"github.com/magabrotheeeer/surchef/internal/lib/jwt"
	"github.com/magabrotheeeer/surchef/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// UserID — ключ идентификатора пользователя в контексте.
const UserID Key = "user_id"

// TokenValidator проверяет сессионный токен.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*jwt.CustomClaims, error)
}

// JWTMiddleware возвращает middleware, который пропускает запрос дальше
// только с валидным токеном.
func JWTMiddleware(validator TokenValidator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := sl.ForRequest(r.Context(), log, op)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("missing or invalid authorization header"))
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

			claims, err := validator.ValidateToken(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFrom достаёт идентификатор пользователя из контекста.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}
