package middleware

import (
	"context"
	"time"

	"vocabflash/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const authTimeout = 5 * time.Second

// UserAuthorizer is the part of AuthService the middleware needs
type UserAuthorizer interface {
	Authorize(ctx context.Context, userID int64) (bool, error)
}

var _ UserAuthorizer = (*service.AuthService)(nil)

// AuthMiddleware lets only authorized users through
func AuthMiddleware(auth UserAuthorizer, logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			userID := c.Sender().ID

			ctx, cancel := context.WithTimeout(context.Background(), authTimeout)
			defer cancel()

			authorized, err := auth.Authorize(ctx, userID)
			if err != nil {
				logger.Error("Failed to check authorization in middleware", zap.Error(err))
				return c.Send("Произошла ошибка. Попробуйте позже.")
			}

			if !authorized {
				logger.Info("Unauthorized access attempt", zap.Int64("user_id", userID))
				if c.Callback() != nil {
					_ = c.Respond()
				}
				return c.Send("Сначала введи пароль. Нажми /start")
			}

			return next(c)
		}
	}
}
