package handler

import (
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	mainMenuText   = "🏠 Главное меню\n\nВыберите действие:"
	passwordPrompt = "Привет! Это закрытый бот для изучения слов. Введи пароль:"
	genericError   = "Произошла ошибка. Попробуйте позже."
)

// handleStart handles /start command
func (h *Handler) handleStart(c tele.Context) error {
	userID := c.Sender().ID

	h.logger.Info("User started bot",
		zap.Int64("user_id", userID),
		zap.String("username", c.Sender().Username),
	)

	ctx, cancel := requestContext()
	defer cancel()

	authorized, err := h.authService.Authorize(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(genericError)
	}

	h.ResetState(userID)

	if !authorized {
		return c.Send(passwordPrompt)
	}

	return h.render(c, mainMenuText, mainMenuMarkup())
}

// handleCancel cancels current operation and resets state
func (h *Handler) handleCancel(c tele.Context) error {
	h.ResetState(c.Sender().ID)
	return h.render(c, mainMenuText, mainMenuMarkup())
}
