package handler

import (
	"errors"
	"fmt"
	"strings"

	"vocabflash/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const definitionPrompt = "Жду определение.\n\nМожно указать артикль: «das: дом»"

// handleText handles all text messages based on state
func (h *Handler) handleText(c tele.Context) error {
	userID := c.Sender().ID
	text := strings.TrimSpace(c.Text())

	// Ignore commands (starting with /)
	if strings.HasPrefix(text, "/") {
		return nil
	}

	ctx, cancel := requestContext()
	defer cancel()

	authorized, err := h.authService.Authorize(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to check authorization", zap.Error(err))
		return c.Send(genericError)
	}

	// Anything an unauthorized user types is a password attempt
	if !authorized {
		ok, err := h.authService.Login(ctx, userID, text)
		if err != nil {
			h.logger.Error("Failed to authorize user", zap.Error(err))
			return c.Send(genericError)
		}
		if !ok {
			return c.Send("Неверный пароль")
		}

		h.logger.Info("User authorized", zap.Int64("user_id", userID))
		h.ResetState(userID)
		return c.Send("✅ Доступ разрешён!\n\n"+mainMenuText, mainMenuMarkup())
	}

	// User is authorized, handle based on state
	state := h.GetState(userID)

	switch state.State {
	case domain.StateWaitingDefinition:
		// User sent definition, save the word
		word, err := h.wordService.SaveWord(ctx, userID, state.CurrentWord, text, state.FolderID)
		if err != nil {
			h.logger.Error("Failed to save word",
				zap.Error(err),
				zap.Int64("user_id", userID),
			)
			if errors.Is(err, domain.ErrNotFound) {
				h.ResetState(userID)
				return c.Send("Папка не найдена. Вернитесь в /start")
			}
			return c.Send("Не удалось сохранить слово. Попробуйте ещё раз.")
		}

		h.logger.Info("Word saved",
			zap.Int64("user_id", userID),
			zap.Int("word_id", word.ID),
			zap.Int64s("folders", word.Folders),
		)

		// Reset to waiting for next word, staying in the same folder
		h.SetState(userID, &domain.StateData{
			State:    domain.StateWaitingWord,
			FolderID: state.FolderID,
		})

		return c.Send(fmt.Sprintf("✅ Сохранено: %s\n\nМожешь отправить следующее слово или вернуться в /start", word.DisplayWord()))

	default:
		// Idle or waiting for a word: this text is the word
		h.SetState(userID, &domain.StateData{
			State:       domain.StateWaitingDefinition,
			CurrentWord: text,
			FolderID:    state.FolderID,
		})

		return c.Send(definitionPrompt, cancelMarkup())
	}
}

// handleAddWord starts the add-word flow outside of any folder
func (h *Handler) handleAddWord(c tele.Context) error {
	h.SetState(c.Sender().ID, &domain.StateData{State: domain.StateWaitingWord})
	return h.render(c, "Отправь слово", cancelMarkup())
}

// handleNewFolder handles /newfolder <name>
func (h *Handler) handleNewFolder(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	folder, err := h.wordService.CreateFolder(ctx, userID, c.Message().Payload)
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Send("Укажи новое имя папки: /newfolder Глаголы")
	}
	if err != nil {
		h.logger.Error("Failed to create folder", zap.Error(err), zap.Int64("user_id", userID))
		return c.Send(genericError)
	}

	h.logger.Info("Folder created",
		zap.Int64("user_id", userID),
		zap.Int64("folder_id", folder.ID),
	)

	return c.Send(fmt.Sprintf("📁 Папка «%s» создана", folder.Name), newFolderMarkup(folder.ID))
}

func newFolderMarkup(folderID int64) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("➕ Добавить слова", fmt.Sprintf("%s%d", prefixFolderAddTo, folderID))),
		markup.Row(btnFolders, btnMainMenu),
	)
	return markup
}
