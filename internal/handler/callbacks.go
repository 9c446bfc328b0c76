package handler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"vocabflash/internal/domain"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Prefixes of dynamic callback data
const (
	prefixStudyType   = "type_"
	prefixFolderPage  = "fpage_"
	prefixFolder      = "folder_"
	prefixFolderStudy = "fstudy_"
	prefixFolderAddTo = "fadd_"
	prefixKnow        = "know_"
	prefixDontKnow    = "dunno_"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseIDSuffix extracts the numeric id that follows prefix
func parseIDSuffix(data, prefix string) (int64, error) {
	return strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(data), prefix), 10, 64)
}

// handleEditError handles errors from c.Edit() - if message is not modified, just acknowledge callback
// Otherwise, acknowledge callback and return error so caller can send new message
func (h *Handler) handleEditError(err error, c tele.Context, userID int64) error {
	if err == nil {
		return nil
	}

	// If message is not modified, it means it was already edited by another callback
	if strings.Contains(err.Error(), "message is not modified") {
		h.logger.Debug("Message already modified by another callback, acknowledging",
			zap.Int64("user_id", userID),
			zap.String("callback_id", c.Callback().ID),
		)
		c.Respond()
		return nil
	}

	h.logger.Warn("Failed to edit message, sending new",
		zap.Error(err),
		zap.Int64("user_id", userID),
		zap.String("callback_id", c.Callback().ID),
	)
	// Always acknowledge callback before sending new message
	if ackErr := c.Respond(); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return err
}

// render edits the message for callbacks and sends a new one for commands
func (h *Handler) render(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	if c.Callback() == nil {
		return c.Send(text, markup)
	}

	if err := c.Edit(text, markup); err != nil {
		if handleErr := h.handleEditError(err, c, c.Sender().ID); handleErr == nil {
			return nil // Message was already modified, just acknowledged
		}
		return c.Send(text, markup)
	}
	return c.Respond()
}

// alert answers a callback with a popup, or sends a message for commands
func alert(c tele.Context, text string) error {
	if c.Callback() == nil {
		return c.Send(text)
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

// handleCallback handles callbacks whose Unique has no registered handler
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Clean data from all non-printable characters
	data := cleanCallbackData(callback.Data)
	h.logger.Debug("handleCallback: Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
		zap.String("unique", callback.Unique),
		zap.Int64("user_id", c.Sender().ID),
	)

	// Static buttons whose Unique did not come through
	switch data {
	case btnStudy.Unique:
		return h.handleStudyMenu(c)
	case btnDue.Unique:
		return h.handleDueStudy(c)
	case btnFolders.Unique:
		return h.handleFolders(c)
	case btnAddWord.Unique:
		return h.handleAddWord(c)
	case btnStats.Unique:
		return h.handleStats(c)
	case btnCancel.Unique:
		return h.handleCancel(c)
	case btnBack.Unique, btnMainMenu.Unique:
		return h.handleStart(c)
	case btnReveal.Unique:
		return h.handleReveal(c)
	case btnStopStudy.Unique:
		return h.handleStopStudy(c)
	}

	// Handle by Data prefix (dynamic buttons)
	switch {
	case strings.HasPrefix(data, prefixStudyType):
		return h.handleStudyType(c, data)
	case strings.HasPrefix(data, prefixFolderPage):
		return h.handleFolderPage(c, data)
	case strings.HasPrefix(data, prefixFolderStudy):
		return h.handleFolderStudy(c, data)
	case strings.HasPrefix(data, prefixFolderAddTo):
		return h.handleFolderAdd(c, data)
	case strings.HasPrefix(data, prefixFolder):
		return h.handleFolderSelection(c, data)
	case strings.HasPrefix(data, prefixKnow):
		return h.handleAnswer(c, data, prefixKnow, true)
	case strings.HasPrefix(data, prefixDontKnow):
		return h.handleAnswer(c, data, prefixDontKnow, false)
	}

	// If it's not handled, acknowledge it anyway
	h.logger.Warn("Unhandled callback in handleCallback",
		zap.String("data", data),
		zap.String("unique", callback.Unique),
	)
	return c.Respond()
}

// handleFolders shows the first page of folders
func (h *Handler) handleFolders(c tele.Context) error {
	return h.showFolders(c, 1)
}

// handleFolderPage handles folder list navigation
func (h *Handler) handleFolderPage(c tele.Context, data string) error {
	page, err := parseIDSuffix(data, prefixFolderPage)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная страница"})
	}
	return h.showFolders(c, int(page))
}

func (h *Handler) showFolders(c tele.Context, page int) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	folders, totalPages, err := h.wordService.GetFoldersList(ctx, userID, page)
	if err != nil {
		h.logger.Error("Failed to get folders list", zap.Error(err))
		return alert(c, "Ошибка при загрузке данных")
	}

	if len(folders) == 0 && page <= 1 {
		return alert(c, "У тебя пока нет папок. Создай: /newfolder Глаголы")
	}

	return h.render(c, "📁 Твои папки:", folderListMarkup(folders, page, totalPages))
}

// folderListMarkup builds one button per folder plus page navigation
func folderListMarkup(folders []domain.Folder, page, totalPages int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	for _, f := range folders {
		btnText := fmt.Sprintf("%s (%d)", f.Name, f.WordCount)
		rows = append(rows, markup.Row(markup.Data(btnText, fmt.Sprintf("%s%d", prefixFolder, f.ID))))
	}

	if totalPages > 1 {
		navRow := tele.Row{}
		if page > 1 {
			navRow = append(navRow, markup.Data("⬅️", fmt.Sprintf("%s%d", prefixFolderPage, page-1)))
		}
		if page < totalPages {
			navRow = append(navRow, markup.Data("➡️", fmt.Sprintf("%s%d", prefixFolderPage, page+1)))
		}
		if len(navRow) > 0 {
			rows = append(rows, navRow)
		}
	}

	rows = append(rows, markup.Row(btnBack))
	markup.Inline(rows...)
	return markup
}

// handleFolderSelection shows what can be done with a folder
func (h *Handler) handleFolderSelection(c tele.Context, data string) error {
	userID := c.Sender().ID

	folderID, err := parseIDSuffix(data, prefixFolder)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная папка"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	folder, err := h.wordService.GetFolder(ctx, userID, folderID)
	if errors.Is(err, domain.ErrNotFound) {
		return alert(c, "Папка не найдена")
	}
	if err != nil {
		h.logger.Error("Failed to get folder", zap.Error(err))
		return alert(c, "Ошибка при загрузке")
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("▶️ Практика", fmt.Sprintf("%s%d", prefixFolderStudy, folder.ID))),
		markup.Row(markup.Data("➕ Добавить слова", fmt.Sprintf("%s%d", prefixFolderAddTo, folder.ID))),
		markup.Row(btnFolders, btnMainMenu),
	)

	return h.render(c, fmt.Sprintf("📁 %s\n\nСлов: %d", folder.Name, folder.WordCount), markup)
}

// handleFolderAdd switches the add-word flow to a folder
func (h *Handler) handleFolderAdd(c tele.Context, data string) error {
	userID := c.Sender().ID

	folderID, err := parseIDSuffix(data, prefixFolderAddTo)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная папка"})
	}

	ctx, cancel := requestContext()
	defer cancel()

	folder, err := h.wordService.GetFolder(ctx, userID, folderID)
	if err != nil {
		h.logger.Warn("Failed to get folder for adding", zap.Error(err), zap.Int64("folder_id", folderID))
		return alert(c, "Папка не найдена")
	}

	h.SetState(userID, &domain.StateData{
		State:    domain.StateWaitingWord,
		FolderID: &folder.ID,
	})

	return h.render(c, fmt.Sprintf("Отправь слово для папки «%s»", folder.Name), cancelMarkup())
}
