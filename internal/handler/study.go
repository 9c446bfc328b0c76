package handler

import (
	"errors"
	"fmt"
	"strings"

	"vocabflash/internal/domain"
	"vocabflash/internal/service"
	"vocabflash/internal/srs"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

var studyTypeLabels = map[domain.StudyType]string{
	domain.StudyAll:      "📚 Все слова",
	domain.StudyNew:      "🆕 Новые",
	domain.StudyLearning: "📖 Изучаемые",
	domain.StudyReview:   "🔁 К повторению",
	domain.StudyMastered: "🏆 Выученные",
	domain.StudyFailed:   "⚠️ Проблемные",
}

var difficultyLabels = map[domain.Difficulty]string{
	domain.DifficultyNew:      "🆕 Новые",
	domain.DifficultyLearning: "📖 Изучаемые",
	domain.DifficultyReview:   "🔁 На повторении",
	domain.DifficultyMastered: "🏆 Выученные",
	domain.DifficultyFailed:   "⚠️ Проблемные",
}

// handleStudyMenu shows the study type menu
func (h *Handler) handleStudyMenu(c tele.Context) error {
	return h.render(c, "📚 Что будем учить?", studyMenuMarkup())
}

func studyMenuMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	types := domain.StudyTypes()
	for i := 0; i < len(types); i += 2 {
		row := tele.Row{markup.Data(studyTypeLabels[types[i]], prefixStudyType+string(types[i]))}
		if i+1 < len(types) {
			row = append(row, markup.Data(studyTypeLabels[types[i+1]], prefixStudyType+string(types[i+1])))
		}
		rows = append(rows, row)
	}

	rows = append(rows, markup.Row(btnDue), markup.Row(btnBack))
	markup.Inline(rows...)
	return markup
}

// handleStudyType starts a session for the chosen study type
func (h *Handler) handleStudyType(c tele.Context, data string) error {
	studyType, err := domain.ParseStudyType(strings.TrimPrefix(data, prefixStudyType))
	if err != nil {
		h.logger.Warn("Unknown study type in callback", zap.String("data", data))
		return c.Respond(&tele.CallbackResponse{Text: "Неизвестный режим"})
	}

	return h.startStudy(c, domain.StudyConfig{StudyType: studyType})
}

// handleFolderStudy practises a folder, leaving mastered words out
func (h *Handler) handleFolderStudy(c tele.Context, data string) error {
	folderID, err := parseIDSuffix(data, prefixFolderStudy)
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: "Неверная папка"})
	}

	return h.startStudy(c, domain.StudyConfig{
		StudyType:      domain.StudyAll,
		FolderID:       &folderID,
		FolderPractice: true,
	})
}

func (h *Handler) startStudy(c tele.Context, cfg domain.StudyConfig) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	ctx, cancel := requestContext()
	defer cancel()

	progress, err := h.studyService.Start(ctx, userID, cfg)
	if errors.Is(err, domain.ErrInvalidConfig) {
		return alert(c, "Папка не найдена")
	}
	if err != nil {
		h.logger.Error("Failed to start study session", zap.Error(err), zap.Int64("user_id", userID))
		return alert(c, "Ошибка при загрузке слов")
	}

	return h.showProgress(c, progress)
}

// handleDueStudy starts a quick session over every due word
func (h *Handler) handleDueStudy(c tele.Context) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	ctx, cancel := requestContext()
	defer cancel()

	progress, err := h.studyService.StartDue(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to start due session", zap.Error(err), zap.Int64("user_id", userID))
		return alert(c, "Ошибка при загрузке слов")
	}

	return h.showProgress(c, progress)
}

// handleReveal shows the definition of the current card
func (h *Handler) handleReveal(c tele.Context) error {
	progress, err := h.studyService.Current(c.Sender().ID)
	if err != nil {
		return h.sessionGone(c)
	}
	return h.render(c, cardText(progress, true), cardMarkup(progress.Current.ID, true))
}

// handleAnswer records know / don't know for the card whose id the button carries
func (h *Handler) handleAnswer(c tele.Context, data, prefix string, isCorrect bool) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	wordID, err := parseIDSuffix(data, prefix)
	if err != nil {
		h.logger.Error("Failed to parse word ID", zap.Error(err), zap.String("data", data))
		return c.Respond()
	}

	ctx, cancel := requestContext()
	defer cancel()

	progress, err := h.studyService.Answer(ctx, userID, int(wordID), isCorrect)
	switch {
	case errors.Is(err, domain.ErrSessionNotActive):
		return h.sessionGone(c)
	case errors.Is(err, domain.ErrStaleAnswer):
		h.logger.Debug("Ignoring answer for an old card", zap.Int64("user_id", userID), zap.Int64("word_id", wordID))
		return c.Respond()
	case errors.Is(err, domain.ErrPersistFailure):
		return alert(c, "Не удалось сохранить ответ. Нажми ещё раз.")
	case err != nil:
		h.logger.Error("Failed to record answer", zap.Error(err), zap.Int64("user_id", userID))
		return alert(c, genericError)
	}

	return h.showProgress(c, progress)
}

// handleStopStudy ends the session early and shows what was done so far
func (h *Handler) handleStopStudy(c tele.Context) error {
	userID := c.Sender().ID
	defer h.lockUser(userID)()

	progress, err := h.studyService.Current(userID)
	h.studyService.End(userID)
	if err != nil {
		return h.render(c, mainMenuText, mainMenuMarkup())
	}

	return h.render(c, "⏹ Сессия остановлена\n\n"+statsLine(progress.Stats), mainMenuMarkup())
}

func (h *Handler) showProgress(c tele.Context, progress service.StudyProgress) error {
	switch progress.State {
	case srs.StateEmpty:
		return h.render(c, "🤷 Нет слов для изучения по выбранным условиям", mainMenuMarkup())
	case srs.StateComplete:
		return h.render(c, "🎉 Готово!\n\n"+statsLine(progress.Stats), mainMenuMarkup())
	default:
		return h.render(c, cardText(progress, false), cardMarkup(progress.Current.ID, false))
	}
}

func (h *Handler) sessionGone(c tele.Context) error {
	return h.render(c, "Сессия закончилась. Начни новую:\n\n"+mainMenuText, mainMenuMarkup())
}

// cardText renders the current card, with the definition once revealed
func cardText(progress service.StudyProgress, revealed bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🃏 Карточка %d/%d", progress.Position+1, progress.Total)
	if name := progress.Config.FolderName; name != "" {
		fmt.Fprintf(&b, " · 📁 %s", name)
	}
	fmt.Fprintf(&b, "\n\n📝 %s", progress.Current.DisplayWord())

	if revealed {
		fmt.Fprintf(&b, "\n\n💬 %s", progress.Current.Definition)
	}
	return b.String()
}

// cardMarkup returns the card buttons; answers carry the word id
func cardMarkup(wordID int, revealed bool) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if revealed {
		markup.Inline(
			markup.Row(
				markup.Data("✅ Знаю", fmt.Sprintf("%s%d", prefixKnow, wordID)),
				markup.Data("❌ Не знаю", fmt.Sprintf("%s%d", prefixDontKnow, wordID)),
			),
			markup.Row(btnStopStudy),
		)
	} else {
		markup.Inline(
			markup.Row(btnReveal),
			markup.Row(btnStopStudy),
		)
	}
	return markup
}

func statsLine(stats srs.Stats) string {
	return fmt.Sprintf("Правильно: %d из %d (%.0f%%)", stats.Correct, stats.Total, stats.Accuracy()*100)
}

// handleStats shows the learning progress of the user
func (h *Handler) handleStats(c tele.Context) error {
	userID := c.Sender().ID

	ctx, cancel := requestContext()
	defer cancel()

	summary, err := h.statsService.Summary(ctx, userID)
	if err != nil {
		h.logger.Error("Failed to build stats", zap.Error(err), zap.Int64("user_id", userID))
		return alert(c, "Ошибка при загрузке статистики")
	}

	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnDue), markup.Row(btnBack))

	return h.render(c, summaryText(summary), markup)
}

func summaryText(summary service.Summary) string {
	if summary.Total == 0 {
		return "📊 У тебя пока нет слов. Просто отправь слово, чтобы добавить его."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Статистика\n\nВсего слов: %d\n", summary.Total)
	for _, d := range domain.Difficulties() {
		fmt.Fprintf(&b, "%s: %d\n", difficultyLabels[d], summary.ByDifficulty[d])
	}
	fmt.Fprintf(&b, "\n⏰ К повторению сейчас: %d\n", summary.Due)
	fmt.Fprintf(&b, "🩹 Слабые (точность ниже 50%%): %d\n", summary.Failed)
	fmt.Fprintf(&b, "🎯 Точность: %.0f%% (%d из %d)", summary.Accuracy()*100, summary.Correct, summary.Reviews)
	return b.String()
}
