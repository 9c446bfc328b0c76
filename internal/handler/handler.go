package handler

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"vocabflash/internal/domain"
	"vocabflash/internal/middleware"
	"vocabflash/internal/service"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const (
	// requestTimeout bounds the repository work done for one update
	requestTimeout = 10 * time.Second

	// Abandoned add-word flows fall back to idle after stateTTL
	stateTTL           = 24 * time.Hour
	stateCleanupPeriod = time.Hour
)

// Handler manages all bot interactions
type Handler struct {
	bot          *tele.Bot
	authService  *service.AuthService
	wordService  *service.WordService
	studyService *service.StudyService
	statsService *service.StatsService
	logger       *zap.Logger

	// User states (in-memory state machine), keyed by user id
	states *cache.Cache

	// Per-user locks so card answers are processed one at a time
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	wordService *service.WordService,
	studyService *service.StudyService,
	statsService *service.StatsService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:           bot,
		authService:   authService,
		wordService:   wordService,
		studyService:  studyService,
		statsService:  statsService,
		logger:        logger,
		states:        cache.New(stateTTL, stateCleanupPeriod),
		callbackLocks: make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	// Open to everyone: /start and the password prompt
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle(tele.OnText, h.handleText)

	// Everything else requires an authorized user
	g := h.bot.Group()
	g.Use(middleware.AuthMiddleware(h.authService, h.logger))

	g.Handle("/study", h.handleStudyMenu)
	g.Handle("/due", h.handleDueStudy)
	g.Handle("/folders", h.handleFolders)
	g.Handle("/newfolder", h.handleNewFolder)
	g.Handle("/stats", h.handleStats)

	// Callback queries (inline buttons)
	g.Handle(&btnStudy, h.handleStudyMenu)
	g.Handle(&btnDue, h.handleDueStudy)
	g.Handle(&btnFolders, h.handleFolders)
	g.Handle(&btnAddWord, h.handleAddWord)
	g.Handle(&btnStats, h.handleStats)
	g.Handle(&btnCancel, h.handleCancel)
	g.Handle(&btnBack, h.handleStart)
	g.Handle(&btnMainMenu, h.handleStart)
	g.Handle(&btnReveal, h.handleReveal)
	g.Handle(&btnStopStudy, h.handleStopStudy)

	// Generic callback handler for dynamic data
	g.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	if x, found := h.states.Get(stateKey(userID)); found {
		return x.(*domain.StateData)
	}
	return &domain.StateData{State: domain.StateIdle}
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.states.Set(stateKey(userID), state, cache.DefaultExpiration)
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.states.Delete(stateKey(userID))
}

func stateKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// lockUser serializes callback processing for one user
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

var _ service.Notifier = (*Handler)(nil)

// SendReminder tells a user how many words are waiting for review
func (h *Handler) SendReminder(userID int64, dueCount int) error {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnDue))

	_, err := h.bot.Send(
		tele.ChatID(userID),
		fmt.Sprintf("⏰ Пора повторить! Слов к повторению: %d", dueCount),
		markup,
	)
	return err
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Inline keyboard buttons
var (
	btnStudy = tele.Btn{
		Unique: "study_menu",
		Text:   "📚 Учить",
	}
	btnDue = tele.Btn{
		Unique: "due",
		Text:   "⏰ Повторить сейчас",
	}
	btnFolders = tele.Btn{
		Unique: "folders",
		Text:   "📁 Папки",
	}
	btnAddWord = tele.Btn{
		Unique: "add_word",
		Text:   "➕ Добавить слово",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "📊 Статистика",
	}
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Отменить",
	}
	btnBack = tele.Btn{
		Unique: "back",
		Text:   "🏠 Назад",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Главное меню",
	}
	btnReveal = tele.Btn{
		Unique: "reveal",
		Text:   "👀 Показать ответ",
	}
	btnStopStudy = tele.Btn{
		Unique: "stop_study",
		Text:   "⏹ Закончить",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnStudy, btnDue),
		menu.Row(btnFolders, btnAddWord),
		menu.Row(btnStats),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(btnCancel))
	return markup
}
