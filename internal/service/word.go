package service

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"vocabflash/internal/domain"
	"vocabflash/internal/repository"
)

const (
	// FoldersPageSize is how many folders fit on one list page
	FoldersPageSize = 7

	maxFolderNameLength = 64
	maxArticleLength    = 8
)

// WordService handles word and folder business logic
type WordService struct {
	wordRepo   repository.WordRepository
	folderRepo repository.FolderRepository
}

// NewWordService creates a new word service
func NewWordService(wordRepo repository.WordRepository, folderRepo repository.FolderRepository) *WordService {
	return &WordService{
		wordRepo:   wordRepo,
		folderRepo: folderRepo,
	}
}

// SaveWord saves a word typed in chat. The definition may carry an
// "article: definition" prefix.
func (s *WordService) SaveWord(ctx context.Context, userID int64, word, definition string, folderID *int64) (*domain.Word, error) {
	article, definition := ParseDefinition(definition)
	return s.SaveWordWithArticle(ctx, userID, word, article, definition, folderID)
}

// SaveWordWithArticle saves a word whose article is already known. When
// folderID is set the word is also added to that folder.
func (s *WordService) SaveWordWithArticle(ctx context.Context, userID int64, word, article, definition string, folderID *int64) (*domain.Word, error) {
	word = strings.TrimSpace(word)
	article = strings.TrimSpace(article)
	definition = strings.TrimSpace(definition)
	if word == "" || definition == "" {
		return nil, fmt.Errorf("%w: word and definition cannot be empty", domain.ErrInvalidInput)
	}

	if folderID != nil {
		if _, err := s.folderRepo.GetFolder(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}

	w := &domain.Word{
		UserID:     userID,
		Word:       word,
		Definition: definition,
		Article:    article,
		Difficulty: domain.DifficultyNew,
	}
	if err := s.wordRepo.SaveWord(ctx, w); err != nil {
		return nil, fmt.Errorf("save word: %w", err)
	}

	if folderID != nil {
		if err := s.folderRepo.AddWordToFolder(ctx, *folderID, w.ID); err != nil {
			return w, fmt.Errorf("add word %d to folder %d: %w", w.ID, *folderID, err)
		}
		w.Folders = []int64{*folderID}
	}

	return w, nil
}

// ParseDefinition splits an optional "article: definition" prefix.
// The article must be a single short token, otherwise the whole input is
// treated as the definition.
func ParseDefinition(input string) (article, definition string) {
	input = strings.TrimSpace(input)

	prefix, rest, found := strings.Cut(input, ":")
	if !found {
		return "", input
	}

	prefix = strings.TrimSpace(prefix)
	rest = strings.TrimSpace(rest)
	if prefix == "" || rest == "" || utf8.RuneCountInString(prefix) > maxArticleLength ||
		strings.IndexFunc(prefix, unicode.IsSpace) >= 0 {
		return "", input
	}

	return prefix, rest
}

// CreateFolder creates a named folder for the user
func (s *WordService) CreateFolder(ctx context.Context, userID int64, name string) (*domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name cannot be empty", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > maxFolderNameLength {
		return nil, fmt.Errorf("%w: folder name is longer than %d characters", domain.ErrInvalidInput, maxFolderNameLength)
	}

	folder := &domain.Folder{UserID: userID, Name: name}
	if err := s.folderRepo.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// GetFolder returns one of the user's folders
func (s *WordService) GetFolder(ctx context.Context, userID, folderID int64) (*domain.Folder, error) {
	return s.folderRepo.GetFolder(ctx, userID, folderID)
}

// GetFoldersList returns paginated list of folders with word counts
func (s *WordService) GetFoldersList(ctx context.Context, userID int64, page int) ([]domain.Folder, int, error) {
	if page < 1 {
		page = 1
	}

	offset := (page - 1) * FoldersPageSize
	folders, err := s.folderRepo.ListFolders(ctx, userID, FoldersPageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	// Calculate total pages
	total, err := s.folderRepo.CountFolders(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	totalPages := (total + FoldersPageSize - 1) / FoldersPageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return folders, totalPages, nil
}
