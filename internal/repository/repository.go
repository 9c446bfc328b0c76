package repository

import (
	"context"

	"vocabflash/internal/domain"
)

// UserRepository defines user data operations
type UserRepository interface {
	IsAuthorized(ctx context.Context, userID int64) (bool, error)
	AuthorizeUser(ctx context.Context, userID int64) error
	EnsureUserExists(ctx context.Context, userID int64) error
	ListAuthorized(ctx context.Context) ([]int64, error)
}

// WordRepository defines word data operations
type WordRepository interface {
	SaveWord(ctx context.Context, word *domain.Word) error
	ListByUser(ctx context.Context, userID int64) ([]domain.Word, error)
	UpdateProgress(ctx context.Context, word domain.Word) error
	CountDue(ctx context.Context, userID int64) (int, error)
}

// FolderRepository defines folder data operations
type FolderRepository interface {
	CreateFolder(ctx context.Context, folder *domain.Folder) error
	GetFolder(ctx context.Context, userID, folderID int64) (*domain.Folder, error)
	ListFolders(ctx context.Context, userID int64, limit, offset int) ([]domain.Folder, error)
	CountFolders(ctx context.Context, userID int64) (int, error)
	AddWordToFolder(ctx context.Context, folderID int64, wordID int) error
}
