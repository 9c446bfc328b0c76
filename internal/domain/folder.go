package domain

import "time"

// Folder groups words. Words reference folders, folders do not own words.
type Folder struct {
	ID        int64
	UserID    int64
	Name      string
	WordCount int
	CreatedAt time.Time
}
