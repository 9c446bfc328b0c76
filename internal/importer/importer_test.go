package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vocabflash/internal/domain"
	"vocabflash/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type mockSaver struct {
	mock.Mock
}

func (m *mockSaver) SaveWordWithArticle(ctx context.Context, userID int64, word, article, definition string, folderID *int64) (*domain.Word, error) {
	args := m.Called(ctx, userID, word, article, definition, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Word), args.Error(1)
}

func TestParseCSV(t *testing.T) {
	data := "word,definition,article\n" +
		"Haus,house,das\n" +
		"\n" +
		"  run , бежать\n" +
		"\"Tisch\",\"table, desk\",der\n"

	rows, err := ParseCSV(strings.NewReader(data), Config{SkipHeader: true})

	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{Line: 2, Word: "Haus", Definition: "house", Article: "das"}, rows[0])
	assert.Equal(t, Row{Line: 3, Word: "run", Definition: "бежать"}, rows[1])
	assert.Equal(t, "table, desk", rows[2].Definition)
}

func TestParseCSV_NoHeader(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("hello,привет\n"), Config{})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Line)
}

func newWorkbook(t *testing.T, cells map[string]string) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	for axis, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", axis, value))
	}
	return f
}

func TestParseXLSX(t *testing.T) {
	f := newWorkbook(t, map[string]string{
		"A1": "word", "B1": "definition", "C1": "article",
		"A2": "Haus", "B2": "house", "C2": "das",
		"A3": "run", "B3": "бежать",
	})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseXLSX(buf, Config{SkipHeader: true})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, Row{Line: 2, Word: "Haus", Definition: "house", Article: "das"}, rows[0])
	assert.Equal(t, Row{Line: 3, Word: "run", Definition: "бежать"}, rows[1])
}

func TestParseXLSX_MissingSheet(t *testing.T) {
	f := newWorkbook(t, map[string]string{"A1": "hello", "B1": "привет"})
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseXLSX(buf, Config{SheetName: "Nope"})

	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "words.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("hello,привет\n"), 0o600))

	xlsxPath := filepath.Join(dir, "words.xlsx")
	f := newWorkbook(t, map[string]string{"A1": "hello", "B1": "привет"})
	require.NoError(t, f.SaveAs(xlsxPath))

	for _, path := range []string{csvPath, xlsxPath} {
		rows, err := ReadFile(path, Config{})
		require.NoError(t, err, path)
		require.Len(t, rows, 1, path)
		assert.Equal(t, "hello", rows[0].Word)
	}

	_, err := ReadFile(filepath.Join(dir, "words.txt"), Config{})
	assert.Error(t, err)

	txtPath := filepath.Join(dir, "list.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("hello"), 0o600))
	_, err = ReadFile(txtPath, Config{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestImporter_Import(t *testing.T) {
	saver := new(mockSaver)
	folderID := int64(4)

	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "Haus", "das", "house", &folderID).
		Return(&domain.Word{ID: 1}, nil)
	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "run", "to", "", &folderID).
		Return(nil, fmt.Errorf("%w: empty", domain.ErrInvalidInput))
	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "walk", "", "идти", &folderID).
		Return(&domain.Word{ID: 2}, nil)

	im := New(saver, testutil.NewTestLogger())

	result, err := im.Import(context.Background(), 123, []Row{
		{Line: 1, Word: "Haus", Definition: "house", Article: "das"},
		{Line: 2, Word: "run", Article: "to"},
		{Line: 3, Word: "walk", Definition: "идти"},
	}, &folderID)

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 2")
	saver.AssertExpectations(t)
}

func TestImporter_Import_StorageFailure(t *testing.T) {
	saver := new(mockSaver)
	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "Haus", "", "house", (*int64)(nil)).
		Return(nil, fmt.Errorf("connection refused"))

	im := New(saver, testutil.NewTestLogger())

	result, err := im.Import(context.Background(), 123, []Row{
		{Line: 1, Word: "Haus", Definition: "house"},
		{Line: 2, Word: "walk", Definition: "идти"},
	}, nil)

	assert.Error(t, err)
	assert.Equal(t, 1, result.TotalProcessed)
	assert.Equal(t, 0, result.Created)
	saver.AssertNumberOfCalls(t, "SaveWordWithArticle", 1)
}

func TestImporter_Import_ArticleColumnIsNotParsed(t *testing.T) {
	saver := new(mockSaver)
	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "cool", "", "colloq: very good", (*int64)(nil)).
		Return(&domain.Word{ID: 1}, nil)
	saver.On("SaveWordWithArticle", mock.Anything, int64(123), "Häuser", "die (pl)", "houses", (*int64)(nil)).
		Return(&domain.Word{ID: 2}, nil)

	im := New(saver, testutil.NewTestLogger())

	result, err := im.Import(context.Background(), 123, []Row{
		{Line: 1, Word: "cool", Definition: "colloq: very good"},
		{Line: 2, Word: "Häuser", Definition: "houses", Article: "die (pl)"},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	saver.AssertExpectations(t)
}
