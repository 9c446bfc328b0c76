package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vocabflash/internal/config"
	"vocabflash/internal/importer"
	applog "vocabflash/internal/logger"
	"vocabflash/internal/repository/postgres"
	"vocabflash/internal/service"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		filePath   = flag.String("file", "", "path to an .xlsx or .csv file (columns: word, definition, article)")
		userID     = flag.Int64("user", 0, "Telegram user id that owns the words")
		folderID   = flag.Int64("folder", 0, "optional folder id to put the words into")
		sheetName  = flag.String("sheet", "", "xlsx sheet name, defaults to the first sheet")
		skipHeader = flag.Bool("header", true, "skip the first row")
	)
	flag.Parse()

	logCfg, err := config.LoadLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := applog.New(applog.Options{
		File:       logCfg.File,
		MaxSizeMB:  logCfg.MaxSizeMB,
		MaxBackups: logCfg.MaxBackups,
		MaxAgeDays: logCfg.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *filePath == "" || *userID == 0 {
		flag.Usage()
		os.Exit(2)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := sql.Open("postgres", dbCfg.DSN())
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	rows, err := importer.ReadFile(*filePath, importer.Config{
		SheetName:  *sheetName,
		SkipHeader: *skipHeader,
	})
	if err != nil {
		logger.Fatal("Failed to read import file", zap.String("file", *filePath), zap.Error(err))
	}

	userRepo := postgres.NewUserRepo(db)
	wordService := service.NewWordService(postgres.NewWordRepo(db), postgres.NewFolderRepo(db))

	if err := userRepo.EnsureUserExists(ctx, *userID); err != nil {
		logger.Fatal("Failed to ensure user exists", zap.Error(err))
	}

	var folder *int64
	if *folderID != 0 {
		folder = folderID
	}

	result, err := importer.New(wordService, logger).Import(ctx, *userID, rows, folder)
	if err != nil {
		logger.Fatal("Import failed", zap.Error(err))
	}

	for _, msg := range result.Errors {
		logger.Warn("Row skipped", zap.String("reason", msg))
	}

	fmt.Printf("Processed %d rows: %d created, %d skipped\n", result.TotalProcessed, result.Created, result.Skipped)
}
