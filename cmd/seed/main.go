package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"expense-tracker/internal/dto"
	"expense-tracker/internal/repository"
	"expense-tracker/internal/service"
	"expense-tracker/pkg/config"
	"expense-tracker/pkg/logger"
	"expense-tracker/pkg/postgres"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db, appLogger); err != nil {
		appLogger.Fatal("Failed to prepare database schema", zap.Error(err))
	}

	txService := service.NewTransactionService(repository.NewTransactionRepository(db, appLogger), appLogger)

	seedFile := filepath.Join("cmd", "seed", "transactions.json")
	if len(os.Args) > 1 {
		seedFile = os.Args[1]
	}
	cacheFile := filepath.Join(filepath.Dir(seedFile), ".seed_cache.json")

	appLogger.Info("Starting database seeding...", zap.String("file", seedFile))

	created, err := seedTransactions(ctx, seedFile, cacheFile, txService, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}

	appLogger.Info("Database seeding completed successfully!", zap.Int("created", created))
}

// SeededFile records a seed file that was already imported.
type SeededFile struct {
	FilePath   string    `json:"file_path"`
	FileHash   string    `json:"file_hash"`
	SeededAt   time.Time `json:"seeded_at"`
	CreatedIDs []int64   `json:"created_ids"`
}

// CacheData stores information about imported files
type CacheData struct {
	SeededFiles map[string]SeededFile `json:"seeded_files"` // key: file path
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{
		SeededFiles: make(map[string]SeededFile),
	}

	data, err := os.ReadFile(cacheFile)
	if errors.Is(err, os.ErrNotExist) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if len(data) == 0 {
		return cache, nil
	}

	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.SeededFiles == nil {
		cache.SeededFiles = make(map[string]SeededFile)
	}

	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

func calculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to calculate hash: %w", err)
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// seedTransactions imports a JSON array of transactions through the service,
// so seeded rows pass the same validation as API writes. A file whose hash
// is already in the cache is skipped. Entries that fail validation are
// logged and skipped; a store failure aborts the run.
func seedTransactions(
	ctx context.Context,
	seedFile string,
	cacheFile string,
	txService *service.TransactionService,
	logger *zap.Logger,
) (int, error) {
	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will import anyway", zap.Error(err))
		cache = &CacheData{SeededFiles: make(map[string]SeededFile)}
	}

	fileHash, err := calculateFileHash(seedFile)
	if err != nil {
		return 0, err
	}

	if cached, exists := cache.SeededFiles[seedFile]; exists && cached.FileHash == fileHash {
		logger.Info("Seed file already imported, skipping",
			zap.String("path", seedFile),
			zap.Time("seeded_at", cached.SeededAt),
		)
		return 0, nil
	}

	data, err := os.ReadFile(seedFile)
	if err != nil {
		return 0, fmt.Errorf("failed to read seed file: %w", err)
	}

	var requests []dto.TransactionRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	ids := make([]int64, 0, len(requests))
	for i := range requests {
		id, err := txService.Create(ctx, &requests[i])
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			logger.Warn("Skipping invalid seed entry",
				zap.Int("index", i),
				zap.String("reason", vErr.Message),
			)
			continue
		}
		if err != nil {
			return len(ids), fmt.Errorf("failed to create entry %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	cache.SeededFiles[seedFile] = SeededFile{
		FilePath:   seedFile,
		FileHash:   fileHash,
		SeededAt:   time.Now(),
		CreatedIDs: ids,
	}
	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}

	return len(ids), nil
}
