package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmfields/tankful/internal/storage"
	"github.com/spf13/viper"
)

// openStorage opens the configured database and applies pending migrations.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "tankful", "tankful.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// expandFileArgs resolves glob patterns and literal paths into a file list.
func expandFileArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Not a glob match; accept it if it's a direct file.
			if _, statErr := os.Stat(pattern); statErr != nil {
				return nil, fmt.Errorf("no files found matching %s", pattern)
			}
			files = append(files, pattern)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
