package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ignite/measure-agent/internal/pkg/logger"
)

// ApplyMigrations runs every .sql file in dir in lexical order, each in its
// own transaction. It stops at the first failing file.
func ApplyMigrations(ctx context.Context, db *sql.DB, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read migrations dir %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	applied := 0
	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", f, err)
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("begin %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, content); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("apply %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("commit %s: %w", f, err)
		}
		logger.Info("migration applied", "file", f)
		applied++
	}
	return applied, nil
}
