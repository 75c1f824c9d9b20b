package database

import (
	"io/fs"
	"strings"
	"testing"
)

// 埋め込みマイグレーションにup/downのペアが揃っていることを検証
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no embedded migration files found")
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("missing down migration for %s", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("missing up migration for %s", base)
		}
	}
}

// 初期マイグレーションに中核の不変条件が定義されていることを検証
func TestInitMigration_CoreConstraints(t *testing.T) {
	data, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	if err != nil {
		t.Fatalf("failed to read init migration: %v", err)
	}
	sql := string(data)

	// 票の一意性はストレージレベルの制約で保証される
	if !strings.Contains(sql, "UNIQUE (user_id, anecdote_id, type)") {
		t.Error("votes table must have UNIQUE (user_id, anecdote_id, type)")
	}

	// アネクドート削除は票をCASCADE削除する
	if !strings.Contains(sql, "REFERENCES anecdotes(id) ON DELETE CASCADE") {
		t.Error("votes.anecdote_id must cascade on anecdote deletion")
	}
}
