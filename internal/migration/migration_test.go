package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func files(m map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range m {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return count == 1
}

func TestGetCurrentVersion(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{"001_test.sql": "CREATE TABLE test (id INTEGER);"}), DriverSQLite)

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"003_another.sql": "CREATE TABLE test2 (id INTEGER);",
		"001_init.sql":    "CREATE TABLE test1 (id INTEGER);",
		"002_update.sql":  "ALTER TABLE test1 ADD COLUMN name TEXT;",
		"README.md":       "ignored",
	}), DriverSQLite)

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}

	want := []struct {
		version int
		name    string
	}{{1, "init"}, {2, "update"}, {3, "another"}}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d: expected %d/%s, got %d/%s", i, w.version, w.name, migrations[i].Version, migrations[i].Name)
		}
	}
}

func TestReadMigrationFilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{"missing underscore", map[string]string{"001init.sql": "SELECT 1;"}, "invalid migration filename"},
		{"non-numeric version", map[string]string{"abc_init.sql": "SELECT 1;"}, "invalid version number"},
		{"zero version", map[string]string{"000_init.sql": "SELECT 1;"}, "version must be at least 1"},
		{"duplicate version", map[string]string{"001_init.sql": "SELECT 1;", "001_other.sql": "SELECT 1;"}, "duplicate migration version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := NewRunner(setupTestDB(t), files(tt.files), DriverSQLite)
			_, err := runner.ReadMigrationFiles()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadMigrationFiles() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyMigrationsFromScratch(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql":  `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);`,
		"002_posts.sql": `CREATE TABLE posts (id INTEGER PRIMARY KEY, user_id INTEGER, content TEXT);`,
	}), DriverSQLite)

	var logged []string
	count, err := runner.ApplyMigrations(func(msg string) { logged = append(logged, msg) })
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}
	if len(logged) == 0 {
		t.Error("expected progress messages")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
	if !tableExists(t, db, "users") || !tableExists(t, db, "posts") {
		t.Error("tables were not created")
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	migrations := files(map[string]string{
		"001_init.sql": `CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);`,
	})
	runner := NewRunner(db, migrations, DriverSQLite)

	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("first ApplyMigrations = %d, %v", count, err)
	}

	pending, err := runner.Pending()
	if err != nil || pending {
		t.Fatalf("Pending() = %v, %v after applying all", pending, err)
	}

	migrations["002_posts.sql"] = &fstest.MapFile{Data: []byte(`CREATE TABLE posts (id INTEGER PRIMARY KEY);`)}

	pending, err = runner.Pending()
	if err != nil || !pending {
		t.Fatalf("Pending() = %v, %v with a new file", pending, err)
	}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 1 {
		t.Fatalf("second ApplyMigrations = %d, %v", count, err)
	}
	if count, err := runner.ApplyMigrations(nil); err != nil || count != 0 {
		t.Fatalf("third ApplyMigrations = %d, %v, want a no-op", count, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, files(map[string]string{
		"001_init.sql": `
			CREATE TABLE users (id INTEGER PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	}), DriverSQLite)

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}
	if tableExists(t, db, "users") {
		t.Error("table should not exist after failed migration")
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_init.sql": `CREATE TABLE users (id INTEGER PRIMARY KEY);`,
	}), DriverSQLite)

	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	if err := runner.ValidateVersion(); err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("ValidateVersion() error = %v, want newer schema error", err)
	}
	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with newer database version")
	}
}

func TestGetLatestVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), files(map[string]string{
		"001_init.sql":   `CREATE TABLE users (id INTEGER);`,
		"003_posts.sql":  `CREATE TABLE posts (id INTEGER);`,
		"002_update.sql": `ALTER TABLE users ADD COLUMN name TEXT;`,
	}), DriverSQLite)

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestInsertVersionSQL(t *testing.T) {
	if got := NewRunner(nil, nil, DriverPostgres).insertVersionSQL(); !strings.Contains(got, "$1") {
		t.Errorf("postgres runner should use $1 placeholders, got %q", got)
	}
	if got := NewRunner(nil, nil, DriverSQLite).insertVersionSQL(); !strings.Contains(got, "?") {
		t.Errorf("sqlite runner should use ? placeholders, got %q", got)
	}
}
