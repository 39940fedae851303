package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Репозитории пишут SQL от руки, а схему создает golang-migrate из
// migrations/. Эти тесты держат обе стороны в согласии: каждая колонка,
// упомянутая в запросах репозиториев, обязана существовать в миграции.

var createTableRe = regexp.MustCompile(`(?ms)^CREATE TABLE IF NOT EXISTS (\w+) \((.*?)^\);`)

// loadSchema разбирает init-миграцию в map таблица -> множество колонок.
func loadSchema(t *testing.T) map[string]map[string]struct{} {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init.up.sql"))
	require.NoError(t, err, "init migration must be readable from the repo root")

	schema := make(map[string]map[string]struct{})
	for _, m := range createTableRe.FindAllStringSubmatch(string(raw), -1) {
		table, body := m[1], m[2]
		columns := make(map[string]struct{})
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "PRIMARY KEY") {
				continue
			}
			columns[strings.Fields(line)[0]] = struct{}{}
		}
		schema[table] = columns
	}

	require.NotEmpty(t, schema, "no CREATE TABLE statements parsed from the migration")
	return schema
}

func assertColumns(t *testing.T, schema map[string]map[string]struct{}, table string, columns []string) {
	t.Helper()

	cols, ok := schema[table]
	require.Truef(t, ok, "table %q is missing from the init migration", table)
	for _, c := range columns {
		assert.Containsf(t, cols, c, "column %s.%s is referenced by repository SQL but absent from the migration", table, c)
	}
}

func TestSchema_ConflictRepositoryColumns(t *testing.T) {
	schema := loadSchema(t)

	// conflictColumns — общий список SELECT; UPDATE-переход статуса
	// не трогает других колонок.
	var columns []string
	for _, c := range strings.Split(conflictColumns, ",") {
		columns = append(columns, strings.TrimSpace(c))
	}
	assertColumns(t, schema, "conflicts", columns)
}

func TestSchema_EntityStoreColumns(t *testing.T) {
	schema := loadSchema(t)

	// upsertEntity выполняется внутри транзакции разрешения: несуществующая
	// колонка откатила бы каждый Resolve и оставила конфликт в pending.
	assertColumns(t, schema, "entity_records", []string{
		"entity_type", "entity_id", "payload", "updated_at",
	})
}

func TestSchema_AuditRepositoryColumns(t *testing.T) {
	schema := loadSchema(t)

	assertColumns(t, schema, "conflict_audit", []string{
		"id", "conflict_id", "action", "old_status", "new_status", "user_id", "ts", "details",
	})
}

func TestSchema_RuleRepositoryColumns(t *testing.T) {
	schema := loadSchema(t)

	assertColumns(t, schema, "resolution_rules", []string{
		"entity_type", "property", "resolution_type", "updated_at",
	})
}

func TestSchema_AuthColumns(t *testing.T) {
	schema := loadSchema(t)

	assertColumns(t, schema, "users", []string{"id", "login", "password_hash", "created_at"})
	assertColumns(t, schema, "sessions", []string{"user_id", "token_hash", "expires_at"})
}
