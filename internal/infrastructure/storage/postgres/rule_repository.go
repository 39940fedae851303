package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/rule"
)

// RuleRepository — персистентность правил разрешения; Store в памяти
// остается источником истины и пишет сюда насквозь.
type RuleRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRuleRepository(pool *pgxpool.Pool, log *slog.Logger) *RuleRepository {
	return &RuleRepository{
		pool: pool,
		log:  log.With(slog.String("component", "rule_repository")),
	}
}

func (r *RuleRepository) List(ctx context.Context) ([]rule.Rule, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT entity_type, property, resolution_type, updated_at FROM resolution_rules`)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	var rules []rule.Rule
	for rows.Next() {
		var rl rule.Rule
		var entityType, resolutionType string
		if err := rows.Scan(&entityType, &rl.Property, &resolutionType, &rl.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rl.EntityType = rule.EntityType(entityType)
		rl.Type = rule.ResolutionType(resolutionType)
		rules = append(rules, rl)
	}
	return rules, rows.Err()
}

func (r *RuleRepository) Upsert(ctx context.Context, rl rule.Rule) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO resolution_rules (entity_type, property, resolution_type, updated_at)
         VALUES ($1, $2, $3, $4)
         ON CONFLICT (entity_type, property) DO UPDATE SET
             resolution_type = EXCLUDED.resolution_type,
             updated_at = EXCLUDED.updated_at`,
		string(rl.EntityType), rl.Property, string(rl.Type), rl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert rule: %w", err)
	}
	return nil
}

func (r *RuleRepository) Delete(ctx context.Context, key rule.Key) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM resolution_rules WHERE entity_type = $1 AND property = $2`,
		string(key.EntityType), key.Property)
	if err != nil {
		return false, fmt.Errorf("delete rule: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RuleRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM resolution_rules`); err != nil {
		return fmt.Errorf("delete rules: %w", err)
	}
	return nil
}
