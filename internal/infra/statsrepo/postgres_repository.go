package statsrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

const schema = `
	CREATE TABLE IF NOT EXISTS chat_outcomes (
		day     DATE        NOT NULL,
		outcome TEXT        NOT NULL,
		count   BIGINT      NOT NULL DEFAULT 0,
		PRIMARY KEY (day, outcome)
	)
`

// PostgresRepository implements chat.StatsRepository using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the counters table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, schema)
	return err
}

// Record increments the counter for the outcome's day.
func (r *PostgresRepository) Record(ctx context.Context, outcome chat.Outcome, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chat_outcomes (day, outcome, count)
		VALUES ($1::date, $2, 1)
		ON CONFLICT (day, outcome) DO UPDATE SET count = chat_outcomes.count + 1
	`, at.UTC().Format(dayLayout), string(outcome))
	return err
}

// Summary lists per-day outcome counts starting at since.
func (r *PostgresRepository) Summary(ctx context.Context, since time.Time) ([]chat.OutcomeCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), outcome, count
		FROM chat_outcomes
		WHERE day >= $1::date
		ORDER BY day, outcome
	`, since.UTC().Format(dayLayout))
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (chat.OutcomeCount, error) {
		var (
			count   chat.OutcomeCount
			outcome string
		)
		if err := row.Scan(&count.Day, &outcome, &count.Count); err != nil {
			return chat.OutcomeCount{}, err
		}
		count.Outcome = chat.Outcome(outcome)
		return count, nil
	})
}

var _ chat.StatsRepository = (*PostgresRepository)(nil)
