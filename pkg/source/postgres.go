package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/matzehuels/topiccloud/pkg/errors"
	"github.com/matzehuels/topiccloud/pkg/topic"
)

// Postgres loads topics from a table with the columns
//
//	id text, label text, volume double precision, sentiment_score double precision,
//	positive int, neutral int, negative int
type Postgres struct {
	pool  *pgxpool.Pool
	query string
	name  string
	limit int
}

// NewPostgres opens a connection pool on cfg.URI and pings it.
// The table name is validated as an identifier before it is put into the query.
func NewPostgres(ctx context.Context, cfg Config) (*Postgres, error) {
	cfg.SetDefaults()
	if err := errors.ValidateIdentifier(cfg.Table); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URI)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse postgres uri")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping postgres")
	}

	return &Postgres{
		pool:  pool,
		query: selectTopics(cfg.Table, cfg.Limit),
		name:  KindPostgres + ":" + cfg.Table,
		limit: cfg.Limit,
	}, nil
}

// selectTopics builds the load query. table must already be validated.
func selectTopics(table string, limit int) string {
	q := fmt.Sprintf(`SELECT COALESCE(id::text, ''), label, volume, sentiment_score, positive, neutral, negative
		FROM %s
		ORDER BY volume DESC, label`, table)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	return q
}

// Load implements Source.
func (p *Postgres) Load(ctx context.Context) ([]topic.Topic, error) {
	rows, err := p.pool.Query(ctx, p.query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query %s", p.name)
	}
	defer rows.Close()

	var ts []topic.Topic
	for rows.Next() {
		var t topic.Topic
		if err := rows.Scan(
			&t.ID,
			&t.Label,
			&t.Volume,
			&t.SentimentScore,
			&t.Sentiment.Positive,
			&t.Sentiment.Neutral,
			&t.Sentiment.Negative,
		); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "scan %s", p.name)
		}
		ts = append(ts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "iterate %s", p.name)
	}
	if err := topic.ValidateAll(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Name implements Source.
func (p *Postgres) Name() string { return p.name }

// Close closes the pool.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

var _ Source = (*Postgres)(nil)
