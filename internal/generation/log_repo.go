package generation

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LogEntry records one AI call attempt. Rows are append-only and kept
// for analytics; nothing else references them.
type LogEntry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ProjectPublicID string    `json:"project_public_id"`
	Stage           string    `json:"stage"`
	PromptExcerpt   string    `json:"prompt_excerpt"`
	ResponseExcerpt string    `json:"response_excerpt"`
	OK              bool      `json:"ok"`
	ErrorKind       string    `json:"error_kind,omitempty"`
	TokensUsed      int       `json:"tokens_used"`
	LatencyMs       int64     `json:"latency_ms"`
	Model           string    `json:"model"`
	CreatedAt       time.Time `json:"created_at"`
}

const excerptLimit = 500

// Excerpt truncates prompt/response text to what the log keeps. The
// cut lands on a rune boundary so the excerpt stays valid UTF-8 and
// the text column accepts it.
func Excerpt(s string) string {
	if len(s) <= excerptLimit {
		return s
	}
	cut := excerptLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

type LogRepo struct {
	db *pgxpool.Pool
}

func NewLogRepo(db *pgxpool.Pool) *LogRepo {
	return &LogRepo{db: db}
}

func (r *LogRepo) Append(ctx context.Context, e LogEntry) error {
	const q = `
insert into generation_logs
  (user_id, project_public_id, stage, prompt_excerpt, response_excerpt, ok, error_kind, tokens_used, latency_ms, model)
values ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`
	_, err := r.db.Exec(ctx, q,
		e.UserID, e.ProjectPublicID, e.Stage,
		Excerpt(e.PromptExcerpt), Excerpt(e.ResponseExcerpt),
		e.OK, e.ErrorKind, e.TokensUsed, e.LatencyMs, e.Model)
	return err
}

// StageStats is one row of the admin analytics view.
type StageStats struct {
	Stage       string `json:"stage"`
	Calls       int64  `json:"calls"`
	Failures    int64  `json:"failures"`
	TotalTokens int64  `json:"total_tokens"`
	AvgLatency  int64  `json:"avg_latency_ms"`
}

func (r *LogRepo) StatsByStage(ctx context.Context) ([]StageStats, error) {
	const q = `
select stage,
       count(*),
       count(*) filter (where not ok),
       coalesce(sum(tokens_used), 0),
       coalesce(avg(latency_ms), 0)::bigint
from generation_logs
group by stage
order by stage;
`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StageStats, 0, 9)
	for rows.Next() {
		var s StageStats
		if err := rows.Scan(&s.Stage, &s.Calls, &s.Failures, &s.TotalTokens, &s.AvgLatency); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PruneOlderThan deletes log rows past the retention window. Used by
// the maintenance worker.
func (r *LogRepo) PruneOlderThan(ctx context.Context, days int) (int64, error) {
	const q = `delete from generation_logs where created_at < now() - make_interval(days => $1);`
	ct, err := r.db.Exec(ctx, q, days)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
