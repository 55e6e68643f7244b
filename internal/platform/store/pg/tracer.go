package pg

import (
	"context"
	"strings"
	"time"

	"fleetdash/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

// Tracer logs registry statements through pgx's tracing hooks
type Tracer struct {
	log  logger.Logger
	slow time.Duration
}

var _ pgx.QueryTracer = (*Tracer)(nil)

// NewTracer logs at info, or warn for statements taking slow or longer (0 never warns)
func NewTracer(log logger.Logger, slow time.Duration) *Tracer {
	return &Tracer{log: log.With().Str("component", "pg").Logger(), slow: slow}
}

type traceKey struct{}

type traced struct {
	at   time.Time
	sql  string
	args []any
}

func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traced{at: time.Now(), sql: d.SQL, args: d.Args})
}

func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	q, ok := ctx.Value(traceKey{}).(traced)
	if !ok {
		return
	}
	took := time.Since(q.at)
	ev := t.log.Info()
	if t.slow > 0 && took >= t.slow {
		ev = t.log.Warn()
	}
	ev.Str("sql", strings.Join(strings.Fields(q.sql), " ")).
		Interface("args", q.args).
		Str("tag", d.CommandTag.String()).
		Dur("took", took).
		Err(d.Err).
		Msg("pg query")
}
