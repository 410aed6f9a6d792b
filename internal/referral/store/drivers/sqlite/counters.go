package sqlite

import (
	"context"
	"time"
)

type countersRepo struct {
	q querier
}

// IncrementWindow is a single upsert so that increment-and-check is atomic:
// two concurrent requests can never both read "under limit" and both take the
// last slot, because each gets a distinct post-increment count back.
func (r *countersRepo) IncrementWindow(
	ctx context.Context,
	subject, action string,
	windowStart time.Time,
) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `
		INSERT INTO rate_limit_counters (subject, action, window_start, count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (subject, action, window_start)
		DO UPDATE SET count = count + 1
		RETURNING count`,
		subject, action, windowStart.UTC()).Scan(&count)
	return count, err
}

func (r *countersRepo) PurgeWindowsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM rate_limit_counters WHERE window_start < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
