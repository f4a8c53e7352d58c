package source

import (
	"context"
	"fmt"
	"time"

	"github.com/Kaosethi/telesalesautomation/internal/db"
)

// RedemptionSource reports which usernames redeemed a reward inside a time
// range. Used by the redeemed-today filter rule.
type RedemptionSource interface {
	RedeemedBetween(ctx context.Context, from, to time.Time) (map[string]bool, error)
}

// PostgresRedemption queries the redemption database.
type PostgresRedemption struct {
	pool *db.Pool
}

// NewPostgresRedemption wraps an established pool.
func NewPostgresRedemption(pool *db.Pool) *PostgresRedemption {
	return &PostgresRedemption{pool: pool}
}

// RedeemedBetween returns the distinct usernames with a redemption in
// [from, to).
func (p *PostgresRedemption) RedeemedBetween(ctx context.Context, from, to time.Time) (map[string]bool, error) {
	rows, err := p.pool.Query(ctx, "redeemed_between", from, to)
	if err != nil {
		return nil, fmt.Errorf("query redemptions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		out[u] = true
	}
	return out, rows.Err()
}
