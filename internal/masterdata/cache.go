package masterdata

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tillpoint-erp/tillpoint-erp/internal/accounting/posting"
)

// BalanceCache mirrors counterparty balances into redis for O(1) reads by the
// rest of the system. It is a pure read optimization: a miss or a stale value
// is answered from the database instead.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{client: client, ttl: ttl}
}

func balanceKey(kind posting.SubjectKind, subjectID int64) string {
	return fmt.Sprintf("counterparty:balance:%s:%d", kind, subjectID)
}

// SetBalance overwrites the cached balance.
func (c *BalanceCache) SetBalance(ctx context.Context, kind posting.SubjectKind, subjectID int64, balance float64) error {
	return c.client.Set(ctx, balanceKey(kind, subjectID), strconv.FormatFloat(balance, 'f', 2, 64), c.ttl).Err()
}

// GetBalance returns the cached balance and whether it was present.
func (c *BalanceCache) GetBalance(ctx context.Context, kind posting.SubjectKind, subjectID int64) (float64, bool, error) {
	raw, err := c.client.Get(ctx, balanceKey(kind, subjectID)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, err
	}
	balance, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("masterdata: corrupt cached balance %q: %w", raw, err)
	}
	return balance, true, nil
}
