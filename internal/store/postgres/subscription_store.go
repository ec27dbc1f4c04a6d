package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seekr-io/seekr/internal/domain/subscription"
	"github.com/seekr-io/seekr/internal/idgen"
	apperrors "github.com/seekr-io/seekr/pkg/errors"
)

// SubscriptionStore is the pgx-backed store.SubscriptionStore.
type SubscriptionStore struct {
	pool *pgxpool.Pool
	ids  *idgen.Generator
}

// NewSubscriptionStore constructs a SubscriptionStore. ids assigns ids to
// newly inserted subscriptions.
func NewSubscriptionStore(pool *pgxpool.Pool, ids *idgen.Generator) *SubscriptionStore {
	return &SubscriptionStore{pool: pool, ids: ids}
}

func (s *SubscriptionStore) List(ctx context.Context, clusterID *int64) ([]*subscription.Subscription, error) {
	var rows pgx.Rows
	var err error
	if clusterID == nil {
		rows, err = s.pool.Query(ctx, `
			SELECT id, cluster_id, topic_name, config, created_at, updated_at
			FROM subscriptions ORDER BY cluster_id, id`)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, cluster_id, topic_name, config, created_at, updated_at
			FROM subscriptions WHERE cluster_id = $1 ORDER BY id`, *clusterID)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "list subscriptions")
	}
	defer rows.Close()

	var out []*subscription.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "iterate subscriptions")
	}
	return out, nil
}

func (s *SubscriptionStore) Get(ctx context.Context, clusterID, id int64) (*subscription.Subscription, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, cluster_id, topic_name, config, created_at, updated_at
		FROM subscriptions WHERE cluster_id = $1 AND id = $2`, clusterID, id)
	sub, err := scanSubscription(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, subscription.NotFound(clusterID, id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "get subscription")
	}
	return sub, nil
}

func (s *SubscriptionStore) Insert(ctx context.Context, sub *subscription.Subscription) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	sub.ID = s.ids.Next()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	cfg, err := json.Marshal(sub.Config)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInternal, "marshal subscription config")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO subscriptions (id, cluster_id, topic_name, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sub.ID, sub.ClusterID, sub.TopicName, cfg, sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "insert subscription")
	}
	return sub.ID, nil
}

func (s *SubscriptionStore) Update(ctx context.Context, sub *subscription.Subscription) (int64, error) {
	if err := sub.Validate(); err != nil {
		return 0, err
	}

	sub.UpdatedAt = time.Now().UTC()
	cfg, err := json.Marshal(sub.Config)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInternal, "marshal subscription config")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE subscriptions SET topic_name = $1, config = $2, updated_at = $3
		WHERE cluster_id = $4 AND id = $5`,
		sub.TopicName, cfg, sub.UpdatedAt, sub.ClusterID, sub.ID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "update subscription")
	}
	if tag.RowsAffected() == 0 {
		return 0, subscription.NotFound(sub.ClusterID, sub.ID)
	}
	return sub.ID, nil
}

func (s *SubscriptionStore) Remove(ctx context.Context, clusterID, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM subscriptions WHERE cluster_id = $1 AND id = $2`, clusterID, id)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "remove subscription")
	}
	if tag.RowsAffected() == 0 {
		return 0, subscription.NotFound(clusterID, id)
	}
	return id, nil
}

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	var cfg []byte

	if err := row.Scan(&sub.ID, &sub.ClusterID, &sub.TopicName, &cfg, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &sub.Config); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "unmarshal subscription config")
		}
	}
	return &sub, nil
}
