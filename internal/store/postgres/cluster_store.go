package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seekr-io/seekr/internal/domain/cluster"
	"github.com/seekr-io/seekr/internal/idgen"
	"github.com/seekr-io/seekr/internal/store"
	apperrors "github.com/seekr-io/seekr/pkg/errors"
)

// ClusterStore is the pgx-backed store.ClusterStore.
type ClusterStore struct {
	pool *pgxpool.Pool
	ids  *idgen.Generator
}

// NewClusterStore constructs a ClusterStore. ids assigns ids to newly
// inserted clusters.
func NewClusterStore(pool *pgxpool.Pool, ids *idgen.Generator) *ClusterStore {
	return &ClusterStore{pool: pool, ids: ids}
}

func (s *ClusterStore) List(ctx context.Context, ids []int64) ([]*cluster.Cluster, error) {
	var rows pgx.Rows
	var err error
	if len(ids) == 0 {
		rows, err = s.pool.Query(ctx, `
			SELECT id, kind, name, config, created_at, updated_at
			FROM clusters ORDER BY id LIMIT $1`, store.MaxListResults)
	} else {
		rows, err = s.pool.Query(ctx, `
			SELECT id, kind, name, config, created_at, updated_at
			FROM clusters WHERE id = ANY($1) ORDER BY id`, ids)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "list clusters")
	}
	defer rows.Close()

	var out []*cluster.Cluster
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "iterate clusters")
	}
	return out, nil
}

func (s *ClusterStore) Get(ctx context.Context, id int64) (*cluster.Cluster, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, kind, name, config, created_at, updated_at
		FROM clusters WHERE id = $1`, id)
	c, err := scanCluster(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, cluster.NotFound(id)
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDBQueryError, "get cluster")
	}
	return c, nil
}

func (s *ClusterStore) Insert(ctx context.Context, c *cluster.Cluster) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	c.ID = s.ids.Next()
	c.CreatedAt = now
	c.UpdatedAt = now

	cfg, err := json.Marshal(c.Config)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInternal, "marshal cluster config")
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO clusters (id, kind, name, config, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, string(c.Kind), c.Name, cfg, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "insert cluster")
	}
	return c.ID, nil
}

func (s *ClusterStore) Update(ctx context.Context, c *cluster.Cluster) (int64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	c.UpdatedAt = time.Now().UTC()
	cfg, err := json.Marshal(c.Config)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeInternal, "marshal cluster config")
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE clusters SET kind = $1, name = $2, config = $3, updated_at = $4
		WHERE id = $5`,
		string(c.Kind), c.Name, cfg, c.UpdatedAt, c.ID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "update cluster")
	}
	if tag.RowsAffected() == 0 {
		return 0, cluster.NotFound(c.ID)
	}
	return c.ID, nil
}

func (s *ClusterStore) Remove(ctx context.Context, id int64) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clusters WHERE id = $1`, id)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeDBQueryError, "remove cluster")
	}
	if tag.RowsAffected() == 0 {
		return 0, cluster.NotFound(id)
	}
	return id, nil
}

func scanCluster(row pgx.Row) (*cluster.Cluster, error) {
	var c cluster.Cluster
	var kind string
	var cfg []byte

	if err := row.Scan(&c.ID, &kind, &c.Name, &cfg, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Kind = cluster.Kind(kind)
	if len(cfg) > 0 {
		if err := json.Unmarshal(cfg, &c.Config); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "unmarshal cluster config")
		}
	}
	return &c, nil
}
