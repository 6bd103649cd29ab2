// internal/ranking/updater.go
package ranking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/common/metrics"
	"faculty-ranking-workers/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
)

// VersionKey is the read-cache generation. It is bumped after every committed change so
// cached top-ranked pages from older rankings stop being served.
const VersionKey = "ranking:version"

type Store interface {
	Sync(ctx context.Context, lockKey int64, plan models.RankingPlan) (version int64, changed bool, err error)
}

type Config struct {
	LockKey int64
	Index   string
}

// Updater recomputes the global ranking from scratch. The store reads the scores, compares
// fingerprints and writes the table under one lock, so redundant and concurrent refreshes
// always converge on the latest committed scores.
type Updater struct {
	store  Store
	redis  redis.Cmdable
	es     *elasticsearch.Client
	cfg    Config
	logger logger.Logger
}

type Result struct {
	Ranked      int                   `json:"ranked"`
	Changed     bool                  `json:"changed"`
	Fingerprint string                `json:"fingerprint"`
	Version     int64                 `json:"version"`
	Entries     []models.RankingEntry `json:"-"`
}

// NewUpdater builds an Updater. rdb and es may be nil, which disables the cache
// generation bump and the index publish respectively.
func NewUpdater(store Store, rdb redis.Cmdable, es *elasticsearch.Client, cfg Config, log logger.Logger) *Updater {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Updater{
		store:  store,
		redis:  rdb,
		es:     es,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "ranking"}),
	}
}

// RefreshRanking satisfies the orchestrator's refresher contract.
func (u *Updater) RefreshRanking(ctx context.Context) error {
	_, err := u.Refresh(ctx)
	return err
}

func (u *Updater) Refresh(ctx context.Context) (*Result, error) {
	res := &Result{}
	plan := func(scored []models.RankingEntry, stored string) ([]models.RankingEntry, string, bool) {
		ranked := ComputeRanking(scored)
		res.Ranked = len(ranked)
		res.Fingerprint = Fingerprint(ranked)
		res.Entries = ranked
		return ranked, res.Fingerprint, res.Fingerprint != stored
	}

	version, changed, err := u.store.Sync(ctx, u.cfg.LockKey, plan)
	if err != nil {
		metrics.RankingRefreshes.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("sync ranking: %w", err)
	}
	res.Version = version
	res.Changed = changed

	if !changed {
		metrics.RankingRefreshes.WithLabelValues("unchanged").Inc()
		return res, nil
	}
	metrics.RankingRefreshes.WithLabelValues("updated").Inc()
	u.bumpCacheVersion(ctx)

	if err := u.publish(ctx, res.Entries, version); err != nil {
		u.logger.Warn("ranking index publish failed", map[string]interface{}{
			"index": u.cfg.Index,
			"error": err,
		})
	}

	u.logger.Info("ranking refreshed", map[string]interface{}{
		"ranked":  res.Ranked,
		"version": res.Version,
	})
	return res, nil
}

func (u *Updater) bumpCacheVersion(ctx context.Context) {
	if u.redis == nil {
		return
	}
	if err := u.redis.Incr(ctx, VersionKey).Err(); err != nil {
		u.logger.Warn("ranking cache version bump failed", map[string]interface{}{"error": err})
	}
}

type indexDoc struct {
	ApplicationID string    `json:"applicationId"`
	Rank          int       `json:"rank"`
	Score         float64   `json:"score"`
	Version       int64     `json:"version"`
	RefreshedAt   time.Time `json:"refreshedAt"`
}

// publish bulk-indexes the snapshot with external versioning, so a slower refresh holding
// an older version cannot overwrite newer documents, then removes documents left over from
// older versions.
func (u *Updater) publish(ctx context.Context, ranked []models.RankingEntry, version int64) error {
	if u.es == nil || u.cfg.Index == "" {
		return nil
	}

	now := time.Now().UTC()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, e := range ranked {
		meta := map[string]interface{}{"index": map[string]interface{}{
			"_id":          e.ApplicationID,
			"version":      version,
			"version_type": "external",
		}}
		if err := enc.Encode(meta); err != nil {
			return err
		}
		if err := enc.Encode(indexDoc{
			ApplicationID: e.ApplicationID,
			Rank:          e.Rank,
			Score:         e.Score,
			Version:       version,
			RefreshedAt:   now,
		}); err != nil {
			return err
		}
	}

	if buf.Len() > 0 {
		res, err := u.es.Bulk(&buf,
			u.es.Bulk.WithContext(ctx),
			u.es.Bulk.WithIndex(u.cfg.Index),
		)
		if err != nil {
			return fmt.Errorf("bulk index: %w", err)
		}
		defer res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("bulk index: %s", res.Status())
		}

		var body struct {
			Errors bool `json:"errors"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
			return fmt.Errorf("decode bulk response: %w", err)
		}
		if body.Errors {
			return fmt.Errorf("bulk index reported item errors")
		}
	}

	query := fmt.Sprintf(`{"query":{"range":{"version":{"lt":%d}}}}`, version)
	res, err := u.es.DeleteByQuery([]string{u.cfg.Index}, bytes.NewReader([]byte(query)),
		u.es.DeleteByQuery.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete stale ranking docs: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete stale ranking docs: %s", res.Status())
	}
	return nil
}
