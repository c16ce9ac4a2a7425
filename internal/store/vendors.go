// internal/store/vendors.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"matching-engine/internal/common/logger"
	"matching-engine/internal/models"
)

const candidatePoolCacheKey = "matching:candidates"

// eligibleVendorsQuery enforces the directory-level eligibility rules: only
// approved, verified vendor accounts are candidates. ORDER BY id fixes the
// candidate-load order the ranker uses as tie-break.
const eligibleVendorsQuery = `
	SELECT v.id, v.display_name, v.categories, COALESCE(v.location, ''),
	       COALESCE(v.rating, 3.5), v.role, v.account_status, v.verification_status,
	       v.completed_projects,
	       m.total_earnings, m.completed_orders, m.completion_rate, m.avg_response_hours
	FROM vendors v
	LEFT JOIN vendor_metrics m ON m.vendor_id = v.id
	WHERE v.role = 'vendor'
	  AND v.account_status = 'approved'
	  AND v.verification_status = 'approved'
	ORDER BY v.id`

// VendorStore reads candidate snapshots from the vendor directory. The pool
// is cached briefly in Redis; the pool changes slowly relative to how often
// requests are published.
type VendorStore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

func NewVendorStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, log logger.Logger) *VendorStore {
	return &VendorStore{
		db:       db,
		redis:    rdb,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "vendor-store"}),
	}
}

// LoadEligible returns the full eligible candidate pool. A directory read
// failure is fatal for the run; cache failures are not.
func (s *VendorStore) LoadEligible(ctx context.Context) ([]models.Candidate, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	rows, err := s.db.QueryContext(ctx, eligibleVendorsQuery)
	if err != nil {
		return nil, fmt.Errorf("query eligible vendors: %w", err)
	}
	defer rows.Close()

	var candidates []models.Candidate
	for rows.Next() {
		var (
			c          models.Candidate
			categories []byte
			earnings   sql.NullFloat64
			orders     sql.NullInt64
			completion sql.NullFloat64
			response   sql.NullFloat64
		)
		if err := rows.Scan(
			&c.ID, &c.DisplayName, &categories, &c.Location,
			&c.Rating, &c.Role, &c.AccountStatus, &c.VerificationStatus,
			&c.CompletedProjects,
			&earnings, &orders, &completion, &response,
		); err != nil {
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}

		if err := json.Unmarshal(categories, &c.Categories); err != nil {
			c.Categories = []string{}
		}
		if earnings.Valid {
			c.Metrics = &models.PerformanceMetrics{
				TotalEarnings:    earnings.Float64,
				CompletedOrders:  int(orders.Int64),
				CompletionRate:   completion.Float64,
				AvgResponseHours: response.Float64,
			}
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vendor rows: %w", err)
	}

	s.toCache(ctx, candidates)
	return candidates, nil
}

func (s *VendorStore) fromCache(ctx context.Context) []models.Candidate {
	if s.redis == nil {
		return nil
	}
	val, err := s.redis.Get(ctx, candidatePoolCacheKey).Result()
	if err != nil {
		return nil
	}
	var candidates []models.Candidate
	if err := json.Unmarshal([]byte(val), &candidates); err != nil {
		return nil
	}
	s.logger.Debug("candidate pool served from cache", map[string]interface{}{
		"count": len(candidates),
	})
	return candidates
}

func (s *VendorStore) toCache(ctx context.Context, candidates []models.Candidate) {
	if s.redis == nil || len(candidates) == 0 {
		return
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, candidatePoolCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("candidate pool cache write failed", map[string]interface{}{
			"error": err,
		})
	}
}
