package services

import (
	"context"

	"github.com/anonto42/quillpost/backend/internal/cache"
	pkglog "github.com/anonto42/quillpost/backend/pkg/log"
)

// cachedCount reads through the count cache. Cache failures are logged and
// the database answer is returned regardless. The loaded count is only
// cached under the generation observed before loading, so a mutation that
// commits during the load cannot leave its old count behind.
func cachedCount(ctx context.Context, counts cache.CountCache, key string, load func() (int64, error)) (int64, error) {
	l := pkglog.Ctx(ctx)

	hit, err := counts.Get(ctx, key)
	if err != nil {
		l.Warn().Err(err).Str(pkglog.FieldCacheKey, key).Msg("count cache get failed, falling back to db")
	} else if hit.Found {
		return hit.Count, nil
	}

	count, loadErr := load()
	if loadErr != nil {
		return 0, loadErr
	}
	if err != nil {
		return count, nil
	}

	if err := counts.Set(ctx, key, count, hit.Gen); err != nil {
		l.Warn().Err(err).Str(pkglog.FieldCacheKey, key).Msg("count cache set failed")
	}
	return count, nil
}

func invalidateCounts(ctx context.Context, counts cache.CountCache, keys ...string) {
	if err := counts.Invalidate(ctx, keys...); err != nil {
		pkglog.Ctx(ctx).Warn().Err(err).Strs(pkglog.FieldCacheKey, keys).Msg("count cache invalidation failed")
	}
}
