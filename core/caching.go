package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/huangsam/topsis/core/algo"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/schema"
)

// currentCacheVersion defines the version of the cached result encoding
const currentCacheVersion = 1

// cacheTTL bounds how long a cached ranking is served.
const cacheTTL = 7 * 24 * time.Hour

// cachedRank returns the ranking for req, serving it from store when possible.
// Failed rankings are never cached.
func cachedRank(store contract.CacheStore, req RankRequest) (schema.RankedResult, bool, error) {
	if store == nil {
		result, err := algo.Rank(req.Matrix, req.Weights, req.Impacts)
		return result, false, err
	}

	key := generateCacheKey(req)

	if result, ok := checkCacheHit(store, key); ok {
		return result, true, nil
	}

	result, err := computeAndStore(store, req, key)
	return result, false, err
}

// checkCacheHit attempts to retrieve and validate a cached result
func checkCacheHit(store contract.CacheStore, key string) (schema.RankedResult, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return schema.RankedResult{}, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || time.Since(time.Unix(ts, 0)) > cacheTTL {
		return schema.RankedResult{}, false
	}

	var result schema.RankedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return schema.RankedResult{}, false
	}
	return result, true
}

// computeAndStore computes the result and stores it in cache
func computeAndStore(store contract.CacheStore, req RankRequest, key string) (schema.RankedResult, error) {
	result, err := algo.Rank(req.Matrix, req.Weights, req.Impacts)
	if err != nil {
		return schema.RankedResult{}, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache ranking result", err)
		}
	}
	return result, nil
}

// generateCacheKey digests everything that determines a ranking.
func generateCacheKey(req RankRequest) string {
	payload := struct {
		Matrix  schema.DecisionMatrix `json:"matrix"`
		Weights schema.WeightVector   `json:"weights"`
		Impacts schema.ImpactVector   `json:"impacts"`
	}{req.Matrix, req.Weights, req.Impacts}

	// Only non-finite weights fail to encode, and those never rank successfully,
	// so nothing is ever stored under the fallback key.
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte(err.Error())
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
