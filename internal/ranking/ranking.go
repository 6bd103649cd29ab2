// internal/ranking/ranking.go

// Package ranking keeps application_rankings consistent with the latest composite scores.
package ranking

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"faculty-ranking-workers/internal/models"
)

// ComputeRanking orders rows by score descending, then created_at ascending, then id, and
// assigns ordinal ranks 1..N. The input slice is not modified.
func ComputeRanking(rows []models.RankingEntry) []models.RankingEntry {
	ranked := make([]models.RankingEntry, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ApplicationID < b.ApplicationID
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Fingerprint identifies a ranking by its (id, score, rank) triples.
func Fingerprint(ranked []models.RankingEntry) string {
	h := sha256.New()
	for _, e := range ranked {
		fmt.Fprintf(h, "%s|%.2f|%d\n", e.ApplicationID, e.Score, e.Rank)
	}
	return hex.EncodeToString(h.Sum(nil))
}
