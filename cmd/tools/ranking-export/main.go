// cmd/tools/ranking-export/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"faculty-ranking-workers/internal/common/config"
	"faculty-ranking-workers/internal/common/database"
	"faculty-ranking-workers/internal/common/logger"
	"faculty-ranking-workers/internal/export"
	"faculty-ranking-workers/internal/ranking"
	"faculty-ranking-workers/internal/repository"
	"faculty-ranking-workers/internal/scoring"
)

func main() {
	out := flag.String("out", fmt.Sprintf("faculty-ranking-%s.xlsx", time.Now().Format("20060102")), "Output workbook path")
	refresh := flag.Bool("refresh", false, "Recompute the ranking table before exporting")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: config load failed: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewStructured(cfg.Logging.Level, "console", "stderr")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	path, err := run(ctx, cfg, *out, *refresh, log)
	if err != nil {
		log.Error("ranking export failed", map[string]interface{}{"error": err})
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", path)
}

func run(ctx context.Context, cfg *config.Config, out string, refresh bool, log logger.Logger) (string, error) {
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		return "", err
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return "", fmt.Errorf("postgres: %w", err)
	}

	rankings := repository.NewRankingRepository(pg.DB)
	scores := repository.NewScoreRepository(pg.DB)

	if refresh {
		updater := ranking.NewUpdater(rankings, nil, nil, ranking.Config{LockKey: cfg.Scoring.RankingLockKey}, log)
		res, err := updater.Refresh(ctx)
		if err != nil {
			return "", err
		}
		log.Info("ranking recomputed", map[string]interface{}{"ranked": res.Ranked})
	}

	ranked, err := rankings.LoadRanked(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	breakdowns, err := scores.Breakdowns(ctx, ids)
	if err != nil {
		return "", err
	}

	return export.ExportToExcel(export.Report{
		Ranked:             ranked,
		Breakdowns:         breakdowns,
		Criteria:           scoring.CriterionNames,
		ShortlistThreshold: cfg.Scoring.ShortlistThreshold,
		GeneratedAt:        time.Now(),
	}, out)
}
