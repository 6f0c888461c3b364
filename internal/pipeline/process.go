package pipeline

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"comhere/internal/catalog"
	"comhere/internal/config"
	"comhere/internal/domain"
	"comhere/internal/storage"
)

// Service runs one full batch: sheet in, matched and ranked models out.
type Service struct {
	db     *storage.DB
	client *catalog.Client
	cfg    config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, client: catalog.NewClient(cfg), cfg: cfg}
}

type RunOptions struct {
	InputPath  string
	StaticPath string
	ExportPath string
}

type RunResult struct {
	TraceID      string
	Rows         int
	Excluded     int
	Matched      int
	Unmatched    int
	Scored       int
	StaticModels int
	LiveModels   int
	Written      int
	Updated      int
	Degraded     bool
}

// Run processes one workbook snapshot start to finish. A live-catalog failure
// degrades the run to static-only matching; a persistence failure aborts only
// the persistence phase, after all matching and scoring completed.
func (s *Service) Run(ctx context.Context, d domain.Domain, opts RunOptions) (RunResult, error) {
	start := time.Now()
	result := RunResult{TraceID: traceID()}

	table, err := ParseWorkbook(opts.InputPath, d)
	if err != nil {
		return result, err
	}
	result.Rows = len(table.Rows)

	staticRecords, err := catalog.LoadStatic(opts.StaticPath, d)
	if err != nil {
		return result, err
	}

	liveRecords, err := s.client.FetchRecords(ctx, d)
	if err != nil {
		log.Warn().Err(err).Str("domain", d.Name).Msg("live catalog unavailable, matching on static source only")
		result.Degraded = true
		liveRecords = nil
	}

	staticIndex := catalog.BuildIndex(staticRecords)
	liveIndex := catalog.BuildIndex(liveRecords)
	result.StaticModels = staticIndex.Len()
	result.LiveModels = liveIndex.Len()

	tiers := ClassifyTiers(table.Rows, d)
	variants, excluded := ExtractVariants(table.Rows, d)
	result.Excluded = len(excluded)

	matched, unmatched := NewMatcher(staticIndex, liveIndex).MatchAll(variants)
	result.Matched = len(matched)
	result.Unmatched = len(unmatched)

	scored := ScoreRows(tiers, d)
	result.Scored = len(scored)

	written, err := s.db.ReplaceMatches(d.Name, matched, unmatched)
	if err != nil {
		return result, fmt.Errorf("persist matches: %w", err)
	}
	result.Written = written

	updated, err := s.db.UpdateScores(d.Name, scored)
	if err != nil {
		return result, fmt.Errorf("persist scores: %w", err)
	}
	result.Updated = updated

	if opts.ExportPath != "" {
		if err := ExportScoredRows(scored, opts.ExportPath); err != nil {
			return result, fmt.Errorf("export: %w", err)
		}
	}

	_ = s.db.InsertRun(result.TraceID, d.Name, map[string]int{
		"rows":      result.Rows,
		"excluded":  result.Excluded,
		"matched":   result.Matched,
		"unmatched": result.Unmatched,
		"scored":    result.Scored,
		"written":   result.Written,
		"updated":   result.Updated,
	})

	log.Info().
		Str("trace", result.TraceID).
		Str("domain", d.Name).
		Int("rows", result.Rows).
		Int("matched", result.Matched).
		Int("unmatched", result.Unmatched).
		Int("written", result.Written).
		Int("updated", result.Updated).
		Bool("degraded", result.Degraded).
		Dur("took", time.Since(start)).
		Msg("run complete")

	return result, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
