package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"comhere/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS cpu_models (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  model TEXT NOT NULL,
  match_kind TEXT,
  cores INTEGER,
  threads INTEGER,
  base_clock_ghz REAL,
  boost_clock_ghz REAL,
  tdp_watt INTEGER,
  graphics TEXT,
  line TEXT,
  total_score REAL,
  pure_score REAL,
  total_rank INTEGER,
  pure_rank INTEGER,
  line_total_rank INTEGER,
  line_pure_rank INTEGER,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_cpu_models_model ON cpu_models(model);

CREATE TABLE IF NOT EXISTS gpu_models (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  chipset TEXT NOT NULL,
  match_kind TEXT,
  matched_key TEXT,
  memory_gb INTEGER,
  core_clock_mhz INTEGER,
  boost_clock_mhz INTEGER,
  length_mm INTEGER,
  price REAL,
  line TEXT,
  total_score REAL,
  pure_score REAL,
  total_rank INTEGER,
  pure_rank INTEGER,
  line_total_rank INTEGER,
  line_pure_rank INTEGER,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_gpu_models_chipset ON gpu_models(chipset);

CREATE TABLE IF NOT EXISTS gpu_live_matches (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  label TEXT NOT NULL,
  normalized TEXT NOT NULL,
  match_kind TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  domain TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceMatches rewrites the domain's model table from this run's match
// results: delete everything, then insert matched rows with their reference
// attributes and unmatched labels with no attributes. Model rows are keyed by
// the canonical model key — the same key ScoredRow carries — so UpdateScores
// joins cleanly even when the key that hit the index still carried a capacity
// token. A single failed insert is logged and skipped, never fatal. Returns
// the number of rows written.
func (d *DB) ReplaceMatches(domainName string, matched []internal.MatchResult, unmatched []internal.UnmatchedLabel) (int, error) {
	if domainName == "gpu" {
		return d.replaceGPUMatches(matched, unmatched)
	}
	return d.replaceCPUMatches(matched, unmatched)
}

func (d *DB) replaceCPUMatches(matched []internal.MatchResult, unmatched []internal.UnmatchedLabel) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cpu_models`); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(`
INSERT INTO cpu_models (model, match_kind, cores, threads, base_clock_ghz, boost_clock_ghz, tdp_watt, graphics)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	written := 0
	for _, m := range matched {
		rec := m.Record
		if _, err := stmt.Exec(m.CanonicalKey, string(m.Kind), rec.Cores, rec.Threads, rec.BaseClockGHz, rec.BoostClockGHz, rec.TDPWatt, rec.Graphics); err != nil {
			log.Warn().Err(err).Str("model", m.CanonicalKey).Msg("cpu model insert failed")
			continue
		}
		written++
	}
	for _, u := range unmatched {
		if u.CanonicalKey == "" {
			continue
		}
		if _, err := stmt.Exec(u.CanonicalKey, nil, nil, nil, nil, nil, nil, nil); err != nil {
			log.Warn().Err(err).Str("model", u.CanonicalKey).Msg("unmatched cpu insert failed")
			continue
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

func (d *DB) replaceGPUMatches(matched []internal.MatchResult, unmatched []internal.UnmatchedLabel) (int, error) {
	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM gpu_models`); err != nil {
		return 0, err
	}
	if _, err := tx.Exec(`DELETE FROM gpu_live_matches`); err != nil {
		return 0, err
	}

	modelStmt, err := tx.Prepare(`
INSERT INTO gpu_models (chipset, match_kind, matched_key, memory_gb, core_clock_mhz, boost_clock_mhz, length_mm)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer modelStmt.Close()

	liveStmt, err := tx.Prepare(`INSERT INTO gpu_live_matches (label, normalized, match_kind) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer liveStmt.Close()

	written := 0
	for _, m := range matched {
		// Live-source hits carry no attribute set worth a model row; they go
		// to their own table for review.
		if m.Record.Source == internal.SourceLive {
			if _, err := liveStmt.Exec(m.Label, m.Key, string(m.Kind)); err != nil {
				log.Warn().Err(err).Str("label", m.Label).Msg("gpu live match insert failed")
				continue
			}
			written++
			continue
		}

		rec := m.Record
		if _, err := modelStmt.Exec(m.CanonicalKey, string(m.Kind), m.Key, rec.MemoryGB, rec.CoreClockMHz, rec.BoostClockMHz, rec.LengthMM); err != nil {
			log.Warn().Err(err).Str("chipset", m.CanonicalKey).Msg("gpu model insert failed")
			continue
		}
		written++
	}
	for _, u := range unmatched {
		if u.CanonicalKey == "" {
			continue
		}
		if _, err := modelStmt.Exec(u.CanonicalKey, nil, u.Key, nil, nil, nil, nil); err != nil {
			log.Warn().Err(err).Str("chipset", u.CanonicalKey).Msg("unmatched gpu insert failed")
			continue
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return written, nil
}

// UpdateScores writes tier, scores and ranks onto the model rows inserted by
// ReplaceMatches, joined on canonical model name. Rows whose key matches
// nothing (excluded or live-only models) are counted as skipped, not errors.
func (d *DB) UpdateScores(domainName string, rows []internal.ScoredRow) (int, error) {
	query := `
UPDATE cpu_models SET line = ?, total_score = ?, pure_score = ?, total_rank = ?, pure_rank = ?, line_total_rank = ?, line_pure_rank = ?
WHERE model = ?`
	if domainName == "gpu" {
		query = `
UPDATE gpu_models SET line = ?, total_score = ?, pure_score = ?, total_rank = ?, pure_rank = ?, line_total_rank = ?, line_pure_rank = ?, price = ?
WHERE chipset = ?`
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	updated := 0
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		args := []any{
			r.Tier,
			nullableScore(r.CompositeScore),
			nullableScore(r.PureScore),
			r.CompositeRank,
			r.PureRank,
			r.TierCompositeRank,
			r.TierPureRank,
		}
		if domainName == "gpu" {
			args = append(args, nullableFeature(r.Features, "price"))
		}
		args = append(args, r.Key)

		res, err := stmt.Exec(args...)
		if err != nil {
			log.Warn().Err(err).Str("model", r.Key).Msg("score update failed")
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			updated++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return updated, nil
}

func (d *DB) InsertRun(traceID, domainName string, counts map[string]int) error {
	blob, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, domain, countsJson) VALUES (?, ?, ?)`, traceID, domainName, string(blob))
	return err
}

// ModelRow is the persisted view of one model, used by callers that read the
// store back (reports, tests).
type ModelRow struct {
	Key           string
	MatchKind     *string
	Line          *string
	TotalScore    *float64
	PureScore     *float64
	TotalRank     *int
	PureRank      *int
	LineTotalRank *int
	LinePureRank  *int
}

func (d *DB) GetModel(domainName, key string) (*ModelRow, error) {
	query := `SELECT model, match_kind, line, total_score, pure_score, total_rank, pure_rank, line_total_rank, line_pure_rank FROM cpu_models WHERE model = ?`
	if domainName == "gpu" {
		query = `SELECT chipset, match_kind, line, total_score, pure_score, total_rank, pure_rank, line_total_rank, line_pure_rank FROM gpu_models WHERE chipset = ?`
	}

	row := d.conn.QueryRow(query, key)
	var m ModelRow
	if err := row.Scan(&m.Key, &m.MatchKind, &m.Line, &m.TotalScore, &m.PureScore, &m.TotalRank, &m.PureRank, &m.LineTotalRank, &m.LinePureRank); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (d *DB) CountModels(domainName string) (int, error) {
	table := "cpu_models"
	if domainName == "gpu" {
		table = "gpu_models"
	}
	var n int
	if err := d.conn.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (d *DB) CountLiveMatches() (int, error) {
	var n int
	if err := d.conn.QueryRow(`SELECT COUNT(*) FROM gpu_live_matches`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func nullableScore(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func nullableFeature(features map[string]float64, name string) any {
	v, ok := features[name]
	if !ok {
		return nil
	}
	return v
}
