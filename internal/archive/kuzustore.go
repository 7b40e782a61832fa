//go:build cgo

package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore implements Store on an embedded KuzuDB graph: each run is a Run
// node linked to its Insight and Trend nodes. It requires CGO because the
// go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	mu   sync.Mutex
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzuStore(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path, so archived runs survive restarts.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	// KuzuDB creates the leaf directory itself.
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzuStore(dbPath)
}

func openKuzuStore(path string) (*KuzuStore, error) {
	db, err := kuzu.OpenDatabase(path, kuzu.DefaultSystemConfig())
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database: %w", err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

func openKuzu(path string) (Store, error) {
	if path == "" {
		return NewKuzuStore()
	}
	return NewKuzuFileStore(path)
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements defines the Cypher DDL executed by InitSchema.
// Node tables must precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Run(
		id STRING,
		topic STRING,
		created_at INT64,
		report STRING,
		word_count INT64,
		recommendations STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Insight(
		id STRING,
		text STRING,
		position INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Trend(
		id STRING,
		text STRING,
		position INT64,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_INSIGHT(FROM Run TO Insight)`,
	`CREATE REL TABLE IF NOT EXISTS HAS_TREND(FROM Run TO Trend)`,
}

// InitSchema creates all node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// recSep joins recommendations into one column; bullet lines never contain it.
const recSep = "\n"

// SaveRun inserts the Run node and one linked node per insight and trend.
func (s *KuzuStore) SaveRun(_ context.Context, run Run) error {
	if err := validate(run); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	// A run and its children are saved together or not at all.
	if _, err := s.query("BEGIN TRANSACTION", nil); err != nil {
		return err
	}
	if err := s.saveRun(run); err != nil {
		// Kuzu may already have rolled back after the failed statement.
		_, _ = s.query("ROLLBACK", nil)
		return err
	}
	_, err := s.query("COMMIT", nil)
	return err
}

func (s *KuzuStore) saveRun(run Run) error {
	err := s.exec(
		`CREATE (r:Run {
			id: $id,
			topic: $topic,
			created_at: $created,
			report: $report,
			word_count: $words,
			recommendations: $recs
		})`,
		map[string]any{
			"id":      run.ID,
			"topic":   run.Topic,
			"created": run.CreatedAt.UnixMilli(),
			"report":  run.Report,
			"words":   int64(run.WordCount),
			"recs":    strings.Join(run.Recommendations, recSep),
		},
	)
	if err != nil {
		return err
	}
	for i, text := range run.Insights {
		if err := s.exec(
			`MATCH (r:Run {id: $run})
			 CREATE (r)-[:HAS_INSIGHT]->(:Insight {id: $id, text: $text, position: $pos})`,
			childParams(run.ID, "i", i, text),
		); err != nil {
			return err
		}
	}
	for i, text := range run.Trends {
		if err := s.exec(
			`MATCH (r:Run {id: $run})
			 CREATE (r)-[:HAS_TREND]->(:Trend {id: $id, text: $text, position: $pos})`,
			childParams(run.ID, "t", i, text),
		); err != nil {
			return err
		}
	}
	return nil
}

func childParams(runID, kind string, pos int, text string) map[string]any {
	return map[string]any{
		"run":  runID,
		"id":   fmt.Sprintf("%s/%s%d", runID, kind, pos),
		"text": text,
		"pos":  int64(pos),
	}
}

// ---------- Read operations ----------

const runColumns = "r.id, r.topic, r.created_at, r.report, r.word_count, r.recommendations"

// GetRun retrieves a run and its linked insights and trends.
func (s *KuzuStore) GetRun(_ context.Context, id string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.query(
		"MATCH (r:Run {id: $id}) RETURN "+runColumns,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	run := rowToRun(rows[0])
	if err := s.loadChildren(&run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *KuzuStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cypher := "MATCH (r:Run) RETURN " + runColumns + " ORDER BY r.created_at DESC"
	var params map[string]any
	if limit > 0 {
		cypher += " LIMIT $lim"
		params = map[string]any{"lim": int64(limit)}
	}
	return s.runs(cypher, params)
}

// FindByTopic returns runs whose topic contains query, ignoring case.
func (s *KuzuStore) FindByTopic(_ context.Context, query string) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs(
		"MATCH (r:Run) WHERE lower(r.topic) CONTAINS $q RETURN "+runColumns+" ORDER BY r.created_at DESC",
		map[string]any{"q": strings.ToLower(query)},
	)
}

// Stats returns counts of Run, Insight and Trend nodes.
func (s *KuzuStore) Stats(_ context.Context) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	runs, err := s.countTable("Run")
	if err != nil {
		return nil, err
	}
	insights, err := s.countTable("Insight")
	if err != nil {
		return nil, err
	}
	trends, err := s.countTable("Trend")
	if err != nil {
		return nil, err
	}
	return &Stats{RunCount: runs, InsightCount: insights, TrendCount: trends}, nil
}

// ---------- Internal helpers ----------

func (s *KuzuStore) runs(cypher string, params map[string]any) ([]Run, error) {
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]Run, 0, len(rows))
	for _, r := range rows {
		run := rowToRun(r)
		if err := s.loadChildren(&run); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, nil
}

func (s *KuzuStore) loadChildren(run *Run) error {
	var err error
	run.Insights, err = s.texts(
		"MATCH (r:Run {id: $id})-[:HAS_INSIGHT]->(n:Insight) RETURN n.text ORDER BY n.position",
		run.ID,
	)
	if err != nil {
		return err
	}
	run.Trends, err = s.texts(
		"MATCH (r:Run {id: $id})-[:HAS_TREND]->(n:Trend) RETURN n.text ORDER BY n.position",
		run.ID,
	)
	return err
}

func (s *KuzuStore) texts(cypher, runID string) ([]string, error) {
	rows, err := s.query(cypher, map[string]any{"id": runID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	rows, err := s.query(fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table), nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToRun converts a result row in runColumns order into a Run without
// its child lists.
func rowToRun(r []any) Run {
	recs := []string{}
	if joined := toString(r[5]); joined != "" {
		recs = strings.Split(joined, recSep)
	}
	return Run{
		ID:              toString(r[0]),
		Topic:           toString(r[1]),
		CreatedAt:       time.UnixMilli(int64(toInt(r[2]))).UTC(),
		Report:          toString(r[3]),
		WordCount:       toInt(r[4]),
		Recommendations: recs,
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
