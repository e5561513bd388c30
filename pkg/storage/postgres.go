package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

//go:embed migrations/*.sql
var postgresFS embed.FS

// PostgresStore implements Store interface using PostgreSQL
type PostgresStore struct {
	db  *sql.DB
	dsn string
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{
		db:  db,
		dsn: dsn,
	}

	// Run migrations
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// migrate runs database migrations
func (s *PostgresStore) migrate() error {
	schema, err := postgresFS.ReadFile("migrations/001_postgres_schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// SaveScan persists a scan record and its findings in one transaction
func (s *PostgresStore) SaveScan(ctx context.Context, record *models.ScanRecord, findings []models.Finding) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	scanQuery := `
		INSERT INTO scans (
			id, cluster_id, context,
			deployments_total, statefulsets_total, replicasets_total,
			finding_count, started_at, finished_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, scanQuery,
		record.ID, record.ClusterID, record.Context,
		record.Deployments, record.StatefulSets, record.ReplicaSets,
		record.FindingCount, record.StartedAt, record.FinishedAt, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert scan: %w", err)
	}

	findingQuery := `
		INSERT INTO scan_findings (
			id, scan_id, kind, namespace, name, replicas, has_resource_declarations
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for _, finding := range findings {
		_, err = tx.ExecContext(ctx, findingQuery,
			uuid.New().String(), record.ID,
			string(finding.Kind), finding.Namespace, finding.Name,
			finding.Replicas, finding.HasResourceDeclarations,
		)
		if err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// ListScans returns the most recent scans
func (s *PostgresStore) ListScans(ctx context.Context, limit int) ([]*models.ScanRecord, error) {
	query := `
		SELECT id, cluster_id, context,
			deployments_total, statefulsets_total, replicasets_total,
			finding_count, started_at, finished_at, created_at
		FROM scans
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var records []*models.ScanRecord
	for rows.Next() {
		var record models.ScanRecord
		err := rows.Scan(
			&record.ID, &record.ClusterID, &record.Context,
			&record.Deployments, &record.StatefulSets, &record.ReplicaSets,
			&record.FindingCount, &record.StartedAt, &record.FinishedAt, &record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		records = append(records, &record)
	}

	return records, rows.Err()
}

// GetScanFindings returns the findings persisted for one scan
func (s *PostgresStore) GetScanFindings(ctx context.Context, scanID string) ([]models.Finding, error) {
	query := `
		SELECT kind, namespace, name, replicas, has_resource_declarations
		FROM scan_findings
		WHERE scan_id = $1
		ORDER BY namespace, name
	`

	rows, err := s.db.QueryContext(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	var findings []models.Finding
	for rows.Next() {
		var finding models.Finding
		var kind string
		err := rows.Scan(&kind, &finding.Namespace, &finding.Name,
			&finding.Replicas, &finding.HasResourceDeclarations)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		finding.Kind = models.WorkloadKind(kind)
		findings = append(findings, finding)
	}

	return findings, rows.Err()
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
