package storage

import (
	"context"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// Store defines the interface for persistent scan history
type Store interface {
	SaveScan(ctx context.Context, record *models.ScanRecord, findings []models.Finding) error
	ListScans(ctx context.Context, limit int) ([]*models.ScanRecord, error)
	GetScanFindings(ctx context.Context, scanID string) ([]models.Finding, error)

	Ping(ctx context.Context) error
	Close() error
}
