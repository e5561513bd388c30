package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// Lister yields the point-in-time cluster snapshot one scan works from.
// Implementations must honor ctx cancellation on every call.
type Lister interface {
	AutoscalerTargets(ctx context.Context) ([]models.AutoscalerTarget, error)
	Deployments(ctx context.Context) ([]models.WorkloadRef, error)
	StatefulSets(ctx context.Context) ([]models.WorkloadRef, error)
	ReplicaSets(ctx context.Context) ([]models.WorkloadRef, error)
}

// Scanner orchestrates one coverage scan over a cluster snapshot
type Scanner struct {
	lister           Lister
	excludedPrefixes []string
	clusterName      string
	clusterContext   string
}

// New creates a scanner. excludedPrefixes filters whole namespaces out of
// the audit (system namespaces by default, see pkg/config).
func New(lister Lister, excludedPrefixes []string, clusterName, clusterContext string) *Scanner {
	return &Scanner{
		lister:           lister,
		excludedPrefixes: excludedPrefixes,
		clusterName:      clusterName,
		clusterContext:   clusterContext,
	}
}

// Scan fetches autoscalers and all three workload kinds, cross-references
// them, and aggregates findings grouped by namespace.
//
// The four fetches are independent read-only calls and run concurrently.
// A failed fetch contributes an empty list for its kind (and zero totals)
// but never aborts the scan; autoscaler listing failure degrades to an
// empty coverage index, so coverage fails open.
func (s *Scanner) Scan(ctx context.Context) (*models.ScanResult, error) {
	started := time.Now()

	var (
		wg           sync.WaitGroup
		targets      []models.AutoscalerTarget
		deployments  []models.WorkloadRef
		statefulSets []models.WorkloadRef
		replicaSets  []models.WorkloadRef
	)

	fetch := func(kind string, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				logrus.Warnf("Could not fetch %s: %v", kind, err)
			}
		}()
	}

	fetch("autoscalers", func() (err error) {
		targets, err = s.lister.AutoscalerTargets(ctx)
		return err
	})
	fetch("Deployments", func() (err error) {
		deployments, err = s.lister.Deployments(ctx)
		return err
	})
	fetch("StatefulSets", func() (err error) {
		statefulSets, err = s.lister.StatefulSets(ctx)
		return err
	})
	fetch("ReplicaSets", func() (err error) {
		replicaSets, err = s.lister.ReplicaSets(ctx)
		return err
	})
	wg.Wait()

	coverage := BuildCoverage(targets)

	var findings []models.Finding
	for _, workloads := range [][]models.WorkloadRef{deployments, statefulSets, replicaSets} {
		for _, workload := range workloads {
			if finding := Evaluate(workload, coverage, s.excludedPrefixes); finding != nil {
				findings = append(findings, *finding)
			}
		}
	}

	result := &models.ScanResult{
		ClusterName: s.clusterName,
		Context:     s.clusterContext,
		StartedAt:   started,
		FinishedAt:  time.Now(),
		Summary: models.ScanSummary{
			Deployments:  len(deployments),
			StatefulSets: len(statefulSets),
			ReplicaSets:  len(replicaSets),
		},
	}
	result.SetFindings(findings)

	return result, nil
}
