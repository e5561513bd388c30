package scanner

import (
	"strings"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// Evaluate decides whether a workload needs autoscaling most urgently.
// It returns nil for workloads in excluded namespaces, workloads already
// covered by an autoscaler, and workloads that declare container
// resources: a workload is flagged ONLY when it is both uncovered and
// resource-less. Uncovered workloads that already set requests/limits are
// deliberately not reported.
func Evaluate(workload models.WorkloadRef, coverage CoverageIndex, excludedPrefixes []string) *models.Finding {
	for _, prefix := range excludedPrefixes {
		if strings.HasPrefix(workload.Namespace, prefix) {
			return nil
		}
	}

	if coverage.Covers(workload.Key()) {
		return nil
	}

	if workload.HasResourceDeclarations {
		return nil
	}

	return &models.Finding{
		Kind:                    workload.Kind,
		Namespace:               workload.Namespace,
		Name:                    workload.Name,
		Replicas:                workload.Replicas,
		HasResourceDeclarations: workload.HasResourceDeclarations,
	}
}
