package reporter

import (
	"time"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// Report contains all data for rendering scan output
type Report struct {
	ClusterName   string
	Context       string
	ServerVersion string
	GeneratedAt   time.Time

	Result *models.ScanResult

	NamespaceCount int
	FindingsByKind map[models.WorkloadKind]int
}

// Recommendations are the generic advisory items appended to every report
var Recommendations = []string{
	"Enable HPA for resources with multiple replicas to handle traffic spikes",
	"Set resource requests/limits for resources without them to enable proper scaling",
	"Monitor CPU and memory usage to set appropriate HPA thresholds",
	"Consider using custom metrics for more sophisticated scaling decisions",
	"Test HPA behavior in staging environments before production deployment",
}

// Generate assembles a report from a scan result
func Generate(result *models.ScanResult, serverVersion string) *Report {
	report := &Report{
		ClusterName:    result.ClusterName,
		Context:        result.Context,
		ServerVersion:  serverVersion,
		GeneratedAt:    time.Now(),
		Result:         result,
		NamespaceCount: len(result.Namespaces),
		FindingsByKind: make(map[models.WorkloadKind]int),
	}

	for _, finding := range result.Findings {
		report.FindingsByKind[finding.Kind]++
	}

	return report
}
