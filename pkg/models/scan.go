package models

import (
	"sort"
	"time"
)

// Finding is a workload flagged as uncovered and high-priority: it has no
// autoscaler targeting it and no container resource declarations.
type Finding struct {
	Kind      WorkloadKind
	Namespace string
	Name      string
	Replicas  int32

	HasResourceDeclarations bool

	// Optional current usage, attached only when the metrics API is
	// available and usage annotation was requested.
	HasUsage    bool
	UsageCPU    int64 // millicores
	UsageMemory int64 // bytes
}

// ScanSummary holds the raw scan counts
type ScanSummary struct {
	Deployments  int
	StatefulSets int
	ReplicaSets  int
	Findings     int
}

// ScanResult is the aggregated output of one cluster scan
type ScanResult struct {
	ClusterName string
	Context     string
	StartedAt   time.Time
	FinishedAt  time.Time

	Findings []Finding

	// Namespaces holds the namespace keys of FindingsByNamespace in
	// lexicographic order; within a namespace findings keep fetch order.
	Namespaces          []string
	FindingsByNamespace map[string][]Finding

	Summary ScanSummary
}

// HasFindings reports whether the scan flagged any workload
func (r *ScanResult) HasFindings() bool {
	return len(r.Findings) > 0
}

// SetFindings stores findings and rebuilds the namespace grouping: keys
// sorted lexicographically, incoming order preserved within a namespace.
func (r *ScanResult) SetFindings(findings []Finding) {
	r.Findings = findings
	r.FindingsByNamespace = make(map[string][]Finding)
	r.Namespaces = nil
	for _, finding := range findings {
		if _, seen := r.FindingsByNamespace[finding.Namespace]; !seen {
			r.Namespaces = append(r.Namespaces, finding.Namespace)
		}
		r.FindingsByNamespace[finding.Namespace] = append(r.FindingsByNamespace[finding.Namespace], finding)
	}
	sort.Strings(r.Namespaces)
	r.Summary.Findings = len(findings)
}

// ScanRecord is the persisted form of a completed scan
type ScanRecord struct {
	ID           string
	ClusterID    string
	Context      string
	Deployments  int
	StatefulSets int
	ReplicaSets  int
	FindingCount int
	StartedAt    time.Time
	FinishedAt   time.Time
	CreatedAt    time.Time
}
