package scanner

import "github.com/opscart/k8s-hpa-scanner/pkg/models"

// CoverageIndex is the set of identity keys currently targeted by an
// autoscaler. Membership is the sole coverage test; no fuzzy matching.
type CoverageIndex map[models.IdentityKey]struct{}

// BuildCoverage builds the coverage index from discovered autoscaler
// targets. Entries without a target reference are skipped, duplicates
// collapse. Order of the input is irrelevant.
func BuildCoverage(targets []models.AutoscalerTarget) CoverageIndex {
	index := make(CoverageIndex, len(targets))
	for _, target := range targets {
		if target.TargetKind == "" || target.TargetName == "" {
			continue
		}
		index[target.Key()] = struct{}{}
	}
	return index
}

// Covers reports whether the key belongs to an autoscaled resource
func (c CoverageIndex) Covers(key models.IdentityKey) bool {
	_, ok := c[key]
	return ok
}
