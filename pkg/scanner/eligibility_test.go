package scanner

import (
	"testing"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

var defaultExcluded = []string{"kube-", "system-"}

func TestEvaluateUncoveredResourcelessWorkload(t *testing.T) {
	workload := models.WorkloadRef{
		Kind:      models.KindDeployment,
		Namespace: "prod",
		Name:      "api",
		Replicas:  3,
	}

	finding := Evaluate(workload, CoverageIndex{}, defaultExcluded)
	if finding == nil {
		t.Fatal("Expected uncovered resource-less workload to be flagged")
	}

	if finding.Kind != models.KindDeployment || finding.Namespace != "prod" || finding.Name != "api" {
		t.Errorf("Finding lost identity fields: %+v", finding)
	}

	if finding.Replicas != 3 {
		t.Errorf("Expected replicas carried through, got %d", finding.Replicas)
	}

	if finding.HasResourceDeclarations {
		t.Error("Finding must record the missing resource declarations")
	}
}

func TestEvaluateCoveredWorkload(t *testing.T) {
	workload := models.WorkloadRef{
		Kind:      models.KindDeployment,
		Namespace: "prod",
		Name:      "api",
		Replicas:  3,
	}
	coverage := BuildCoverage([]models.AutoscalerTarget{
		{Namespace: "prod", TargetKind: "Deployment", TargetName: "api"},
	})

	if finding := Evaluate(workload, coverage, nil); finding != nil {
		t.Errorf("Covered workload must not be flagged, got %+v", finding)
	}
}

func TestEvaluateExcludedNamespace(t *testing.T) {
	cases := []string{"kube-system", "kube-public", "system-upgrade"}

	for _, namespace := range cases {
		workload := models.WorkloadRef{
			Kind:      models.KindDeployment,
			Namespace: namespace,
			Name:      "dns",
			Replicas:  2,
		}

		// Uncovered and resource-less, so only the namespace rule applies
		if finding := Evaluate(workload, CoverageIndex{}, defaultExcluded); finding != nil {
			t.Errorf("Workload in %s must be excluded, got %+v", namespace, finding)
		}
	}
}

func TestEvaluateNamespaceExclusionBeatsEverything(t *testing.T) {
	workload := models.WorkloadRef{
		Kind:                    models.KindStatefulSet,
		Namespace:               "kube-system",
		Name:                    "etcd",
		HasResourceDeclarations: true,
	}
	coverage := BuildCoverage([]models.AutoscalerTarget{
		{Namespace: "kube-system", TargetKind: "StatefulSet", TargetName: "etcd"},
	})

	if finding := Evaluate(workload, coverage, defaultExcluded); finding != nil {
		t.Errorf("Excluded namespace must short-circuit regardless of other state, got %+v", finding)
	}
}

func TestEvaluateNarrowingRule(t *testing.T) {
	// Uncovered but with resource declarations: deliberately not reported,
	// resource-less workloads are the priority for autoscaling enablement.
	workload := models.WorkloadRef{
		Kind:                    models.KindDeployment,
		Namespace:               "prod",
		Name:                    "api",
		Replicas:                5,
		HasResourceDeclarations: true,
	}

	if finding := Evaluate(workload, CoverageIndex{}, defaultExcluded); finding != nil {
		t.Errorf("Uncovered-but-declared workload must not be flagged, got %+v", finding)
	}
}

func TestEvaluateAllKinds(t *testing.T) {
	for _, kind := range models.ScannedKinds {
		workload := models.WorkloadRef{
			Kind:      kind,
			Namespace: "apps",
			Name:      "worker",
			Replicas:  1,
		}

		finding := Evaluate(workload, CoverageIndex{}, defaultExcluded)
		if finding == nil {
			t.Errorf("Expected %s flagged", kind)
			continue
		}
		if finding.Kind != kind {
			t.Errorf("Expected kind %s, got %s", kind, finding.Kind)
		}
	}
}

func TestEvaluateNoExcludedPrefixes(t *testing.T) {
	workload := models.WorkloadRef{
		Kind:      models.KindReplicaSet,
		Namespace: "kube-system",
		Name:      "legacy",
		Replicas:  1,
	}

	// With no exclusion list even system namespaces are audited
	if finding := Evaluate(workload, CoverageIndex{}, nil); finding == nil {
		t.Error("Expected finding when exclusion list is empty")
	}
}
