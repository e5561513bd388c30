package reporter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

func sampleResult() *models.ScanResult {
	findings := []models.Finding{
		{Kind: models.KindDeployment, Namespace: "zeta", Name: "web", Replicas: 2},
		{Kind: models.KindDeployment, Namespace: "alpha", Name: "api", Replicas: 3},
		{Kind: models.KindStatefulSet, Namespace: "zeta", Name: "db", Replicas: 1},
	}
	return &models.ScanResult{
		ClusterName: "test-cluster",
		Context:     "test-ctx",
		Findings:    findings,
		Namespaces:  []string{"alpha", "zeta"},
		FindingsByNamespace: map[string][]models.Finding{
			"alpha": {findings[1]},
			"zeta":  {findings[0], findings[2]},
		},
		Summary: models.ScanSummary{
			Deployments:  10,
			StatefulSets: 4,
			ReplicaSets:  2,
			Findings:     3,
		},
	}
}

func TestGenerateStats(t *testing.T) {
	report := Generate(sampleResult(), "v1.31.0")

	if report.NamespaceCount != 2 {
		t.Errorf("Expected 2 namespaces, got %d", report.NamespaceCount)
	}

	if report.FindingsByKind[models.KindDeployment] != 2 {
		t.Errorf("Expected 2 Deployment findings, got %d", report.FindingsByKind[models.KindDeployment])
	}

	if report.FindingsByKind[models.KindStatefulSet] != 1 {
		t.Errorf("Expected 1 StatefulSet finding, got %d", report.FindingsByKind[models.KindStatefulSet])
	}

	if report.ServerVersion != "v1.31.0" {
		t.Errorf("Expected server version carried through, got %s", report.ServerVersion)
	}
}

func TestWriteTextGroupsNamespaces(t *testing.T) {
	var buf bytes.Buffer
	WriteText(Generate(sampleResult(), ""), &buf)
	output := buf.String()

	if !strings.Contains(output, "Found 3 resources without HPA:") {
		t.Errorf("Missing findings count, output:\n%s", output)
	}

	alphaAt := strings.Index(output, "Namespace: alpha")
	zetaAt := strings.Index(output, "Namespace: zeta")
	if alphaAt == -1 || zetaAt == -1 {
		t.Fatalf("Missing namespace headers, output:\n%s", output)
	}
	if alphaAt > zetaAt {
		t.Error("Namespace groups must render in lexicographic order")
	}

	if !strings.Contains(output, "Deployment/api (replicas=3, no resource requests)") {
		t.Errorf("Missing finding line, output:\n%s", output)
	}

	if !strings.Contains(output, "Total Deployments: 10") {
		t.Errorf("Missing summary totals, output:\n%s", output)
	}
}

func TestWriteTextCleanScan(t *testing.T) {
	result := &models.ScanResult{
		Summary: models.ScanSummary{Deployments: 5},
	}

	var buf bytes.Buffer
	WriteText(Generate(result, ""), &buf)
	output := buf.String()

	if !strings.Contains(output, "All eligible resources have HPA enabled!") {
		t.Errorf("Missing clean-scan message, output:\n%s", output)
	}

	if strings.Contains(output, "Consider enabling HPA") {
		t.Error("Advisory lines must not render on a clean scan")
	}
}

func TestWriteTextIncludesUsage(t *testing.T) {
	result := sampleResult()
	result.FindingsByNamespace["alpha"][0].HasUsage = true
	result.FindingsByNamespace["alpha"][0].UsageCPU = 400
	result.FindingsByNamespace["alpha"][0].UsageMemory = 192 * 1024 * 1024

	var buf bytes.Buffer
	WriteText(Generate(result, ""), &buf)

	if !strings.Contains(buf.String(), "cpu=400m, memory=192Mi") {
		t.Errorf("Missing usage annotation, output:\n%s", buf.String())
	}
}

func TestGeneratePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")

	if err := GeneratePDF(Generate(sampleResult(), "v1.31.0"), path); err != nil {
		t.Fatalf("GeneratePDF failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Report file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("Report file is empty")
	}
}

func TestGeneratePDFCleanScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.pdf")
	result := &models.ScanResult{Summary: models.ScanSummary{Deployments: 1}}

	if err := GeneratePDF(Generate(result, ""), path); err != nil {
		t.Fatalf("GeneratePDF failed on clean scan: %v", err)
	}
}
