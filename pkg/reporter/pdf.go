package reporter

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// GeneratePDF writes a paginated report: summary table, one findings table
// per namespace, and the generic recommendations
func GeneratePDF(report *Report, path string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Kubernetes HPA Scanner Report", false)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 128)
	pdf.CellFormat(0, 12, "Kubernetes HPA Scanner Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Report info
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Cluster: %s", orUnknown(report.ClusterName)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Context: %s", orUnknown(report.Context)), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	writeSummaryTable(pdf, report)

	if report.Result.HasFindings() {
		writeFindingsTables(pdf, report)
	} else {
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, "All eligible resources have HPA enabled!", "", 1, "L", false, 0, "")
	}

	writeRecommendations(pdf)

	return pdf.OutputFileAndClose(path)
}

func writeSummaryTable(pdf *fpdf.Fpdf, report *Report) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Summary", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	rows := [][2]string{
		{"Total Deployments", fmt.Sprintf("%d", report.Result.Summary.Deployments)},
		{"Total StatefulSets", fmt.Sprintf("%d", report.Result.Summary.StatefulSets)},
		{"Total ReplicaSets", fmt.Sprintf("%d", report.Result.Summary.ReplicaSets)},
		{"Resources without HPA", fmt.Sprintf("%d", report.Result.Summary.Findings)},
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(76, 8, "Metric", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 8, "Count", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.CellFormat(76, 7, row[0], "1", 0, "C", true, 0, "")
		pdf.CellFormat(38, 7, row[1], "1", 1, "C", true, 0, "")
	}
	pdf.Ln(6)
}

func writeFindingsTables(pdf *fpdf.Fpdf, report *Report) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Resources Without HPA", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	for _, namespace := range report.Result.Namespaces {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, fmt.Sprintf("Namespace: %s", namespace), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(173, 216, 230)
		pdf.CellFormat(30, 7, "Resource Type", "1", 0, "C", true, 0, "")
		pdf.CellFormat(80, 7, "Name", "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 7, "Replicas", "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 7, "Requests", "1", 1, "C", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, finding := range report.Result.FindingsByNamespace[namespace] {
			pdf.CellFormat(30, 6, string(finding.Kind), "1", 0, "C", false, 0, "")
			pdf.CellFormat(80, 6, finding.Name, "1", 0, "C", false, 0, "")
			pdf.CellFormat(20, 6, fmt.Sprintf("%d", finding.Replicas), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, requestsLabel(finding), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(4)
	}
}

func writeRecommendations(pdf *fpdf.Fpdf) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Recommendations", "", 1, "L", false, 0, "")
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 10)
	for _, rec := range Recommendations {
		pdf.MultiCell(0, 6, "- "+rec, "", "L", false)
		pdf.Ln(1)
	}
}

func requestsLabel(finding models.Finding) string {
	if finding.HasResourceDeclarations {
		return "Yes"
	}
	return "No"
}
