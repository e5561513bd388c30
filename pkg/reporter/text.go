package reporter

import (
	"fmt"
	"io"
	"strings"
)

const divider = "============================================================"

// WriteText renders the report as console output
func WriteText(report *Report, w io.Writer) {
	result := report.Result

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "RESOURCES WITHOUT HPA ENABLED")
	fmt.Fprintln(w, divider)

	if !result.HasFindings() {
		fmt.Fprintln(w, "All eligible resources have HPA enabled!")
	} else {
		fmt.Fprintf(w, "Found %d resources without HPA:\n\n", len(result.Findings))

		for _, namespace := range result.Namespaces {
			fmt.Fprintf(w, "Namespace: %s\n", namespace)
			for _, finding := range result.FindingsByNamespace[namespace] {
				details := []string{
					fmt.Sprintf("replicas=%d", finding.Replicas),
					"no resource requests",
				}
				if finding.HasUsage {
					details = append(details, fmt.Sprintf("cpu=%dm", finding.UsageCPU),
						fmt.Sprintf("memory=%dMi", finding.UsageMemory/(1024*1024)))
				}
				fmt.Fprintf(w, "  - %s/%s (%s)\n", finding.Kind, finding.Name, strings.Join(details, ", "))
			}
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "SUMMARY")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Total Deployments: %d\n", result.Summary.Deployments)
	fmt.Fprintf(w, "Total StatefulSets: %d\n", result.Summary.StatefulSets)
	fmt.Fprintf(w, "Total ReplicaSets: %d\n", result.Summary.ReplicaSets)
	fmt.Fprintf(w, "Resources without HPA: %d\n", result.Summary.Findings)

	if result.HasFindings() {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Consider enabling HPA for the resources listed above.")
		fmt.Fprintln(w, "Priority: resources without resource requests/limits need HPA most urgently.")
	}
}

// WriteBanner renders the scan header with cluster identity
func WriteBanner(kubeContext, cluster, user, version string, w io.Writer) {
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "KUBERNETES HPA SCANNER")
	fmt.Fprintln(w, divider)
	fmt.Fprintf(w, "Context: %s\n", orUnknown(kubeContext))
	fmt.Fprintf(w, "Cluster: %s\n", orUnknown(cluster))
	fmt.Fprintf(w, "User: %s\n", orUnknown(user))
	fmt.Fprintf(w, "Version: %s\n", orUnknown(version))
	fmt.Fprintln(w, divider)
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
