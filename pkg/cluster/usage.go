package cluster

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/metrics/pkg/apis/metrics/v1beta1"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

// AnnotateUsage attaches current pod CPU/memory usage from the metrics API
// to each finding. Pod metrics are matched to a workload by pod name
// prefix, the same heuristic the pod names themselves encode. Any metrics
// API failure leaves findings unannotated; usage is informational only.
func (s *Session) AnnotateUsage(ctx context.Context, findings []models.Finding) []models.Finding {
	if s.metricsClient == nil || len(findings) == 0 {
		return findings
	}

	byNamespace := make(map[string][]v1beta1.PodMetrics)
	for _, finding := range findings {
		if _, fetched := byNamespace[finding.Namespace]; fetched {
			continue
		}
		list, err := s.metricsClient.MetricsV1beta1().PodMetricses(finding.Namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			logrus.Warnf("Could not fetch pod metrics for namespace %s: %v", finding.Namespace, err)
			byNamespace[finding.Namespace] = nil
			continue
		}
		byNamespace[finding.Namespace] = list.Items
	}

	annotated := make([]models.Finding, len(findings))
	for i, finding := range findings {
		annotated[i] = finding
		var cpu, memory int64
		matched := false
		for _, pod := range byNamespace[finding.Namespace] {
			if !podBelongsTo(pod.Name, finding.Name) {
				continue
			}
			matched = true
			for _, container := range pod.Containers {
				cpu += container.Usage.Cpu().MilliValue()
				memory += container.Usage.Memory().Value()
			}
		}
		if matched {
			annotated[i].HasUsage = true
			annotated[i].UsageCPU = cpu
			annotated[i].UsageMemory = memory
		}
	}
	return annotated
}

func podBelongsTo(podName, workloadName string) bool {
	return podName == workloadName || strings.HasPrefix(podName, workloadName+"-")
}
