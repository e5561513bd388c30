package cluster

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/opscart/k8s-hpa-scanner/pkg/models"
)

const defaultNamespace = "default"

// AutoscalerTargets lists every AutoscalingV2 horizontal autoscaler across
// all namespaces and returns its target reference. Autoscalers without a
// target reference are skipped.
func (s *Session) AutoscalerTargets(ctx context.Context) ([]models.AutoscalerTarget, error) {
	list, err := s.kube.AutoscalingV2().HorizontalPodAutoscalers(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list horizontal pod autoscalers: %w", err)
	}

	targets := make([]models.AutoscalerTarget, 0, len(list.Items))
	for _, hpa := range list.Items {
		ref := hpa.Spec.ScaleTargetRef
		if ref.Kind == "" || ref.Name == "" {
			continue
		}
		targets = append(targets, models.AutoscalerTarget{
			Namespace:  namespaceOrDefault(hpa.Namespace),
			TargetKind: ref.Kind,
			TargetName: ref.Name,
		})
	}
	return targets, nil
}

// Deployments lists all Deployments across all namespaces
func (s *Session) Deployments(ctx context.Context) ([]models.WorkloadRef, error) {
	list, err := s.kube.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments: %w", err)
	}

	refs := make([]models.WorkloadRef, 0, len(list.Items))
	for _, item := range list.Items {
		refs = append(refs, workloadRef(models.KindDeployment, item.Namespace, item.Name, item.Spec.Replicas, item.Spec.Template))
	}
	return refs, nil
}

// StatefulSets lists all StatefulSets across all namespaces
func (s *Session) StatefulSets(ctx context.Context) ([]models.WorkloadRef, error) {
	list, err := s.kube.AppsV1().StatefulSets(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list statefulsets: %w", err)
	}

	refs := make([]models.WorkloadRef, 0, len(list.Items))
	for _, item := range list.Items {
		refs = append(refs, workloadRef(models.KindStatefulSet, item.Namespace, item.Name, item.Spec.Replicas, item.Spec.Template))
	}
	return refs, nil
}

// ReplicaSets lists all ReplicaSets across all namespaces
func (s *Session) ReplicaSets(ctx context.Context) ([]models.WorkloadRef, error) {
	list, err := s.kube.AppsV1().ReplicaSets(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list replicasets: %w", err)
	}

	refs := make([]models.WorkloadRef, 0, len(list.Items))
	for _, item := range list.Items {
		refs = append(refs, workloadRef(models.KindReplicaSet, item.Namespace, item.Name, item.Spec.Replicas, item.Spec.Template))
	}
	return refs, nil
}

// workloadRef converts one API object to the scan model, applying the
// defaulting rules once at this boundary: empty namespace becomes
// "default", unset replicas becomes 1, and resource declarations are an OR
// across the template's containers.
func workloadRef(kind models.WorkloadKind, namespace, name string, replicas *int32, template corev1.PodTemplateSpec) models.WorkloadRef {
	count := int32(1)
	if replicas != nil {
		count = *replicas
	}

	return models.WorkloadRef{
		Kind:                    kind,
		Namespace:               namespaceOrDefault(namespace),
		Name:                    name,
		Replicas:                count,
		HasResourceDeclarations: hasResourceDeclarations(template),
	}
}

func hasResourceDeclarations(template corev1.PodTemplateSpec) bool {
	for _, container := range template.Spec.Containers {
		if len(container.Resources.Requests) > 0 || len(container.Resources.Limits) > 0 {
			return true
		}
	}
	return false
}

func namespaceOrDefault(namespace string) string {
	if namespace == "" {
		return defaultNamespace
	}
	return namespace
}
