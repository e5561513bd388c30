package models

import "fmt"

// WorkloadKind identifies a scalable workload type
type WorkloadKind string

const (
	KindDeployment  WorkloadKind = "Deployment"
	KindStatefulSet WorkloadKind = "StatefulSet"
	KindReplicaSet  WorkloadKind = "ReplicaSet"
)

// ScannedKinds lists the workload kinds in scan order
var ScannedKinds = []WorkloadKind{KindDeployment, KindStatefulSet, KindReplicaSet}

// IdentityKey is the join key between a workload and any autoscaler targeting it
type IdentityKey string

// NewIdentityKey builds the canonical namespace/kind/name key
func NewIdentityKey(namespace string, kind WorkloadKind, name string) IdentityKey {
	return IdentityKey(fmt.Sprintf("%s/%s/%s", namespace, kind, name))
}

// WorkloadRef is one discovered scalable workload, snapshotted at scan time
type WorkloadRef struct {
	Kind      WorkloadKind
	Namespace string
	Name      string
	Replicas  int32

	// HasResourceDeclarations is true when at least one container in the
	// pod template declares a CPU or memory request/limit.
	HasResourceDeclarations bool
}

// Key returns the workload's identity key
func (w WorkloadRef) Key() IdentityKey {
	return NewIdentityKey(w.Namespace, w.Kind, w.Name)
}

// AutoscalerTarget is the target reference of one horizontal autoscaler
type AutoscalerTarget struct {
	Namespace  string
	TargetKind string
	TargetName string
}

// Key returns the identity key of the autoscaled resource
func (t AutoscalerTarget) Key() IdentityKey {
	return NewIdentityKey(t.Namespace, WorkloadKind(t.TargetKind), t.TargetName)
}
