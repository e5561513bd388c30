package cluster

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"k8s.io/client-go/kubernetes"
	_ "k8s.io/client-go/plugin/pkg/client/auth"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsv "k8s.io/metrics/pkg/client/clientset/versioned"
)

// Info describes the cluster a session is connected to
type Info struct {
	Context string
	Cluster string
	User    string
	Version string
}

// Session holds the API clients for one scan. It is built once at startup
// and passed explicitly; nothing here is global.
type Session struct {
	kube          kubernetes.Interface
	metricsClient metricsv.Interface
	info          Info
}

// NewSession connects to the cluster, preferring in-cluster configuration
// and falling back to the local kubeconfig. The connectivity probe is the
// only fatal failure in the whole scan path.
func NewSession() (*Session, error) {
	restConfig, info, err := loadConfig()
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	metricsClient, err := metricsv.NewForConfig(restConfig)
	if err != nil {
		// Usage annotation is optional; the scan itself only needs the
		// core clientset.
		logrus.Warnf("Could not create metrics client: %v", err)
		metricsClient = nil
	}

	session := &Session{
		kube:          clientset,
		metricsClient: metricsClient,
		info:          info,
	}

	version, err := clientset.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cluster: %w", err)
	}
	session.info.Version = version.GitVersion

	return session, nil
}

// NewSessionWithClients builds a session around existing clients
func NewSessionWithClients(kube kubernetes.Interface, metricsClient metricsv.Interface, info Info) *Session {
	return &Session{
		kube:          kube,
		metricsClient: metricsClient,
		info:          info,
	}
}

// Info returns the connected cluster's identity
func (s *Session) Info() Info {
	return s.info
}

func loadConfig() (*rest.Config, Info, error) {
	if restConfig, err := rest.InClusterConfig(); err == nil {
		logrus.Debug("Using in-cluster configuration")
		return restConfig, Info{Context: "in-cluster"}, nil
	}

	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	loader := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(rules, &clientcmd.ConfigOverrides{})

	restConfig, err := loader.ClientConfig()
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to load kubeconfig: %w", err)
	}

	info := Info{Context: "unknown"}
	if raw, err := loader.RawConfig(); err == nil && raw.CurrentContext != "" {
		info.Context = raw.CurrentContext
		if kubeContext, ok := raw.Contexts[raw.CurrentContext]; ok {
			info.Cluster = kubeContext.Cluster
			info.User = kubeContext.AuthInfo
		}
	}
	logrus.Debugf("Using kubeconfig context %q", info.Context)

	return restConfig, info, nil
}
