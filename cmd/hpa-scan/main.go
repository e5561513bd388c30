package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/opscart/k8s-hpa-scanner/pkg/cluster"
	"github.com/opscart/k8s-hpa-scanner/pkg/config"
	"github.com/opscart/k8s-hpa-scanner/pkg/metrics"
	"github.com/opscart/k8s-hpa-scanner/pkg/models"
	"github.com/opscart/k8s-hpa-scanner/pkg/reporter"
	"github.com/opscart/k8s-hpa-scanner/pkg/scanner"
	"github.com/opscart/k8s-hpa-scanner/pkg/storage"
)

var (
	// Scan flags
	clusterID      string
	showUsage      bool
	saveResults    bool
	generateReport bool
	reportOutput   string
	verbose        bool

	// Global config
	cfg   *config.Config
	store storage.Store

	// History command vars
	historyLimit int

	// Serve command vars
	serveInterval time.Duration
	serveListen   string
)

func main() {
	cfg = config.NewConfig()

	var rootCmd = &cobra.Command{
		Use:   "hpa-scan",
		Short: "Kubernetes HPA coverage scanner",
		Long:  `Scan Kubernetes clusters for Deployments, StatefulSets, and ReplicaSets that have neither an HPA nor container resource requests/limits.`,
		Run:   runScan,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().StringVar(&clusterID, "cluster-id", "", "Cluster identifier (defaults to the kubeconfig cluster name)")
	rootCmd.Flags().BoolVar(&showUsage, "show-usage", false, "Annotate findings with current pod usage from the metrics API")
	rootCmd.Flags().BoolVar(&saveResults, "save", false, "Save scan results to database")
	rootCmd.Flags().BoolVar(&generateReport, "generate-report", false, "Generate a PDF report (also enabled by GENERATE_PDF=true)")
	rootCmd.Flags().StringVar(&reportOutput, "report-output", "", "Output file for the PDF report")

	historyCmd := &cobra.Command{
		Use:   "history [scan-id]",
		Short: "View past scans, or the findings of one scan",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistory,
	}
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Number of scans to show")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run periodic scans and expose Prometheus metrics",
		Run:   runServe,
	}
	serveCmd.Flags().DurationVar(&serveInterval, "interval", 5*time.Minute, "Time between scans")
	serveCmd.Flags().StringVar(&serveListen, "listen", ":8080", "Listen address for /metrics")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() {
	if verbose || cfg.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func initStorage() error {
	var err error
	store, err = storage.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	return nil
}

func connect() *cluster.Session {
	session, err := cluster.NewSession()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to cluster: %v\n", err)
		os.Exit(1)
	}
	return session
}

func runScan(cmd *cobra.Command, args []string) {
	setup()

	if saveResults {
		if err := initStorage(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	session := connect()
	info := session.Info()

	reporter.WriteBanner(info.Context, info.Cluster, info.User, info.Version, os.Stdout)
	fmt.Println("Scanning cluster for resources without HPA...")
	fmt.Println("Looking for resources with NO resource requests/limits (priority for HPA)")

	result := scan(session)

	report := reporter.Generate(result, info.Version)
	reporter.WriteText(report, os.Stdout)

	if saveResults {
		saveScan(result)
	}

	if generateReport || cfg.GeneratePDF {
		if err := writePDF(report); err != nil {
			fmt.Fprintf(os.Stderr, "[ERROR] Failed to generate report: %v\n", err)
		}
	}

	if result.HasFindings() {
		os.Exit(1)
	}
}

func scan(session *cluster.Session) *models.ScanResult {
	info := session.Info()

	name := clusterID
	if name == "" {
		name = info.Cluster
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ScanTimeout)
	defer cancel()

	sc := scanner.New(session, cfg.ExcludedNamespacePrefixes, name, info.Context)
	result, err := sc.Scan(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning cluster: %v\n", err)
		os.Exit(1)
	}

	if showUsage {
		result.SetFindings(session.AnnotateUsage(ctx, result.Findings))
	}

	return result
}

func saveScan(result *models.ScanResult) {
	record := &models.ScanRecord{
		ClusterID:    result.ClusterName,
		Context:      result.Context,
		Deployments:  result.Summary.Deployments,
		StatefulSets: result.Summary.StatefulSets,
		ReplicaSets:  result.Summary.ReplicaSets,
		FindingCount: result.Summary.Findings,
		StartedAt:    result.StartedAt,
		FinishedAt:   result.FinishedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.SaveScan(ctx, record, result.Findings); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to save scan: %v\n", err)
		return
	}
	fmt.Printf("\nSaved scan %s (%d findings)\n", record.ID, record.FindingCount)
}

func writePDF(report *reporter.Report) error {
	if err := os.MkdirAll(cfg.ReportsDir, 0755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	outputFile := reportOutput
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		outputFile = filepath.Join(cfg.ReportsDir, fmt.Sprintf("hpa-scan-report-%s.pdf", timestamp))
	} else if !strings.Contains(outputFile, "/") {
		outputFile = filepath.Join(cfg.ReportsDir, outputFile)
	}

	if err := reporter.GeneratePDF(report, outputFile); err != nil {
		return err
	}

	fmt.Printf("\nPDF report generated: %s\n", outputFile)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) {
	setup()

	if err := initStorage(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if len(args) == 1 {
		printScanFindings(ctx, args[0])
		return
	}

	records, err := store.ListScans(ctx, historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(records) == 0 {
		fmt.Println("No scans recorded yet")
		return
	}

	fmt.Println("Recent scans:")
	fmt.Println()
	for i, record := range records {
		fmt.Printf("%d. %s (cluster: %s)\n", i+1, record.ID, record.ClusterID)
		fmt.Printf("   Workloads: %d Deployments, %d StatefulSets, %d ReplicaSets\n",
			record.Deployments, record.StatefulSets, record.ReplicaSets)
		fmt.Printf("   Findings: %d\n", record.FindingCount)
		fmt.Printf("   Ran: %s\n", record.StartedAt.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

func printScanFindings(ctx context.Context, scanID string) {
	findings, err := store.GetScanFindings(ctx, scanID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(findings) == 0 {
		fmt.Printf("No findings recorded for scan %s\n", scanID)
		return
	}

	fmt.Printf("Findings for scan %s:\n\n", scanID)
	for _, finding := range findings {
		fmt.Printf("  %s/%s/%s (replicas=%d)\n",
			finding.Namespace, finding.Kind, finding.Name, finding.Replicas)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	setup()

	session := connect()
	info := session.Info()
	logrus.Infof("Connected to cluster %s (version %s)", info.Cluster, info.Version)

	name := clusterID
	if name == "" {
		name = info.Cluster
	}
	sc := scanner.New(session, cfg.ExcludedNamespacePrefixes, name, info.Context)

	collector, registry := metrics.NewCollector()

	runOnce := func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ScanTimeout)
		defer cancel()

		result, err := sc.Scan(ctx)
		if err != nil {
			logrus.Errorf("Scan failed: %v", err)
			collector.RecordFailure()
			return
		}
		collector.RecordScan(result)
		logrus.Infof("Scan complete: %d findings across %d namespaces",
			result.Summary.Findings, len(result.Namespaces))
	}

	go func() {
		runOnce()
		ticker := time.NewTicker(serveInterval)
		defer ticker.Stop()
		for range ticker.C {
			runOnce()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	logrus.Infof("Serving metrics on %s (scan interval %s)", serveListen, serveInterval)
	if err := http.ListenAndServe(serveListen, mux); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
