// jobtreectl is the thin CLI wrapper named in spec.md §6: init, worker
// start, job submit, and monitor start. None of these commands carry
// decision logic of their own — they wire the already-built packages
// together against a real workflow-service endpoint.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smilemakc/jobtree"
	"github.com/smilemakc/jobtree/config"
	"github.com/smilemakc/jobtree/inputproto"
	"github.com/smilemakc/jobtree/internal/daemon"
	"github.com/smilemakc/jobtree/logging"
	"github.com/smilemakc/jobtree/submit"
	"github.com/smilemakc/jobtree/swf"
	"github.com/smilemakc/jobtree/worker"
)

const usage = `jobtreectl - job/task/action workflow CLI

USAGE:
    jobtreectl <command> [options]

COMMANDS:
    init                 Validate configuration and report readiness
    worker start         Run the decider loop and an activity worker farm
    job submit <file>    Submit a job tree described by a JSON file
    monitor start        (runs inside jobtreed; this CLI does not embed it)
    version              Show version information
    help                 Show this help message

WORKER START OPTIONS:
    -endpoint <url>       Workflow-service HTTP endpoint (default: JOBTREE_ENDPOINT or http://localhost:8080)
    -api-key <key>        Bearer token for the workflow service
    -debug-addr <addr>    Address for the embedded debug server (default: :6060, empty disables)

JOB SUBMIT OPTIONS:
    -endpoint <url>       Workflow-service HTTP endpoint
    -api-key <key>        Bearer token for the workflow service
    -protocol <name>      Input-externalization protocol (inline, base64, jq); default: none
    -priority <n>         Task priority (default: 1)
`

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit()
	case "worker":
		if len(os.Args) < 3 || os.Args[2] != "start" {
			fmt.Fprintln(os.Stderr, "Error: worker command requires subcommand 'start'")
			os.Exit(1)
		}
		runWorkerStart(os.Args[3:])
	case "job":
		if len(os.Args) < 3 || os.Args[2] != "submit" {
			fmt.Fprintln(os.Stderr, "Error: job command requires subcommand 'submit'")
			os.Exit(1)
		}
		runJobSubmit(os.Args[3:])
	case "monitor":
		fmt.Fprintln(os.Stderr, "Error: run the jobtreed binary with monitor enabled, or use cmd/jobtreed directly")
		os.Exit(1)
	case "version":
		fmt.Printf("jobtreectl v%s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n", os.Args[1])
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func runInit() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Configuration OK")
	fmt.Printf("  domain:              %s\n", cfg.Domain)
	fmt.Printf("  decision task list:  %s\n", cfg.DecisionTaskList)
	fmt.Printf("  activity task list:  %s\n", cfg.ActivityTaskList)
	fmt.Printf("  workflow child policy: %s\n", cfg.WorkflowChildPolicy)
	fmt.Println()
	fmt.Println("Domain, workflow-type, and activity-type registration are the")
	fmt.Println("responsibility of the workflow-service client implementation;")
	fmt.Println("this CLI has nothing further to register against swf.Client.")
}

func endpointFlag(fs *flag.FlagSet) *string {
	return fs.String("endpoint", getEnv("JOBTREE_ENDPOINT", "http://localhost:8080"), "workflow-service HTTP endpoint")
}

func runWorkerStart(args []string) {
	fs := flag.NewFlagSet("worker start", flag.ExitOnError)
	endpoint := endpointFlag(fs)
	apiKey := fs.String("api-key", getEnv("JOBTREE_API_KEY", ""), "bearer token for the workflow service")
	debugAddr := fs.String("debug-addr", ":6060", "embedded debug server address (empty disables)")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logging.SetDefault(logger)

	client := swf.NewHTTPClient(*endpoint, swf.HTTPClientConfig{APIKey: *apiKey})

	registry := worker.NewRegistry()
	if err := registry.Register("noop", func(_ context.Context, params map[string]any) (any, error) {
		return params, nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	farm := worker.NewFarm(client, registry, inputproto.NewRegistry())
	farm.Config = cfg.WorkerConfig()

	if *debugAddr != "" {
		go serveDebug(*debugAddr, logger)
	}

	ctx, cancel := daemon.WithSignalCancel(context.Background())
	defer cancel()

	if err := daemon.Run(ctx, daemon.Options{
		Client:           client,
		DecisionTaskList: cfg.DecisionTaskList,
		DeciderConfig:    cfg.DeciderConfig(),
		Loader:           inputproto.NewRegistry(),
		Farm:             farm,
		Logger:           logger,
	}); err != nil {
		logger.Error("worker start: daemon exited with error", "error", err)
		os.Exit(1)
	}
}

// serveDebug hosts a tiny chi-routed liveness endpoint separate from the
// full gin-based monitor, for operators who run jobtreectl standalone
// without package monitor.
func serveDebug(addr string, logger *logging.Logger) {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	logger.Info("worker start: debug server listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("worker start: debug server failed", "error", err)
	}
}

func runJobSubmit(args []string) {
	fs := flag.NewFlagSet("job submit", flag.ExitOnError)
	endpoint := endpointFlag(fs)
	apiKey := fs.String("api-key", getEnv("JOBTREE_API_KEY", ""), "bearer token for the workflow service")
	protocol := fs.String("protocol", "", "input-externalization protocol")
	priority := fs.Int("priority", 1, "task priority")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: job submit requires a path to a JSON job description")
		os.Exit(1)
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading job file: %v\n", err)
		os.Exit(1)
	}
	var job jobtree.Node
	if err := json.Unmarshal(data, &job); err != nil {
		fmt.Fprintf(os.Stderr, "Error: decoding job file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	client := swf.NewHTTPClient(*endpoint, swf.HTTPClientConfig{APIKey: *apiKey})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	workflowID, runID, err := submit.Submit(ctx, client, cfg.SubmitConfig(), inputproto.NewRegistry(), &job, *protocol, *priority)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: submit failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Job submitted")
	fmt.Printf("  workflow_id: %s\n", workflowID)
	fmt.Printf("  run_id:      %s\n", runID)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
