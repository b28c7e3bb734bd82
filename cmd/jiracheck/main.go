package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/be-Happy2/JiraCheckTool/internal/api"
	"github.com/be-Happy2/JiraCheckTool/internal/jira"
	"github.com/be-Happy2/JiraCheckTool/internal/model"
	"github.com/be-Happy2/JiraCheckTool/internal/notify"
	"github.com/be-Happy2/JiraCheckTool/internal/report"
	"github.com/be-Happy2/JiraCheckTool/internal/rules"
	"github.com/be-Happy2/JiraCheckTool/internal/security"
	"github.com/be-Happy2/JiraCheckTool/internal/shared"
	"github.com/be-Happy2/JiraCheckTool/internal/storage"
)

const version = "1.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	switch os.Args[1] {
	case "audit":
		auditCmd(os.Args[2:])
	case "report":
		reportCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "user-add":
		userAddCmd(os.Args[2:])
	case "version":
		fmt.Println("jiracheck", version)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `jiracheck – Jira process-compliance auditor

Usage:
  jiracheck audit    [--config ./configs/jiracheck.yaml] [--out ./reports] [--db ./jiracheck.db] [--days 7] [--dry-run]
  jiracheck report   --run <run-id> [--out ./reports] [--db ./jiracheck.db] [--config ...]
  jiracheck serve    [--addr :8480] [--db ./jiracheck.db] [--config ...]
  jiracheck user-add --username <name> [--role viewer|admin] [--db ./jiracheck.db]
                     (password read from JIRACHECK_USER_PASSWORD)
  jiracheck version
`)
}

func auditCmd(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	outDir := fs.String("out", "", "Output directory for reports")
	dbPath := fs.String("db", "", "SQLite database path")
	days := fs.Int("days", 0, "Lookback window in days (overrides config)")
	dryRun := fs.Bool("dry-run", false, "Evaluate and persist but do not notify")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	// precedence: flags > config > defaults
	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *days > 0 {
		cfg.Audit.WindowDays = *days
	}
	if cfg.Jira.ServerURL == "" || len(cfg.Projects) == 0 {
		fmt.Fprintln(os.Stderr, "audit: jira.server_url and at least one project are required")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "audit: cannot create out dir:", err)
		os.Exit(1)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}
	exemptions, err := db.ListExemptions(true)
	if err != nil {
		slog.Error("db exemptions error", "err", err)
		os.Exit(1)
	}

	client := jira.NewClient(cfg.Jira.ServerURL, cfg.Jira.Username, cfg.Jira.Password)
	adapter := jira.Adapter{
		StoryPointsField: cfg.Jira.StoryPointsField,
		ImplementerField: cfg.Jira.ImplementerField,
	}

	// One timestamp for the whole run: every delay check in every
	// project is judged against the same instant.
	now := time.Now()
	run := model.Run{
		ID:         fmt.Sprintf("run-%d", now.Unix()),
		StartedAt:  now.UTC(),
		WindowDays: cfg.Audit.WindowDays,
		QueryType:  cfg.Audit.QueryType,
		Projects:   make([]model.ProjectResult, len(cfg.Projects)),
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	sem := make(chan struct{}, max(1, cfg.Audit.MaxConcurrent))
	for i, proj := range cfg.Projects {
		wg.Add(1)
		go func(i int, proj model.Project) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pr := model.ProjectResult{Project: proj}
			issues, err := client.SearchFromDaysAgo(ctx, proj.Key, cfg.Audit.WindowDays, cfg.Audit.QueryType, now)
			if err != nil {
				// A failed fetch skips this project; the rest of the run
				// is unaffected.
				slog.Error("project fetch failed", "project", proj.Key, "err", err)
				run.Projects[i] = pr
				return
			}
			records := adapter.ToRecords(issues)
			pr.IssueCount = len(records)
			index := rules.EvaluateProject(records, now)
			pr.Violations, pr.Exempted = rules.ApplyExemptions(index, proj.Key, exemptions)
			run.Projects[i] = pr
			slog.Info("project audited",
				"project", proj.Key,
				"issues", pr.IssueCount,
				"violated_issues", len(pr.Violations),
				"exempted", pr.Exempted,
			)
		}(i, proj)
	}
	wg.Wait()

	if err := db.SaveRun(&run); err != nil {
		slog.Error("db save run error", "err", err)
		os.Exit(1)
	}

	jsonPath, _ := report.WriteJSON(run.ID, *outDir, &run)
	textPath, _ := report.WriteText(run.ID, *outDir, cfg.Notify.RobotTag, &run)

	if !*dryRun && cfg.Notify.RobotURL != "" {
		robot := notify.NewRobot(cfg.Notify.RobotURL)
		for _, pr := range run.Projects {
			if len(pr.Violations) == 0 {
				continue
			}
			msg := report.Render(pr.Project.Name, cfg.Notify.RobotTag, pr.Violations)
			if err := robot.Send(ctx, msg, pr.Project.ManagerPhone); err != nil {
				slog.Error("notify failed", "project", pr.Project.Key, "err", err)
			} else {
				slog.Info("report sent", "project", pr.Project.Key, "manager", pr.Project.Manager)
			}
		}
	}

	slog.Info("audit complete",
		"run", run.ID,
		"violations", run.TotalViolations(),
		"json", jsonPath,
		"text", textPath,
	)
	fmt.Printf("Audit OK\n  Run: %s\n  Violations: %d\n  JSON: %s\n  Text: %s\n",
		run.ID, run.TotalViolations(), jsonPath, textPath)
}

func reportCmd(args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	runID := fs.String("run", "", "Run ID")
	outDir := fs.String("out", "", "Output directory")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *outDir == "" {
		*outDir = cfg.Reporting.OutDir
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *runID == "" {
		fmt.Fprintln(os.Stderr, "report: --run is required")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	run, err := db.LoadRun(*runID)
	if err != nil {
		slog.Error("load run error", "err", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		slog.Error("cannot create out dir", "err", err)
		os.Exit(1)
	}
	jsonPath, _ := report.WriteJSON(run.ID, *outDir, &run)
	textPath, _ := report.WriteText(run.ID, *outDir, cfg.Notify.RobotTag, &run)
	fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  Text: %s\n", run.ID, jsonPath, textPath)
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	addr := fs.String("addr", "", "Listen address")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *addr == "" {
		*addr = cfg.API.Addr
	}
	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}

	srv := &api.Server{
		DB:              db,
		UserStore:       db,
		Logger:          logger,
		SessionDuration: time.Duration(cfg.API.SessionMinutes) * time.Minute,
	}
	slog.Info("api listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Routes()); err != nil {
		slog.Error("serve error", "err", err)
		os.Exit(1)
	}
}

func userAddCmd(args []string) {
	fs := flag.NewFlagSet("user-add", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config (optional)")
	username := fs.String("username", "", "Username")
	role := fs.String("role", "viewer", "Role (viewer|admin)")
	dbPath := fs.String("db", "", "SQLite database path")
	_ = fs.Parse(args)

	cfg, _ := shared.LoadConfig(*configPath)
	shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	if *dbPath == "" {
		*dbPath = cfg.Database.DSN
	}
	if *username == "" {
		fmt.Fprintln(os.Stderr, "user-add: --username is required")
		os.Exit(2)
	}
	pw := os.Getenv("JIRACHECK_USER_PASSWORD")
	hash, err := security.HashPassword(pw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "user-add: set JIRACHECK_USER_PASSWORD to a non-empty password")
		os.Exit(2)
	}

	db, err := storage.OpenSQLite(*dbPath)
	if err != nil {
		slog.Error("db open error", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		slog.Error("db schema error", "err", err)
		os.Exit(1)
	}
	id, err := db.CreateUser(*username, hash, *role)
	if err != nil {
		slog.Error("create user error", "err", err)
		os.Exit(1)
	}
	fmt.Printf("User OK\n  ID: %d\n  Username: %s\n  Role: %s\n", id, *username, *role)
}
