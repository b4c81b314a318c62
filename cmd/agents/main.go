package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/contail/strands-agents-starter/agent"
	"github.com/contail/strands-agents-starter/cache"
	"github.com/contail/strands-agents-starter/config"
	"github.com/contail/strands-agents-starter/executor"
	"github.com/contail/strands-agents-starter/history"
	"github.com/contail/strands-agents-starter/ollama"
	"github.com/contail/strands-agents-starter/provider"
	"github.com/contail/strands-agents-starter/session"
	"github.com/contail/strands-agents-starter/tracing"
	"github.com/contail/strands-agents-starter/workflows"
)

const usage = `Usage: agents <command> [flags]

Commands:
  models    list available models from the LLM endpoint
  tick      run a single agent step with session context
  workflow  run the brief -> critique -> finalize pipeline over a topic
  research  run the researcher -> analyst -> writer workflow over a query
  route     route a query through the teacher assistant
  history   list recorded workflow runs
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := context.Background()

	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer a.close(ctx)

	cmd, args := os.Args[1], os.Args[2:]

	switch cmd {
	case "models":
		err = a.models(ctx, args)
	case "tick":
		err = a.tick(ctx, args)
	case "workflow":
		err = a.workflow(ctx, args)
	case "research":
		err = a.research(ctx, args)
	case "route":
		err = a.route(ctx, args)
	case "history":
		err = a.history(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		a.close(ctx)
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger

	tp       trace.TracerProvider
	shutdown func(context.Context) error

	respCache cache.Cache
	client    *ollama.Client
	runner    *provider.Provider
	store     *history.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tp, shutdown, err := tracing.Setup(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var respCache cache.Cache
	switch cfg.Cache {
	case config.CacheMemory:
		respCache = cache.NewMemory(256, 10*time.Minute)
	case config.CacheRedis:
		rdb := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{cfg.RedisAddr},
		})
		respCache = cache.NewRedis(rdb, 10*time.Minute)
	}

	opts := []ollama.Option{
		ollama.WithLogger(logger),
		ollama.WithTracerProvider(tp),
	}
	if respCache != nil {
		opts = append(opts, ollama.WithResponseCache(respCache))
	}
	client := ollama.New(cfg, opts...)

	// No agent SDK is wired into the starter kit; the provider logs the
	// fallback decision when delegated mode is requested anyway.
	runner := provider.New(cfg, client, nil, logger)

	var store *history.Store
	if cfg.HistoryPath != "" {
		store, err = history.NewSqliteStore(cfg.HistoryPath)
		if err != nil {
			return nil, err
		}
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		tp:        tp,
		shutdown:  shutdown,
		respCache: respCache,
		client:    client,
		runner:    runner,
		store:     store,
	}, nil
}

func (a *app) close(ctx context.Context) {
	if a.store != nil {
		a.store.Close()
	}
	a.client.Close()
	if a.respCache != nil {
		a.respCache.Close()
	}
	if a.shutdown != nil {
		a.shutdown(ctx)
	}
}

func (a *app) executorOptions() []executor.Option {
	return []executor.Option{
		executor.WithLogger(a.logger),
		executor.WithTracerProvider(a.tp),
	}
}

func (a *app) recordRun(ctx context.Context, status *executor.RunStatus, runErr error) {
	if a.store == nil || status == nil {
		return
	}

	if err := a.store.RecordRun(ctx, status, runErr); err != nil {
		a.logger.Warn("recording run history", "error", err)
	}
}

func (a *app) models(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("models", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	tags, err := a.client.ListModels(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(tags, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func (a *app) tick(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tick", flag.ExitOnError)
	name := fs.String("name", "session", "session name")
	question := fs.String("question", "", "user prompt; a session summary request when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	state := session.New(*name)

	content := *question
	if content == "" {
		content = fmt.Sprintf("Summarize the session context: %s", state.Snapshot())
	}

	svc := agent.NewService(a.runner)
	answer, err := svc.Run(ctx, []agent.Message{
		agent.System("You are a helpful assistant."),
		agent.User(content),
	})
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func (a *app) workflow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("workflow", flag.ExitOnError)
	topic := fs.String("topic", "modern manufacturing sustainability", "workflow topic")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wf := workflows.NewPipeline(a.runner, a.executorOptions()...)

	out, status, err := wf.Run(ctx, *topic)
	a.recordRun(ctx, status, err)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func (a *app) research(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("research", flag.ExitOnError)
	query := fs.String("query", "", "research query or factual claim")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return fmt.Errorf("-query is required")
	}

	wf := workflows.NewResearch(a.runner, a.executorOptions()...)

	report, status, err := wf.Run(ctx, *query)
	a.recordRun(ctx, status, err)
	if err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}

func (a *app) route(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	query := fs.String("query", "", "query to route")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *query == "" {
		return fmt.Errorf("-query is required")
	}

	router := workflows.NewRouter(a.runner, a.logger)

	response, err := router.Process(ctx, *query)
	if err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}

func (a *app) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 10, "number of runs to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if a.store == nil {
		return fmt.Errorf("history is disabled, set AGENTS_HISTORY_PATH")
	}

	runs, err := a.store.ListRuns(ctx, *limit)
	if err != nil {
		return err
	}

	for _, r := range runs {
		line := fmt.Sprintf("%s  %s  %d/%d completed", r.ID, r.StartedAt.Format(time.RFC3339), r.Completed, r.Total)
		if r.Error != "" {
			line += "  error: " + r.Error
		}
		fmt.Println(line)
	}

	return nil
}
