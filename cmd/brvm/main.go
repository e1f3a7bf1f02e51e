package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kyac99/brvm-market-analysis/internal/collector"
	"github.com/Kyac99/brvm-market-analysis/internal/config"
	"github.com/Kyac99/brvm-market-analysis/internal/export"
	"github.com/Kyac99/brvm-market-analysis/internal/pipeline"
	"github.com/Kyac99/brvm-market-analysis/internal/publish"
	"github.com/Kyac99/brvm-market-analysis/internal/recorder"
	"github.com/Kyac99/brvm-market-analysis/internal/scheduler"
	"github.com/Kyac99/brvm-market-analysis/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		once        = flag.Bool("once", false, "run the pipeline once and exit")
		skipCollect = flag.Bool("skip-collect", false, "analyze existing data without collecting")
		cfgFlag     = flag.String("config", "", "path to config file")
	)
	flag.Parse()

	log.Println("[INFO] brvm-market-analysis starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	if *cfgFlag != "" {
		cfgPath = *cfgFlag
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetchers
	sika := collector.NewSikaFetcher(cfg.Sources.SikaBaseURL, cfg.Proxy)
	brvm := collector.NewBRVMFetcher(cfg.Sources.BRVMBaseURL, cfg.Proxy)
	var primary, secondary collector.Fetcher
	if cfg.Sources.Primary == "brvm" {
		primary, secondary = brvm, sika
	} else {
		primary, secondary = sika, brvm
	}
	log.Printf("[INFO] data sources: %s (primary), %s (secondary)", primary.Name(), secondary.Name())

	// Init store and collector
	st := store.New(cfg.Dirs.Data)
	col := collector.NewCollector(primary, secondary, st, time.Duration(cfg.Collector.DelaySeconds)*time.Second)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init publisher
	pub := publish.New(cfg.Dirs.Dashboard, cfg.Dirs.Site)
	pub.GitPush = cfg.Publish.GitPush
	pub.Remote = cfg.Publish.Remote
	pub.Branch = cfg.Publish.Branch

	// Init pipeline
	p := &pipeline.Pipeline{
		Collector: col,
		Store:     st,
		Exporters: []export.Exporter{
			export.NewExcelExporter(cfg.Dirs.Exports),
			export.NewPDFExporter(cfg.Dirs.Reports),
			export.NewDashboardExporter(cfg.Dirs.Dashboard),
		},
		Publisher:    pub,
		Recorder:     rec,
		RiskFreeRate: cfg.Analysis.RiskFreeRate,
		SkipCollect:  *skipCollect,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if *once {
		go func() {
			<-sigCh
			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
		}()
		if code := runOnce(ctx, p, rec); code != 0 {
			os.Exit(code)
		}
		return
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, p)
	if err := sched.Register(cfg.Schedule.WeeklyCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing pipeline now")
		go sched.RunNow()
	}

	log.Println("[INFO] brvm-market-analysis is running. Press Ctrl+C to stop.")

	<-sigCh
	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] brvm-market-analysis stopped")
}

// runOnce executes a single pipeline run and returns the process exit
// code. On failure the recorder is closed before returning so os.Exit
// in the caller cannot skip the sqlite checkpoint.
func runOnce(ctx context.Context, p *pipeline.Pipeline, rec recorder.Recorder) int {
	if err := p.Run(ctx); err != nil {
		log.Printf("[ERROR] pipeline: %v", err)
		if cerr := rec.Close(); cerr != nil {
			log.Printf("[WARN] close recorder: %v", cerr)
		}
		return 1
	}
	return 0
}
