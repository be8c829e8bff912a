package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/pressure-map/internal/api"
	"github.com/banshee-data/pressure-map/internal/batch"
	"github.com/banshee-data/pressure-map/internal/config"
	"github.com/banshee-data/pressure-map/internal/db"
	"github.com/banshee-data/pressure-map/internal/fsutil"
	"github.com/banshee-data/pressure-map/internal/timeutil"
	"github.com/banshee-data/pressure-map/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "run":
		handleRun(args)
	case "serve":
		handleServe(args)
	case "migrate":
		handleMigrate(args)
	case "version":
		fmt.Println(version.Get())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`pressure-map - tactile sensor pressure maps from paired trial recordings

Usage: pressure-map <command> [options]

Commands:
  run        Process every paired trial and write the report
  serve      Browse recorded runs over HTTP
  migrate    Manage the results database schema (up, down, status, force)
  version    Show version
  help       Show this help message

Run flags:
  --config <file>        JSON run configuration
  --target-press <v>     Pressure the cuff must fall to after its peak (default 50)
  --average-size <n>     Odd smoothing window (default 3)
  --noise-threshold <v>  Largest stable step between samples (default 1.0)
  --pressure-dir <dir>   Reference pressure files (default EG1データ)
  --sensor-dir <dir>     Sensor grid files (default 面圧データ)
  --extension <ext>      Trial file extension (default csv)
  --output-dir <dir>     Where output.xlsx, report.html and png/ go (default .)
  --workers <n>          Trials processed in parallel (default 1)
  --strict-peak          Fail a trial that has no stable peak
  --no-png               Skip the per-sheet PNG heatmaps
  --db <file>            Record the run in this sqlite database

Examples:
  pressure-map run --target-press 40 --average-size 5
  pressure-map run --config run.json --db runs.db
  pressure-map serve --db runs.db --listen :8080
  pressure-map migrate --db runs.db status`)
}

func handleRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "JSON run configuration file")
	targetPress := fs.Float64("target-press", 50, "Target pressure for the post-peak crossing")
	averageSize := fs.Int("average-size", 3, "Odd smoothing window size")
	noise := fs.Float64("noise-threshold", 1.0, "Largest step between neighbouring samples treated as stable")
	pressureDir := fs.String("pressure-dir", "EG1データ", "Directory of reference pressure files")
	sensorDir := fs.String("sensor-dir", "面圧データ", "Directory of sensor grid files")
	extension := fs.String("extension", "csv", "Trial file extension")
	outputDir := fs.String("output-dir", ".", "Output directory")
	workers := fs.Int("workers", 1, "Trials processed in parallel")
	strictPeak := fs.Bool("strict-peak", false, "Fail trials without a stable peak")
	noPNG := fs.Bool("no-png", false, "Skip per-sheet PNG heatmaps")
	dbPath := fs.String("db", "", "sqlite database to record the run in")
	fs.Parse(args)

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		fileCfg, err := config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg.Merge(fileCfg)
	}

	// flags given explicitly override the file
	overrides := config.EmptyRunConfig()
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target-press":
			overrides.TargetPress = targetPress
		case "average-size":
			overrides.AverageSize = averageSize
		case "noise-threshold":
			overrides.NoiseThreshold = noise
		case "pressure-dir":
			overrides.PressureDir = pressureDir
		case "sensor-dir":
			overrides.SensorDir = sensorDir
		case "extension":
			overrides.Extension = extension
		case "output-dir":
			overrides.OutputDir = outputDir
		case "workers":
			overrides.Workers = workers
		case "strict-peak":
			overrides.StrictPeak = strictPeak
		case "db":
			overrides.DBPath = dbPath
		}
	})
	cfg.Merge(overrides)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := batch.Deps{
		FS:      fsutil.OSFileSystem{},
		Clock:   timeutil.RealClock{},
		SkipPNG: *noPNG,
	}
	if p := cfg.GetDBPath(); p != "" {
		store, err := db.NewDB(p)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer store.Close()
		deps.Store = store
	}

	sum, err := batch.Run(ctx, cfg, deps)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	log.Printf("processed %d trials in %s", len(sum.Files), sum.Finished.Sub(sum.Started))
	for _, p := range sum.Written {
		log.Printf("wrote %s", p)
	}
	if sum.RunID != "" {
		log.Printf("run id %s", sum.RunID)
	}
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	dbPath := fs.String("db", "pressure-map.db", "sqlite database of recorded runs")
	listen := fs.String("listen", ":8080", "Listen address")
	fs.Parse(args)

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	mux := api.NewServer(store).ServeMux()
	if err := store.AttachAdminRoutes(mux); err != nil {
		log.Fatalf("Failed to attach admin routes: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("%s", version.Get())
	var handler http.Handler = api.LoggingMiddleware(mux)
	if err := api.Start(ctx, *listen, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Printf("Graceful shutdown complete")
}

func handleMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dbPath := fs.String("db", "pressure-map.db", "sqlite database of recorded runs")
	fs.Usage = func() { db.PrintMigrateHelp(os.Stderr) }
	fs.Parse(args)

	// open without migrating; the action decides what happens to the schema
	store, err := db.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := db.RunMigrateCommand(os.Stdout, store, fs.Args()); err != nil {
		store.Close()
		log.Fatalf("Migrate failed: %v", err)
	}
}
