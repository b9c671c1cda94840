package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/robfig/cron/v3"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/tireswap/internal/analyze"
	"github.com/lox/tireswap/internal/api"
	"github.com/lox/tireswap/internal/ingest"
	"github.com/lox/tireswap/internal/season"
	"github.com/lox/tireswap/internal/store"
)

var cli struct {
	UpdateDB    bool     `name:"update-db" help:"Refresh stations and seasonal metrics from the climate data provider."`
	Latitude    *float64 `help:"Latitude of the location to analyze."`
	Longitude   *float64 `help:"Longitude of the location to analyze."`
	NumStations int      `short:"n" default:"5" help:"Number of nearest stations to consider."`
	Serve       bool     `help:"Run as a query API server."`
	Port        string   `default:"3000" help:"Port for the API server."`
	DB          string   `name:"db" default:"tireswap.db" env:"TIRESWAP_DB" help:"Path to the SQLite database."`
	RefreshCron string   `name:"refresh-cron" help:"Cron schedule for automatic refresh while serving (e.g. '0 3 * * *')."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("tireswap"),
		kong.Description("Find nearest weather stations and seasonal tire swap dates for a location."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Serve {
		runServer(ctx, st)
		return
	}

	if cli.UpdateDB {
		refresher := ingest.NewRefresher(ingest.NewClient(ingest.DefaultPolicy()), st)
		log.Println("refreshing stations and seasonal metrics")
		if err := refresher.Run(ctx); err != nil {
			log.Fatalf("refresh: %v", err)
		}
	}

	if cli.Latitude != nil && cli.Longitude != nil {
		runAnalysis(st, *cli.Latitude, *cli.Longitude, cli.NumStations)
		return
	}

	if !cli.UpdateDB {
		fmt.Fprintln(os.Stderr, "tireswap: provide --latitude and --longitude to analyze a location, --update-db to refresh the database, or --serve to start the API server")
		os.Exit(1)
	}
}

func runAnalysis(st *store.Store, latitude, longitude float64, numStations int) {
	analyzer, err := analyze.New(st)
	if err != nil {
		log.Fatalf("build analyzer: %v", err)
	}

	rec := analyzer.Analyze(latitude, longitude, numStations)

	fmt.Printf("Based on %d nearest weather stations to (%.4f, %.4f):\n\n",
		rec.StationsAnalyzed, latitude, longitude)
	if rec.SwitchToSummer.Valid {
		fmt.Printf("Switch to summer tires: %s\n", season.FormatDay(int(rec.SwitchToSummer.Int64)))
	} else {
		fmt.Println("Switch to summer tires: no data available")
	}
	if rec.SwitchToWinter.Valid {
		fmt.Printf("Switch to winter tires: %s\n", season.FormatDay(int(rec.SwitchToWinter.Int64)))
	} else {
		fmt.Println("Switch to winter tires: no data available")
	}
}

func runServer(ctx context.Context, st *store.Store) {
	server, err := api.NewServer(st, cli.Port)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	if cli.RefreshCron != "" {
		refresher := ingest.NewRefresher(ingest.NewClient(ingest.DefaultPolicy()), st)
		c := cron.New()
		_, err := c.AddFunc(cli.RefreshCron, func() {
			log.Println("scheduled refresh starting")
			if err := refresher.Run(ctx); err != nil {
				log.Printf("scheduled refresh: %v", err)
				return
			}
			if err := server.Reload(); err != nil {
				log.Printf("reload analyzer: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("invalid --refresh-cron %q: %v", cli.RefreshCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
