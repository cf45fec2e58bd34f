package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chronos/internal/agent"
	"chronos/internal/config"
	"chronos/internal/server"
	"chronos/internal/storage"
	"chronos/internal/weather"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "chronos",
		Short: "Weather-adaptive itinerary planner",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "chronos.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the local SQLite database (overrides config)")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.Path = dbPath
	}
	return cfg
}

func initStore(cfg *config.Config) *storage.Store {
	store, err := storage.NewStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

// initPlanner wires the gateway and the model backend. Without an API
// key the planner still works using its rule-based fallback plans.
func initPlanner(ctx context.Context, cfg *config.Config, store *storage.Store, simulate bool) *agent.Planner {
	opts := []weather.Option{
		weather.WithSimulation(simulate || cfg.Weather.Simulation),
		weather.WithTTL(time.Duration(cfg.Weather.CacheTTLMinutes) * time.Minute),
	}
	if store != nil {
		opts = append(opts, weather.WithStore(store))
	}
	gateway := weather.NewGateway(weather.NewWttrClient(""), opts...)

	var gen agent.Generator
	if cfg.AI.APIKey != "" {
		var err error
		gen, err = agent.NewGenerator(ctx, agent.Options{
			Provider: cfg.AI.Provider,
			APIKey:   cfg.AI.APIKey,
			Model:    cfg.AI.Model,
			BaseURL:  cfg.AI.BaseURL,
		})
		if err != nil {
			log.Fatalf("Failed to create generator: %v", err)
		}
	} else {
		log.Println("warning: no AI API key configured, plans will use the rule-based fallback")
	}

	return agent.NewPlanner(gen, gateway)
}

var (
	planLocation string
	planStart    string
	planEnd      string
	planSimulate bool
)

var planCmd = &cobra.Command{
	Use:   "plan [request]",
	Short: "Generate two plan variants for a task, location and date range",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		ctx := cmd.Context()

		store := initStore(cfg)
		defer store.Close()

		planner := initPlanner(ctx, cfg, store, planSimulate)

		start := planStart
		if start == "" {
			start = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
		}
		end := planEnd
		if end == "" {
			end = start
		}

		resp, err := planner.Plan(ctx, agent.Request{
			Request:   args[0],
			Location:  planLocation,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			log.Fatalf("Planning failed: %v", err)
		}

		if err := store.SavePlan(ctx, resp); err != nil {
			log.Printf("warning: could not save plan: %v", err)
		}

		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode response: %v", err)
		}
		fmt.Println(string(out))
	},
}

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local planning API",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store := initStore(cfg)
		defer store.Close()

		planner := initPlanner(ctx, cfg, store, false)
		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: server.NewServer(planner, store).Router(),
		}

		go func() {
			fmt.Printf("🌦  Chronos listening on %s\n", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Server failed: %v", err)
			}
		}()

		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently saved plans",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()

		store := initStore(cfg)
		defer store.Close()

		records, err := store.ListPlans(cmd.Context(), historyLimit)
		if err != nil {
			log.Fatalf("Failed to list plans: %v", err)
		}
		if len(records) == 0 {
			fmt.Println("No saved plans yet.")
			return
		}
		for _, r := range records {
			fmt.Printf("%s  %s @ %s (%s to %s)\n", r.ID, r.Request, r.Location, r.StartDate, r.EndDate)
		}
	},
}

func init() {
	planCmd.Flags().StringVarP(&planLocation, "location", "l", "", "Location (city, state, country)")
	planCmd.Flags().StringVar(&planStart, "start", "", "Start date (YYYY-MM-DD, default tomorrow)")
	planCmd.Flags().StringVar(&planEnd, "end", "", "End date (YYYY-MM-DD, default start date)")
	planCmd.Flags().BoolVar(&planSimulate, "simulate", false, "Force deterministic simulated weather")
	_ = planCmd.MarkFlagRequired("location")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of plans to list")
}
