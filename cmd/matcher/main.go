package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/techeer-11-team-k/aptmatch/internal/batch"
	"github.com/techeer-11-team-k/aptmatch/internal/catalog"
	"github.com/techeer-11-team-k/aptmatch/internal/config"
	"github.com/techeer-11-team-k/aptmatch/internal/db"
	"github.com/techeer-11-team-k/aptmatch/internal/match"
	"github.com/techeer-11-team-k/aptmatch/internal/web"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:   "matcher",
		Short: "Apartment transaction matching system",
		Long:  `Resolves free-text apartment transaction records from the government feed to canonical apartment complexes in the reference catalog`,
	}

	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createPingCmd creates a command to test database connectivity.
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test reference catalog connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()
			fmt.Println("Database connection successful!")

			var count int
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM apartment").Scan(&count); err != nil {
				log.Printf("Error counting apartment records: %v", err)
			} else {
				fmt.Printf("Reference apartments loaded: %d\n", count)
			}
			if err := conn.DB.QueryRow("SELECT COUNT(*) FROM region").Scan(&count); err != nil {
				log.Printf("Error counting region records: %v", err)
			} else {
				fmt.Printf("Regions loaded: %d\n", count)
			}
		},
	}
}

// createMatchCmd creates the batch matching subcommand.
func createMatchCmd() *cobra.Command {
	var (
		sggCode    string
		period     string
		inputPath  string
		failureDir string
		workers    int
		localDebug bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Run batch matching for one region and period",
		Long:  `Reads transaction records (JSON lines) and resolves each against the reference catalog for the given city/county region`,
		Run: func(cmd *cobra.Command, args []string) {
			if sggCode == "" || period == "" || inputPath == "" {
				log.Fatal("--sgg, --period and --input are required")
			}

			records, err := readRecords(inputPath)
			if err != nil {
				log.Fatalf("Failed to read records: %v", err)
			}

			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			sink, err := batch.NewFailureSink(failureDir)
			if err != nil {
				log.Fatalf("Failed to open failure sink: %v", err)
			}
			defer sink.Close()

			engine := match.NewEngine(match.EngineConfig{Params: paramsFromEnv()})
			orch := batch.NewOrchestrator(catalog.NewPostgres(conn.DB), engine, sink, workers, localDebug)

			stats, err := orch.Run(context.Background(), []batch.Task{{
				Period:  period,
				SggCode: sggCode,
				Records: records,
			}})
			if err != nil {
				log.Fatalf("Batch failed: %v", err)
			}

			fmt.Printf("Processed %d records in %v\n", stats.Total, stats.Elapsed)
			fmt.Printf("  Matched:   %d\n", stats.Matched)
			for method, n := range stats.ByMethod {
				fmt.Printf("    %-25s %d\n", method, n)
			}
			fmt.Printf("  Unmatched: %d\n", stats.Unmatched)
			for outcome, n := range stats.ByOutcome {
				fmt.Printf("    %-25s %d\n", outcome, n)
			}
		},
	}

	cmd.Flags().StringVar(&sggCode, "sgg", "", "5-digit city/county code")
	cmd.Flags().StringVar(&period, "period", "", "transaction period, e.g. 202406")
	cmd.Flags().StringVar(&inputPath, "input", "", "JSON-lines file of transaction records")
	cmd.Flags().StringVar(&failureDir, "failures", "failures", "directory for unmatched-record logs")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent batch tasks")
	cmd.Flags().BoolVar(&localDebug, "debug", config.GetEnvBool("MATCH_DEBUG", false), "enable trace output")
	return cmd
}

// createServeCmd creates the web server subcommand.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the matching API",
		Run: func(cmd *cobra.Command, args []string) {
			conn, err := db.NewConnection()
			if err != nil {
				log.Fatalf("Failed to connect to database: %v", err)
			}
			defer conn.Close()

			engine := match.NewEngine(match.EngineConfig{Params: paramsFromEnv()})
			server := web.NewServer(web.LoadConfig(), catalog.NewPostgres(conn.DB), engine)

			log.Printf("Serving matching API")
			if err := server.Run(); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		},
	}
}

// paramsFromEnv overlays environment tuning on the default parameters.
func paramsFromEnv() *match.Params {
	p := match.DefaultParams()
	p.NameSimilarityFloor = config.GetEnvFloat("MATCH_NAME_FLOOR", p.NameSimilarityFloor)
	p.YearTolerance = config.GetEnvInt("MATCH_YEAR_TOLERANCE", p.YearTolerance)
	p.LotMainLenientDigits = config.GetEnvInt("MATCH_LOT_LENIENT_DIGITS", p.LotMainLenientDigits)
	return p
}

func readRecords(path string) ([]match.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []match.Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec match.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
