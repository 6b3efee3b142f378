package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibevcf/internal/apperr"
	"github.com/inodb/vibevcf/internal/config"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "vibevcf",
	Short: "Concurrent VCF ingestion pipeline",
	Long: "vibevcf reads a VCF file with a single reader goroutine, parses lines\n" +
		"across a pool of parser workers, and writes the resulting records to a\n" +
		"configurable sink (MongoDB or DuckDB).",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var cfgFile string

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.Int("parser-count", 0, "number of parser workers (0 = auto)")
	flags.Int("batch-size", config.DefaultBatchSize, "records per sink write")
	flags.Int("line-queue-capacity", config.DefaultLineQueueCapacity, "bounded line queue capacity")
	flags.Int("record-queue-capacity", config.DefaultRecordQueueCapacity, "bounded record queue capacity")
	flags.String("sink", "mongo", `record sink: "mongo" or "duckdb"`)
	flags.String("mongo-uri", "mongodb://localhost:27017", "MongoDB connection URI")
	flags.String("mongo-db-name", "vcf_db", "MongoDB database name")
	flags.String("mongo-collection-name", "vcf_records", "MongoDB collection name")
	flags.String("duckdb-path", "", "DuckDB file path (empty = in-memory)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&cfgFile, "config", "", "config file (default $HOME/.vibevcf.yaml)")

	config.BindFlags(v)
	for flagName, viperKey := range map[string]string{
		"parser-count":          "parser_count",
		"batch-size":            "batch_size",
		"line-queue-capacity":   "line_queue_capacity",
		"record-queue-capacity": "record_queue_capacity",
		"sink":                  "sink",
		"mongo-uri":             "mongo_uri",
		"mongo-db-name":         "mongo_db_name",
		"mongo-collection-name": "mongo_collection_name",
		"duckdb-path":           "duckdb_path",
		"log-level":             "log_level",
	} {
		_ = v.BindPFlag(viperKey, flags.Lookup(flagName))
	}

	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".vibevcf")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("VIBEVCF")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "vibevcf: warning: %v\n", err)
		}
	}
}

// Execute runs the root command and translates any returned error into the
// pipeline's process exit code taxonomy.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vibevcf:", err)
		return apperr.ExitCodeFor(err)
	}
	return 0
}
