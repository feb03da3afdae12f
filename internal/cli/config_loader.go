// filepath: internal/cli/config_loader.go
package cli

import (
	"fmt"
	"os"
	"strings"

	"streamstore/internal/config"
	"streamstore/internal/logging"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by viper.
const EnvPrefix = "STREAMSTORE"

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flags variables
	cfgFile        string
	host           string
	port           int
	logLevel       string
	scratchDir     string
	databasePath   string
	queueCapacity  int
	readBufferSize string
	traceStatus    bool
	auditEnabled   bool
	metricsEnabled bool
)

// normalizeFlagName lets --config_path and --config-path be used interchangeably.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func registerFlags(cmd *cobra.Command) {
	cmd.SetGlobalNormalizationFunc(normalizeFlagName)
	cmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: STREAMSTORE_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (trace, debug, info, warn, error). (Env: STREAMSTORE_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&databasePath, "database-path", "", "Path of the upload history database. (Env: STREAMSTORE_DATABASE_PATH)")

	// Server-specific flags
	cmd.Flags().StringVar(&host, "host", "", "Interface to listen on. (Env: STREAMSTORE_HOST)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: STREAMSTORE_PORT)")
	cmd.Flags().StringVar(&scratchDir, "scratch-dir", "", "Directory uploads are written to. Defaults to <tmp>/streamstore. (Env: STREAMSTORE_SCRATCH_DIR)")
	cmd.Flags().IntVar(&queueCapacity, "queue-capacity", 0, "Chunks buffered between the request and the file writer. (Env: STREAMSTORE_QUEUE_CAPACITY)")
	cmd.Flags().StringVar(&readBufferSize, "read-buffer", "", "Maximum size of one chunk read from a request (e.g. '64KB'). (Env: STREAMSTORE_READ_BUFFER)")
	cmd.Flags().BoolVar(&traceStatus, "trace-status", false, "Print ingest/persist progress markers to stdout. (Env: STREAMSTORE_TRACE_STATUS=true)")
	cmd.Flags().BoolVar(&auditEnabled, "audit-enabled", false, "Enable audit logging of uploads. (Env: STREAMSTORE_AUDIT_ENABLED=true)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics", false, "Expose Prometheus metrics on /metrics. (Env: STREAMSTORE_METRICS=true)")
}

// newEnv returns a viper instance reading STREAMSTORE_* variables.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	env := newEnv()

	// 1. Check environment variable for config path first
	if envPath := env.GetString("config_path"); envPath != "" && !cmd.Flags().Changed("config-path") {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg, cmd, env)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

func applyOverrides(c *config.Config, cmd *cobra.Command, env *viper.Viper) {
	// --- Environment Variables ---
	if env.IsSet("host") {
		c.Server.Host = env.GetString("host")
	}
	if v := env.GetInt("port"); v != 0 {
		c.Server.Port = v
	}
	if v := env.GetString("log_level"); v != "" {
		c.Logging.Level = v
	}
	if v := env.GetString("scratch_dir"); v != "" {
		c.Storage.ScratchDir = v
	}
	if v := env.GetString("database_path"); v != "" {
		c.Database.Path = v
	}
	if v := env.GetInt("queue_capacity"); v != 0 {
		c.Storage.QueueCapacity = v
	}
	if v := env.GetString("read_buffer"); v != "" {
		c.Server.ReadBufferSize = v
	}
	if env.IsSet("trace_status") {
		c.Logging.TraceStatus = env.GetBool("trace_status")
	}
	if env.IsSet("audit_enabled") {
		c.Logging.AuditEnabled = env.GetBool("audit_enabled")
	}
	if env.IsSet("metrics") {
		c.Metrics.Enabled = env.GetBool("metrics")
	}

	// --- CLI Flags ---
	if host != "" {
		c.Server.Host = host
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if scratchDir != "" {
		c.Storage.ScratchDir = scratchDir
	}
	if databasePath != "" {
		c.Database.Path = databasePath
	}
	if queueCapacity != 0 {
		c.Storage.QueueCapacity = queueCapacity
	}
	if readBufferSize != "" {
		c.Server.ReadBufferSize = readBufferSize
	}
	if cmd.Flags().Changed("trace-status") {
		c.Logging.TraceStatus = traceStatus
	}
	if cmd.Flags().Changed("audit-enabled") {
		c.Logging.AuditEnabled = auditEnabled
	}
	if cmd.Flags().Changed("metrics") {
		c.Metrics.Enabled = metricsEnabled
	}

	// --- Defaults ---
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "streamstore.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
