package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"whalerelay/internal/audit"
	"whalerelay/internal/audit/postgres"
	"whalerelay/internal/chain"
	"whalerelay/internal/config"
	"whalerelay/internal/cooldown"
	"whalerelay/internal/enrich"
	"whalerelay/internal/entities"
	"whalerelay/internal/metrics"
	"whalerelay/internal/naming"
	"whalerelay/internal/narrative"
	"whalerelay/internal/publish"
	"whalerelay/internal/relay"
	"whalerelay/internal/server"
)

func main() {
	root := &cobra.Command{
		Use:          "relay",
		Short:        "On-chain alert enrichment and publishing relay",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8787", "listen address")
	serveCmd.Flags().Float64("threshold-eth", 50, "materiality threshold in ETH")
	serveCmd.Flags().Duration("cooldown", 30*time.Minute, "minimum gap between successful publishes per rule")
	serveCmd.Flags().String("rpc", "", "chain RPC URL (empty disables account lookups)")
	serveCmd.Flags().String("name-api", "https://api.ensideas.com/ens/resolve", "reverse name resolution API base URL")
	serveCmd.Flags().String("llm-url", "https://api.openai.com/v1/chat/completions", "language-completion endpoint")
	serveCmd.Flags().String("llm-token", "", "language-completion credential (empty disables the enriched path)")
	serveCmd.Flags().String("llm-model", "gpt-4o-mini", "language-completion model")
	serveCmd.Flags().String("platform-url", "https://www.moltbook.com/api/v1/posts", "content platform endpoint")
	serveCmd.Flags().String("platform-key", "", "content platform API credential")
	serveCmd.Flags().String("community", "basewhales", "target community for posts")
	serveCmd.Flags().String("audit-path", "./data/publish_records.jsonl", "JSONL audit log path")
	serveCmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the audit log")
	serveCmd.Flags().Duration("rpc-timeout", 3*time.Second, "account lookup timeout")
	serveCmd.Flags().Duration("name-timeout", 3*time.Second, "name resolution timeout")
	serveCmd.Flags().Duration("narrative-timeout", 45*time.Second, "narrative generation timeout")
	serveCmd.Flags().Duration("publish-timeout", 10*time.Second, "platform publish timeout")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := entities.NewTable(cfg.Labels)
	gate := cooldown.NewGate(cfg.Cooldown)
	m := metrics.New()

	var accounts enrich.AccountReader
	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL, cfg.RPCTimeout)
		if err != nil {
			logger.Warn("chain client unavailable, account lookups disabled", zap.Error(err))
		} else {
			defer chainClient.Close()
			accounts = chainClient
		}
	}

	var names enrich.NameResolver
	if cfg.NameAPIURL != "" {
		names = naming.NewResolver(cfg.NameAPIURL, cfg.NameTimeout)
	}

	enricher := enrich.NewEnricher(table, accounts, names, logger)
	narrator := narrative.NewGenerator(cfg.LLMURL, cfg.LLMToken, cfg.LLMModel, cfg.NarrativeTimeout, logger)
	poster := publish.NewPublisher(cfg.PlatformURL, cfg.PlatformKey, cfg.Community, cfg.PublishTimeout, logger)

	sinks := []audit.Sink{audit.NewJsonlSink(cfg.AuditPath)}
	if cfg.PgDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PgDSN)
		if err != nil {
			return err
		}
		defer pgStore.Close()
		sinks = append(sinks, pgStore)
	}
	auditSink := audit.NewMultiSink(logger, sinks...)

	pipeline := relay.NewPipeline(cfg.ThresholdETH, gate, table, enricher, narrator, poster, auditSink, m, logger)

	logger.Info("relay start",
		zap.String("listen", cfg.Listen),
		zap.Float64("threshold_eth", cfg.ThresholdETH),
		zap.Duration("cooldown", cfg.Cooldown),
		zap.Bool("narrative_enabled", cfg.NarrativeEnabled()),
		zap.Bool("account_lookups", accounts != nil),
		zap.Int("known_entities", table.Len()),
		zap.String("community", cfg.Community),
		zap.String("audit_path", cfg.AuditPath),
		zap.Bool("pg_audit", cfg.PgDSN != ""),
	)

	return server.New(cfg.Listen, pipeline, gate, m.Registry(), logger).Run(ctx)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
