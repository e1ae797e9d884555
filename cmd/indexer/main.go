package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/DevBigEazi/circlepot-indexer/internal/chainstate"
	"github.com/DevBigEazi/circlepot-indexer/internal/config"
	"github.com/DevBigEazi/circlepot-indexer/internal/db"
	"github.com/DevBigEazi/circlepot-indexer/internal/decoder"
	"github.com/DevBigEazi/circlepot-indexer/internal/feed"
	"github.com/DevBigEazi/circlepot-indexer/internal/indexer"
	"github.com/DevBigEazi/circlepot-indexer/internal/logger"
	"github.com/DevBigEazi/circlepot-indexer/internal/metrics"
	"github.com/DevBigEazi/circlepot-indexer/internal/migrations"
	"github.com/DevBigEazi/circlepot-indexer/internal/projector"
	"github.com/DevBigEazi/circlepot-indexer/internal/rpc"
	"github.com/DevBigEazi/circlepot-indexer/internal/store"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

var (
	configPath      string
	replayFromBlock uint64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "circlepot-indexer",
	Short: "Circlepot protocol event indexer",
	Long: `circlepot-indexer follows the Circlepot savings contracts on chain,
decodes their events and folds them into queryable circle, goal, user and
referral aggregates backed by SQLite.`,
	Version: version,
	RunE:    runIndexer,
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Rebuild all aggregates from the stored event log",
	Long: `Rebuild every aggregate from the locally stored event records.
With --from-block, event records at or above the given block are deleted
first and the checkpoint is rewound, which is the recovery path after a
chain reorganization.`,
	RunE: runReplay,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema := jsonschema.Reflect(&config.Config{})
		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal schema: %w", err)
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to configuration file")
	replayCmd.Flags().Uint64Var(&replayFromBlock, "from-block", 0, "delete event records from this block before replaying")
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(schemaCmd)
}

func runIndexer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := cfg.Logging.BuildLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("circlepot-indexer %s starting", version)

	client, err := rpc.NewClient(ctx, cfg.Feed.RPCURL, cfg.Feed.Retry)
	if err != nil {
		return fmt.Errorf("failed to create RPC client: %w", err)
	}
	defer client.Close()

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	chain := chainstate.NewEthReader(
		client,
		ethcommon.HexToAddress(cfg.Contracts.PersonalSavings),
		log,
	)

	proj := projector.New(st, chain, log)
	idx := indexer.New(cfg, decoder.New(), proj, st, log)
	logFeed := feed.New(cfg.Feed, client, idx, st, log)

	metricsServer := metrics.NewServer(cfg.Metrics, log)
	if err := metricsServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	defer func() {
		if err := metricsServer.Stop(context.Background()); err != nil {
			log.Warnf("failed to stop metrics server: %v", err)
		}
	}()

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return logFeed.Run(ctx)
	})

	if err := group.Wait(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("feed failed: %w", err)
	}

	log.Info("circlepot-indexer stopped")
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := cfg.Logging.BuildLogger()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer log.Close() //nolint:errcheck

	st, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	proj := projector.New(st, nil, log)

	if cmd.Flags().Changed("from-block") {
		idx := indexer.New(cfg, decoder.New(), proj, st, log)
		if err := idx.HandleReorg(replayFromBlock); err != nil {
			return err
		}
		log.Infof("replay from block %d complete", replayFromBlock)
		return nil
	}

	if err := proj.Replay(); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}

	log.Info("replay complete")
	return nil
}

// openStore runs migrations and opens the SQLite-backed store.
func openStore(cfg *config.Config, log *logger.Logger) (store.Store, func(), error) {
	if err := migrations.RunMigrations(cfg.DB.Path); err != nil {
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	database, err := db.NewSQLiteDBFromConfig(cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	closeFn := func() {
		if err := database.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}

	return store.NewSQLiteStore(database, log), closeFn, nil
}
