package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/silkbridge/examples/processors"
	"github.com/gosuda/silkbridge/internal/client"
	"github.com/gosuda/silkbridge/internal/handshake"
)

var (
	remoteAddr string
	localName  string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "silkbridge-client",
		Short: "Connect to a gateway, complete the handshake and idle-poll for traffic",
		RunE:  run,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&remoteAddr, "remote", "127.0.0.1:4001", "gateway address to connect to")
	flags.StringVar(&localName, "name", "SR_CLIENT", "service name to announce during module identification")
	flags.BoolVar(&verbose, "verbose", false, "enable trace-level logging")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("client exited")
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.TraceLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := client.Connect(ctx, remoteAddr)
	if err != nil {
		return err
	}
	defer c.Close()
	log.Info().Str("remote", remoteAddr).Str("session", c.ID().String()).Msg("client: connected")

	// The gateway initiates the handshake toward us, so we play Responder.
	responder := handshake.NewResponder()

	table := client.Table{}
	responder.Register(table)
	table.Register(processors.ModuleIdentificationID, processors.ModuleIdentification{
		LocalName:        localName,
		RequestShardList: true,
	})
	table.Register(processors.KeepAliveID, processors.KeepAlive{})
	table.Register(processors.ShardListAckID, processors.ShardList{
		OnList: func(farms []processors.Farm, shards []processors.Shard) {
			log.Info().Int("farms", len(farms)).Int("shards", len(shards)).Msg("client: shard list received")
		},
	})

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("client: shutting down")
			return nil
		case <-ticker.C:
			c.ProcessMessages(table, nil, 16)
		}
	}
}
