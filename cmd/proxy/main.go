package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/silkbridge/internal/wire"
)

var (
	listenAddr string
	remoteAddr string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "silkbridge-proxy",
		Short: "Relay a game client connection through to an upstream server",
		RunE:  run,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&listenAddr, "listen", "0.0.0.0:1234", "address to accept incoming client connections on")
	flags.StringVar(&remoteAddr, "remote", "127.0.0.1:4001", "upstream server address to relay to")
	flags.BoolVar(&verbose, "verbose", false, "enable trace-level logging")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("proxy exited")
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

	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	defer listener.Close()
	log.Info().Str("addr", listenAddr).Str("remote", remoteAddr).Msg("proxy: listening")

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Error().Err(err).Msg("proxy: accept failed")
			continue
		}
		go handleConn(ctx, conn)
	}
}

func handleConn(ctx context.Context, conn net.Conn) {
	log.Info().Str("peer", conn.RemoteAddr().String()).Msg("proxy: new connection")

	toClient := make(chan wire.Message, 64)
	toServer := make(chan wire.Message, 64)

	sside, err := newServerSide(ctx, remoteAddr, toServer, toClient)
	if err != nil {
		log.Error().Err(err).Msg("proxy: could not connect to remote")
		conn.Close()
		return
	}
	cside := newClientSide(ctx, conn, toClient, toServer)
	log.Info().
		Str("client_session", cside.client.ID().String()).
		Str("server_session", sside.client.ID().String()).
		Msg("proxy: paired connection")

	go sside.run(ctx)
	cside.run(ctx)
}
