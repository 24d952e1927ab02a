package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/daisyflow/daisy"
	api "github.com/daisyflow/daisy/internal/adapters/http"
	"github.com/daisyflow/daisy/internal/cli"
	"github.com/daisyflow/daisy/internal/logging"
	"github.com/daisyflow/daisy/pkg/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the daisy HTTP API",
	Long:  `Starts an HTTP server exposing the workflow graph, node execution, credential management and a live event stream.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		opts := optionsFromFlags(cmd)

		level, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		creds, err := cli.Credentials(opts)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		metrics := observability.NewMetrics(reg)
		broker := observability.NewBroker()
		sink := observability.Fanout(observability.NewLogSink(logger), metrics, broker)

		engineOpts := []daisy.Option{
			daisy.WithLogger(logger),
			daisy.WithCredentials(creds),
			daisy.WithEventSink(sink),
		}

		var engine *daisy.Engine
		if _, statErr := os.Stat(opts.WorkflowPath); statErr == nil {
			engine, err = daisy.Load(opts.WorkflowPath, engineOpts...)
			if err != nil {
				return err
			}
			logger.Info("workflow loaded", "path", opts.WorkflowPath)
		} else {
			engine = daisy.New(engineOpts...)
			logger.Info("starting with an empty graph", "path", opts.WorkflowPath)
		}

		mux := http.NewServeMux()
		mux.Handle("/", api.NewHandler(engine,
			api.WithCredentialStore(creds),
			api.WithBroker(broker),
			api.WithLogger(logger),
		))
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

		server := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("server listening", "addr", server.Addr)
			serverErrors <- server.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutdown started", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				server.Close()
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func optionsFromFlags(cmd *cobra.Command) cli.Options {
	file, _ := cmd.Flags().GetString("file")
	level, _ := cmd.Flags().GetString("log-level")
	redisAddr, _ := cmd.Flags().GetString("redis")
	return cli.Options{
		WorkflowPath: file,
		LogLevel:     level,
		RedisAddr:    redisAddr,
	}
}
