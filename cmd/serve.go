package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/quote-compare/internal/server"
	"github.com/sells-group/quote-compare/internal/vocab"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison HTTP service",
	Long:  "Serves POST /v1/compare plus run-history endpoints until interrupted.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}

		eng, err := buildEngine()
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			// The service degrades to stateless compares without a store.
			zap.L().Warn("store unavailable, runs will not be persisted", zap.Error(err))
			st = nil
		} else {
			defer st.Close() //nolint:errcheck
		}

		srv := server.New(eng, st, vocab.Active(), cfg.Server)
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "override the configured HTTP port")
	rootCmd.AddCommand(serveCmd)
}
