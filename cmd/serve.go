package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/investor-cli/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scenario and settlement API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		serverCfg := cfg.Server
		if servePort != 0 {
			serverCfg.Port = servePort
		}

		c, ttl := initCache()
		tenants := initTenants(st)
		srv := server.New(server.Options{
			Store:    st,
			Tenants:  tenants,
			Cache:    c,
			CacheTTL: ttl,
			Advisor:  initAdvisor(),
			Config:   serverCfg,
		})

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(ctx) })

		// Warm the tenant layer so config mistakes surface at startup.
		g.Go(func() error {
			known, err := tenants.List(ctx)
			if err != nil {
				return err
			}
			zap.L().Info("tenants loaded", zap.Int("count", len(known)))
			return nil
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
