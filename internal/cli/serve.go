package cli

import (
	"fmt"

	"careerhub/internal/auth"
	"careerhub/internal/server"
	"careerhub/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the careerhub HTTP API",
	Long: `Start an HTTP server that provides the careerhub REST API.

Available endpoints:
- POST /api/v1/auth/signup: Create an account with a role
- GET  /api/v1/opportunities, /api/v1/jobs, /api/v1/internships: Public boards
- Role dashboards under /api/v1/student, /api/v1/employer and /api/v1/school
- POST /api/v1/ai/assessment, /api/v1/ai/interview: AI flows (signed in)
- GET  /health, /stats: Health check and server statistics

TLS Configuration:
- Use --tls-mode to set TLS mode: disabled or server
- Use --cert-file and --key-file for TLS certificates`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	serveCmd.Flags().String("host", "", "Host to bind to (default from config)")
	serveCmd.Flags().String("tls-mode", "", "TLS mode: disabled, server (overrides config)")
	serveCmd.Flags().String("cert-file", "", "Server certificate file (PEM, overrides config)")
	serveCmd.Flags().String("key-file", "", "Server private key file (PEM, overrides config)")
	serveCmd.Flags().String("store-backend", "", "Persistence backend: firestore, memory (overrides config)")

	// Bind flags to viper config keys
	bindFlag := func(key, flagName string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(flagName)); err != nil {
			panic(err)
		}
	}

	bindFlag("server.port", "port")
	bindFlag("server.host", "host")
	bindFlag("server.tls.mode", "tls-mode")
	bindFlag("server.tls.certfile", "cert-file")
	bindFlag("server.tls.keyfile", "key-file")
	bindFlag("store.backend", "store-backend")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	// Build the persistence backend and the matching identity provider.
	// The memory backend pairs with a fake identity so the full API can
	// run locally without Firebase credentials.
	var st store.Store
	var identity auth.Identity

	switch cfg.Store.Backend {
	case "firestore":
		fsStore, err := store.NewFirestoreStore(ctx, &cfg.Firebase, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to Firestore: %w", err)
		}
		defer func() {
			if closeErr := fsStore.Close(); closeErr != nil {
				logger.LogError(closeErr, "Failed to close Firestore client")
			}
		}()

		fbIdentity, err := auth.NewFirebaseIdentity(ctx, &cfg.Firebase)
		if err != nil {
			return fmt.Errorf("failed to initialize Firebase auth: %w", err)
		}

		st = fsStore
		identity = fbIdentity
	case "memory":
		logger.Warn("Using in-memory store, data is lost on shutdown")
		st = store.NewMemoryStore()
		identity = auth.NewFakeIdentity()
	default:
		return fmt.Errorf("invalid store backend: %s (must be 'firestore' or 'memory')", cfg.Store.Backend)
	}

	authService := auth.NewService(identity, st, cfg.App.MinPasswordLen, logger)

	srv := server.NewServer(cfg, server.Deps{Store: st, Auth: authService}, Version, logger)
	return srv.Start()
}
