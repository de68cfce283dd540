package cmd

import (
	"time"

	"github.com/iksnae/jonsai/internal"
	"github.com/iksnae/jonsai/internal/web"
	"github.com/spf13/cobra"
)

var idleTimeout time.Duration

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and image screens over HTTP",
	Long: `Serve the home, chat and image screens to a browser, plus a JSON API:

  POST   /api/chat                 send a message        {"message": "..."}
  GET    /api/chat/history         transcript (?format=jsonl|md|yaml|json)
  DELETE /api/chat                 clear the conversation
  POST   /api/image                generate an image     {"prompt": "..."}
  GET    /healthz                  liveness

Each browser gets its own conversation, kept in memory only. Conversations idle
for longer than --idle-timeout are dropped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		warnMissingCredentials()

		registry := internal.NewRegistryFromConfig(cfg)
		srv, err := web.NewServer(registry)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if idleTimeout > 0 {
			go sweepIdle(ctx.Done(), registry, idleTimeout)
		}
		return srv.ListenAndServe(ctx, cfg.Server.Addr)
	},
}

// minSweepInterval bounds how often idle sessions are swept
const minSweepInterval = time.Second

// sweepInterval is half of maxIdle, never below minSweepInterval
func sweepInterval(maxIdle time.Duration) time.Duration {
	return max(maxIdle/2, minSweepInterval)
}

// sweepIdle drops idle browser sessions until done is closed
func sweepIdle(done <-chan struct{}, registry *internal.Registry, maxIdle time.Duration) {
	ticker := time.NewTicker(sweepInterval(maxIdle))
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			registry.Sweep(maxIdle)
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", internal.DefaultAddr, "Listen address")
	serveCmd.Flags().DurationVar(&idleTimeout, "idle-timeout", 30*time.Minute, "Drop browser sessions idle for this long (0 = never)")
}
