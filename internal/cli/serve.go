package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/factscope/internal/api"
	"github.com/ppiankov/factscope/internal/metrics"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve verification over HTTP",
	Long: `Serve exposes the pipeline as an HTTP API:

  POST /verify   {"input": {"text": "...", "language": "en"}}
  GET  /healthz
  GET  /metrics  Prometheus metrics

Example:
  factscope serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.Output.Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	a.metrics = metrics.New()
	server := api.NewServer(a.pipeline(), a.metrics, a.cfg.Server.RunTimeout, a.logger)
	return server.ListenAndServe(ctx, a.cfg.Server.Addr)
}
