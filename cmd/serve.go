package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-sketch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-sketch/analysis"
	"github.com/RyanBlaney/sonido-sketch/internal/server"
	"github.com/RyanBlaney/sonido-sketch/transcode"
)

var serveFlagKeys = map[string]string{
	"addr":       "server.address",
	"max-upload": "server.max_upload_bytes",
	"parallel":   "analysis.parallel",
	"detector":   "analysis.detector",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Start an HTTP API for sketching uploaded clips.

Endpoints:
  GET  /healthz                 liveness probe
  POST /api/v1/analyze          multipart field "file"; ?format=json|yaml|text
  POST /api/v1/analyze/midi     multipart field "file"; returns the melody as MIDI`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-upload", 64<<20, "maximum upload size in bytes")
	serveCmd.Flags().Bool("parallel", false, "run the estimators concurrently")
	serveCmd.Flags().String("detector", spectral.DetectorPartialDFT, detectorUsage())
}

func runServe(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd, serveFlagKeys)
	if err != nil {
		return err
	}

	analyzer, err := analysis.NewAnalyzer(&config.Analysis)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(config.Server, analyzer, transcode.NewDecoder(&config.Decoder))
	return srv.ListenAndServe(ctx)
}
