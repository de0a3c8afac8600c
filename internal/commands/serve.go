package commands

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/diogo/lgclient/internal/logger"
	"github.com/diogo/lgclient/internal/web"
)

var listenFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the request form over HTTP",
	Long: `Serve the request form as a web page, with a JSON API at /api/request.

The server stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig()
		if err != nil {
			return err
		}

		addr := cfg.ListenAddr
		if listenFlag != "" {
			addr = listenFlag
		}

		if !debugFlag {
			gin.SetMode(gin.ReleaseMode)
		}

		log := logger.NewLogger(debugFlag)
		defer func() { _ = log.Sync() }()

		controller := newController(cfg, log, cfg.DefaultMessage)
		srv := web.New(controller, web.WithAddr(addr), web.WithLogger(log))
		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenFlag, "listen", "", "Listen address (default from config, "+web.DefaultAddr+")")
}
