package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/soundpack/internal/bot"
	"github.com/ytget/soundpack/internal/config"
	"github.com/ytget/soundpack/internal/status"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := config.Load(envFile)
	if err != nil {
		return errors.Wrap(err, "failed to load settings")
	}
	if err := settings.Validate(); err != nil {
		return errors.Wrap(err, "failed to validate settings")
	}
	if settings.Debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := bot.New(ctx, settings, log.WithField("bot", settings.Bot.Name))
	if err != nil {
		return errors.Wrap(err, "failed to create the bot")
	}
	defer b.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	if settings.StatusAddr != "" {
		srv := status.NewServer(settings.StatusAddr, b.Pool(), b.Controller(), log.WithField("component", "status"))
		g.Go(func() error {
			return srv.Run(gctx)
		})
	}

	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
