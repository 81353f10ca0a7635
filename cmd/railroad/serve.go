package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/railroad/internal/api"
	"github.com/hammamikhairi/railroad/internal/auth"
	"github.com/hammamikhairi/railroad/internal/config"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/generate"
	"github.com/hammamikhairi/railroad/internal/logger"
	"github.com/hammamikhairi/railroad/internal/server"
	"github.com/hammamikhairi/railroad/internal/service"
	"github.com/hammamikhairi/railroad/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lesson service",
	Long: `Serve /login, /getLessons and /createLesson over HTTP. Lessons and
accounts live in SQLite or Postgres; steps come from OpenAI, or from the
simulated generator when no API key is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :5000)")
	serveCmd.Flags().Bool("images", false, "illustrate each generated step")
	_ = v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = v.BindPFlag("generator.images", serveCmd.Flags().Lookup("images"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	log, closeLog, err := setupLogger(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	if log.GetLevel() < logger.LevelVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.OpenDatabase(cfg.Database.Driver, cfg.Database.DSN, log.Named("db"))
	if err != nil {
		return err
	}
	repo, err := storage.NewGormRepository(db, log.Named("db"))
	if err != nil {
		return err
	}
	defer repo.Close()

	authn := auth.New(repo, log.Named("auth"))
	if cfg.Server.Seed {
		if err := authn.EnsureSeedAccount(ctx); err != nil {
			return fmt.Errorf("seeding account: %w", err)
		}
		if _, err := storage.SeedLessons(ctx, repo, log.Named("seed")); err != nil {
			return err
		}
	}

	steps, opts, err := buildGenerator(cfg, log.Named("generate"))
	if err != nil {
		return err
	}
	svc := service.New(repo, authn, steps, log.Named("service"), opts...)

	srv := server.New(svc, server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ImageDir:       cfg.Server.ImageDir,
	}, log.Named("http"))
	return srv.Run(ctx)
}

// buildGenerator picks the step generator and, with images on, the
// illustrator.
func buildGenerator(c *config.Config, log *logger.Logger) (domain.StepGenerator, []service.Option, error) {
	if c.UseSimulatedGenerator() {
		if c.Generator.APIKey == "" && c.Generator.Mode != config.GeneratorSimulated {
			log.Info("no API key: set %s_GENERATOR_API_KEY or OPENAI_API_KEY to generate real lessons", config.EnvPrefix)
		}
		log.Info("using simulated generator (delay %s)", c.Generator.SimulatedDelay)
		return generate.NewSimulated(c.Generator.SimulatedDelay, log), nil, nil
	}

	client := generate.NewClient(c.Generator.APIKey, c.Generator.BaseURL, log,
		generate.WithModel(c.Generator.Model),
		generate.WithImageModel(c.Generator.ImageModel),
		generate.WithTemperature(c.Generator.Temperature),
		generate.WithMaxTokens(c.Generator.MaxTokens),
	)
	log.Info("generating steps with %s", client.Model())

	var opts []service.Option
	if c.Generator.Images {
		if err := os.MkdirAll(c.Server.ImageDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating image dir: %w", err)
		}
		opts = append(opts, service.WithIllustrator(
			generate.NewImageWriter(client, c.Server.ImageDir, api.PathImages, log),
		))
		log.Info("illustrating steps with %s into %s", c.Generator.ImageModel, c.Server.ImageDir)
	}
	return generate.NewStepWriter(client, log), opts, nil
}
