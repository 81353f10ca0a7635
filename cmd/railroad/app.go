package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/railroad/internal/auth"
	"github.com/hammamikhairi/railroad/internal/client"
	"github.com/hammamikhairi/railroad/internal/display"
	"github.com/hammamikhairi/railroad/internal/domain"
	"github.com/hammamikhairi/railroad/internal/engine"
	"github.com/hammamikhairi/railroad/internal/generate"
	"github.com/hammamikhairi/railroad/internal/logger"
	"github.com/hammamikhairi/railroad/internal/service"
	"github.com/hammamikhairi/railroad/internal/session"
	"github.com/hammamikhairi/railroad/internal/storage"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Open the terminal lesson app",
	Long: `Log in, list, create and delete lessons, and step through them.
With --offline the lesson service runs in-process on sample data and the
simulated generator.`,
	RunE: runApp,
}

func init() {
	appCmd.Flags().Bool("offline", false, "run without a lesson service")
	appCmd.Flags().String("server", "", "lesson service URL (default http://localhost:5000)")
	appCmd.Flags().String("nav", "", "step navigation: clamp or wrap")
	_ = v.BindPFlag("client.base_url", appCmd.Flags().Lookup("server"))
	_ = v.BindPFlag("viewer.nav_policy", appCmd.Flags().Lookup("nav"))
}

func runApp(cmd *cobra.Command, _ []string) error {
	// Logs go to a file so the UI stays clean.
	log, closeLog, err := setupLogger(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lessons domain.LessonService
	if offline, _ := cmd.Flags().GetBool("offline"); offline {
		svc, err := offlineService(ctx, log)
		if err != nil {
			return err
		}
		lessons = svc
		log.Info("offline mode: in-process service with sample lessons")
	} else {
		c := client.New(cfg.Client.BaseURL, log.Named("client"), client.WithHTTPTimeout(cfg.Client.Timeout))
		if err := c.Healthy(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "warning: lesson service at %s is not answering: %v\n", c.BaseURL(), err)
			log.Warn("health check failed: %v", err)
		}
		lessons = c
	}

	policy, err := cfg.NavPolicy()
	if err != nil {
		return err
	}

	store := storage.NewLessonStore(log.Named("store"))
	app := display.NewApp(display.Deps{
		Lessons:  lessons,
		Session:  session.NewFlow(lessons, log.Named("session")),
		Store:    store,
		Creation: engine.NewCreationFlow(lessons, store, log.Named("creation"), engine.WithRequestTimeout(cfg.Client.Timeout)),
		Viewer:   engine.NewViewer(policy, log.Named("viewer")),
		Log:      log.Named("app"),
	})
	return app.Run(ctx)
}

// offlineService runs the lesson service in-process on a seeded memory
// repository and the simulated generator.
func offlineService(ctx context.Context, log *logger.Logger) (*service.Service, error) {
	repo := storage.NewMemoryRepository(log.Named("repo"))
	authn := auth.New(repo, log.Named("auth"))
	if err := authn.EnsureSeedAccount(ctx); err != nil {
		return nil, fmt.Errorf("seeding account: %w", err)
	}
	if _, err := storage.SeedLessons(ctx, repo, log.Named("seed")); err != nil {
		return nil, err
	}
	steps := generate.NewSimulated(cfg.Generator.SimulatedDelay, log.Named("generate"))
	return service.New(repo, authn, steps, log.Named("service")), nil
}
