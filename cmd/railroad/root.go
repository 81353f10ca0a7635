package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/railroad/internal/config"
	"github.com/hammamikhairi/railroad/internal/logger"
)

var (
	v   = viper.New()
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "railroad",
	Short: "Lesson authoring service and terminal lesson app",
	Long: `RaiLROAD lets teachers generate step-by-step lessons and students
walk through them. "railroad serve" runs the lesson service; "railroad app"
opens the terminal app against it (or fully offline).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		config.Setup(v, cfgFile)

		loaded, err := config.Load(v)
		if err != nil {
			return err
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			loaded.Logging.Level = logger.LevelVerbose.String()
		}
		if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
			loaded.Logging.Level = logger.LevelOff.String()
		}
		cfg = loaded
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./railroad.yaml)")
	flags.Bool("verbose", false, "enable verbose/debug logging")
	flags.Bool("quiet", false, "disable all logging")
	flags.String("log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	_ = v.BindPFlag("logging.file", flags.Lookup("log-file"))

	rootCmd.AddCommand(serveCmd, appCmd)
}

// setupLogger builds the root logger from the loaded config. When toFile
// is false, logs go to stderr unless --log-file was given explicitly.
// The returned func closes the log file.
func setupLogger(cmd *cobra.Command, toFile bool) (*logger.Logger, func(), error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	path := cfg.Logging.File
	if !toFile && !cmd.Flags().Changed("log-file") {
		path = "stderr"
	}

	var out io.Writer = os.Stderr
	closer := func() {}
	if path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			closer = func() { f.Close() }
		}
	}

	// Third-party libraries writing through the log package land in the
	// same place.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(level, out), closer, nil
}
