// Package cmd implements the portfolio command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/toreleon/portfolio/internal/config"
	"github.com/toreleon/portfolio/internal/content"
	"github.com/toreleon/portfolio/internal/site"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site generator and preview server",
	Long: `portfolio renders a single-page personal portfolio with a thoughts
section. It can export the site as static files for GitHub Pages or serve
it locally for preview.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return setupLogger(cfg)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yml", "config file")
}

func setupLogger(c *config.Config) error {
	level, err := c.Level()
	if err != nil {
		return err
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if level <= slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	return nil
}

// newSite loads the content store and builds the renderer for it.
func newSite() (*content.Store, *site.Site, error) {
	store, err := content.NewStore(cfg.ContentDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load content: %w", err)
	}
	s, err := site.New(store, site.Options{
		BasePath:    cfg.BasePath,
		AssetPrefix: cfg.AssetPrefix,
		ContentDir:  cfg.ContentDir,
		Mode:        cfg.StartMode(),
		Tracker:     cfg.TrackerOptions(),
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	return store, s, nil
}
