package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"NewsCuration/internal/app"
	"NewsCuration/internal/config"
	"NewsCuration/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Driver     string
	DSN        string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the newscuration CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "newscuration",
		Short: "Editorial curation queue for scraped news",
		Long:  "Review scraped news, categorize it and publish approved items as portal articles.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (defaults to $NEWS_CURATION_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "db-driver", "", "database driver override (postgres|sqlite3)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "database DSN override")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewIntakeCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewActionCommand(opts))

	return cmd
}

func (o *RootOptions) loadConfig() config.Config {
	var cfg config.Config
	if o.ConfigPath != "" {
		cfg = config.LoadFrom(o.ConfigPath)
	} else {
		cfg = config.Load()
	}
	if o.Driver != "" {
		cfg.Database.Driver = o.Driver
	}
	if o.DSN != "" {
		cfg.Database.DSN = o.DSN
	}
	return cfg
}

// open builds the application with logs on stderr so stdout stays parseable.
func (o *RootOptions) open(ctx context.Context, cmd *cobra.Command, overrides ...func(*config.Config)) (*app.Application, error) {
	cfg := o.loadConfig()
	for _, apply := range overrides {
		apply(&cfg)
	}
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("start application: %w", err)
	}
	return application, nil
}
