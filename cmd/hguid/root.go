package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Lzww0608/hguid"
	"github.com/Lzww0608/hguid/internal/config"
	"github.com/Lzww0608/hguid/internal/logging"
	"github.com/Lzww0608/hguid/internal/server"
	"github.com/Lzww0608/hguid/store"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

// cli carries state shared by all subcommands once the root has run its
// pre-run hook.
type cli struct {
	cfgPath  string
	logLevel string

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:          "hguid",
		Short:        "Generate and parse hybrid time/random GUIDs",
		Long:         "hguid issues 128-bit identifiers that combine a 100ns timestamp, a clock sequence and random node bytes.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init(cmd)
		},
	}
	root.PersistentFlags().StringVar(&c.cfgPath, "config", os.Getenv("HGUID_CONFIG"), "Path to a YAML config file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug|info|warn|error")

	root.AddCommand(
		c.newCmd(),
		c.parseCmd(),
		c.emptyCmd(),
		c.serveCmd(),
		versionCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	cfg, err := config.Load(c.cfgPath)
	if err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Log.Level = c.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger
	return nil
}

// openRegistry opens the configured store. It fails when no driver is set.
func (c *cli) openRegistry(ctx context.Context) (*store.Registry, error) {
	if c.cfg.Store.Driver == "" {
		return nil, errors.New("no store configured; set store.driver or HGUID_STORE_DRIVER")
	}
	return store.Open(ctx, store.Options{
		Driver: c.cfg.Store.Driver,
		DSN:    c.cfg.Store.DSN,
		Logger: c.log,
	})
}

func (c *cli) newCmd() *cobra.Command {
	var (
		count  int
		format string
		tag    string
		record bool
	)
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate new GUIDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count == 0 {
				count = c.cfg.Output.Count
			}
			if count <= 0 {
				return fmt.Errorf("invalid -n %d; must be positive", count)
			}
			if format == "" {
				format = c.cfg.Output.Format
			}
			render, err := formatter(format)
			if err != nil {
				return err
			}

			var ids []hguid.GUID
			if record {
				if tag == "" {
					tag = c.cfg.Store.Tag
				}
				reg, err := c.openRegistry(cmd.Context())
				if err != nil {
					return err
				}
				defer reg.Close()
				ids, err = reg.Issue(cmd.Context(), hguid.NewGenerator(), tag, count)
				if err != nil {
					return err
				}
				c.log.Debug("recorded guids", "count", len(ids), "tag", tag)
			} else {
				ids = hguid.NewBatch(count)
			}

			out := cmd.OutOrStdout()
			for _, id := range ids {
				fmt.Fprintln(out, render(id))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of GUIDs to generate (default from config)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: plain|braced|upper")
	cmd.Flags().StringVar(&tag, "tag", "", "Registry tag used with --record")
	cmd.Flags().BoolVar(&record, "record", false, "Record the GUIDs in the configured store")
	return cmd
}

func (c *cli) parseCmd() *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "parse <text>...",
		Short: "Parse GUID text and print its fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, text := range args {
				var id hguid.GUID
				if lenient {
					id = hguid.FromString(text)
				} else {
					var err error
					if id, err = hguid.Parse(text); err != nil {
						return err
					}
				}
				printFields(out, id)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Accept malformed input; bad digits read as zero")
	return cmd
}

func (c *cli) emptyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "empty",
		Short: "Print the all-zero GUID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			render, err := formatter(c.cfg.Output.Format)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render(hguid.Empty()))
			return nil
		},
	}
}

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GUIDs over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts := server.Options{
				Tag:      c.cfg.Store.Tag,
				MaxBatch: c.cfg.Server.MaxBatch,
				Logger:   c.log,
			}
			if c.cfg.Store.Driver != "" {
				reg, err := c.openRegistry(ctx)
				if err != nil {
					return err
				}
				defer reg.Close()
				opts.Recorder = reg
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.NewRouter(opts),
				ReadHeaderTimeout: 5 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				c.log.Info("http listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			c.log.Info("shutting down")
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hguid version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hguid", version)
		},
	}
}

func formatter(name string) (func(hguid.GUID) string, error) {
	switch name {
	case "", "plain":
		return hguid.GUID.String, nil
	case "braced":
		return hguid.GUID.Braced, nil
	case "upper":
		return func(g hguid.GUID) string { return strings.ToUpper(g.String()) }, nil
	default:
		return nil, fmt.Errorf("invalid --format %q; use plain|braced|upper", name)
	}
}

func printFields(w io.Writer, id hguid.GUID) {
	f := id.Fields()
	fmt.Fprintf(w, "%s data1=%08x data2=%04x data3=%04x data4=%x version=%x hybrid=%t\n",
		id, f.Data1, f.Data2, f.Data3, f.Data4[:], byte(id.Version()), id.IsHybrid())
}
