package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/nebula-nested/pkg/columnar"
	"github.com/ajitpratap0/nebula-nested/pkg/config"
	"github.com/ajitpratap0/nebula-nested/pkg/logger"
	"github.com/ajitpratap0/nebula-nested/pkg/metrics"
)

var version = "0.1.0"

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	v          *viper.Viper
	configFile string
	stats      bool

	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Collector
	conv    *columnar.Converter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	root := &cobra.Command{
		Use:   "nestctl",
		Short: "nestctl - build and inspect nested columnar arrays",
		Long: `nestctl reads JSON rows, builds nested columnar arrays from them and
prints the reconstructed rows. It is a thin front end over the columnar engine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Path to a YAML config file (optional)")
	flags.BoolVar(&a.stats, "stats", false, "Print array statistics and metrics to stderr")
	flags.String("offset-width", "auto", "Offset storage width (auto, 32, 64)")
	flags.Int("workers", runtime.GOMAXPROCS(0), "Goroutines used for parallel estimation")
	flags.Int("parallel-threshold", columnar.DefaultParallelThreshold, "Row count from which estimation runs in parallel")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "console", "Log encoding (json, console)")
	flags.Bool("metrics", false, "Collect build metrics")

	bindings := map[string]string{
		config.KeyOffsetWidth:       "offset-width",
		config.KeyWorkers:           "workers",
		config.KeyParallelThreshold: "parallel-threshold",
		config.KeyLogLevel:          "log-level",
		config.KeyLogEncoding:       "log-encoding",
		config.KeyMetricsEnabled:    "metrics",
	}
	for key, name := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		newVersionCmd(),
		newShapeCmd(),
		newMapCmd(a),
		newSplitCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup resolves the configuration (file, then env and flags), initializes
// the logger and metrics and creates the converter.
func (a *app) setup(cmd *cobra.Command) error {
	base := config.Default()
	base.Logging.Level = "warn"
	base.Logging.Encoding = "console"
	if a.configFile != "" {
		loaded, err := config.Load(a.configFile)
		if err != nil {
			return err
		}
		base = loaded
	}
	cfg, err := config.FromViper(a.v, base)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.FromLogging(cfg.Logging)); err != nil {
		return err
	}
	ctx := context.WithValue(cmd.Context(), logger.CommandKey, cmd.Name())
	cmd.SetContext(ctx)
	a.log = logger.WithContext(ctx)

	opts, err := columnar.OptionsFromConfig(cfg.Engine)
	if err != nil {
		return err
	}
	opts = append(opts, columnar.WithLogger(a.log.Named("columnar")))
	if cfg.Metrics.Enabled || a.stats {
		a.metrics = metrics.NewCollector(cfg.Metrics.Namespace)
		opts = append(opts, columnar.WithMetrics(a.metrics))
	}
	a.conv = columnar.NewConverter(memory.NewGoAllocator(), opts...)

	a.log.Debug("configuration resolved",
		zap.String("offset_width", cfg.Engine.OffsetWidth),
		zap.Int("workers", cfg.Engine.Workers),
		zap.Int("parallel_threshold", cfg.Engine.ParallelThreshold))
	return nil
}

// openInput returns the named file, or stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input %s: %w", path, err)
	}
	return f, nil
}

// printStats writes array statistics and, when enabled, the metrics
// snapshot to the command's error stream.
func (a *app) printStats(cmd *cobra.Command, arr columnar.Array) error {
	if !a.stats {
		return nil
	}
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "shape:  %s\n", arr.Shape())
	fmt.Fprintf(w, "rows:   %d\n", arr.Len())
	fmt.Fprintf(w, "nulls:  %d\n", arr.NullN())
	fmt.Fprintf(w, "bytes:  %d\n", arr.NBytes())
	if counts := columnar.LevelCounts(arr); counts != nil {
		fmt.Fprintf(w, "counts: %v\n", counts)
	}
	if a.metrics == nil {
		return nil
	}
	snapshot, err := a.metrics.Snapshot()
	if err != nil {
		return err
	}
	for _, key := range metrics.Keys(snapshot) {
		fmt.Fprintf(w, "%s %g\n", key, snapshot[key])
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nestctl v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
