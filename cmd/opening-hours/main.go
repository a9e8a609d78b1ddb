package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/username/opening-hours/internal/config"
	"github.com/username/opening-hours/internal/engine"
	"github.com/username/opening-hours/internal/holiday"
	"github.com/username/opening-hours/pkg/dateutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "opening-hours",
		Short: "Opening hours evaluation",
		Long:  "Evaluate schedule rules over the calendar: point-in-time state, next change and open/closed intervals with holiday integration",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load config to get log file path
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Config file path")

	rootCmd.AddCommand(stateCmd())
	rootCmd.AddCommand(nextChangeCmd())
	rootCmd.AddCommand(intervalsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func stateCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show the state at a point in time",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := initializeDomain()
			if err != nil {
				return err
			}

			t, err := resolveTime(at)
			if err != nil {
				return err
			}

			state := domain.StateAt(t)
			fmt.Printf("%s: %s\n", t.Format("2006-01-02 15:04"), state)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Point in time (YYYY-MM-DD[ HH:MM], default now)")
	return cmd
}

func nextChangeCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "next-change",
		Short: "Show when the state changes next",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := initializeDomain()
			if err != nil {
				return err
			}

			t, err := resolveTime(at)
			if err != nil {
				return err
			}

			next := domain.NextChange(t)
			fmt.Printf("%s until %s\n",
				domain.StateAt(t),
				next.Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Point in time (YYYY-MM-DD[ HH:MM], default now)")
	return cmd
}

func intervalsCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "List intervals in a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := initializeDomain()
			if err != nil {
				return err
			}

			start, err := resolveTime(from)
			if err != nil {
				return err
			}

			end := start.AddDate(0, 0, 7)
			if to != "" {
				end, err = resolveTime(to)
				if err != nil {
					return err
				}
			}

			for _, iv := range domain.Intervals(start, end) {
				line := fmt.Sprintf("%s .. %s  %s",
					iv.Start.Format("2006-01-02 15:04"),
					iv.End.Format("2006-01-02 15:04"),
					iv.State)
				for _, comment := range iv.Comments {
					line += fmt.Sprintf("  %q", comment)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD[ HH:MM], default now)")
	cmd.Flags().StringVar(&to, "to", "", "Window end (default one week after start)")
	return cmd
}

func initializeDomain() (*engine.TimeDomain, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	rules, err := cfg.Schedule.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build rules: %w", err)
	}

	source, err := initializeSource(cfg)
	if err != nil {
		return nil, err
	}

	return engine.New(rules, holiday.NewOracle(source, logger), logger), nil
}

func initializeSource(cfg *config.Config) (holiday.Source, error) {
	sourceType := cfg.Holidays.Source
	if sourceType == "" {
		sourceType = "file" // Default
	}

	switch sourceType {
	case "file":
		logger.Info("Using holiday file", zap.String("file", cfg.Holidays.File))
		table := holiday.NewTable(cfg.Holidays.File, logger)
		if err := table.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return table, nil

	case "nager":
		logger.Info("Using date.nager.at holiday API",
			zap.String("country", cfg.Holidays.Country))
		return holiday.NewNagerClient(
			cfg.Holidays.APIURL,
			cfg.Holidays.Country,
			cfg.Holidays.GetCacheTTL(),
			logger,
		), nil

	case "composite":
		logger.Info("Using date.nager.at holiday API with file fallback",
			zap.String("country", cfg.Holidays.Country),
			zap.String("file", cfg.Holidays.File))
		primary := holiday.NewNagerClient(
			cfg.Holidays.APIURL,
			cfg.Holidays.Country,
			cfg.Holidays.GetCacheTTL(),
			logger,
		)
		fallback := holiday.NewTable(cfg.Holidays.File, logger)
		if err := fallback.Load(); err != nil {
			return nil, fmt.Errorf("failed to load holiday file: %w", err)
		}
		return holiday.NewComposite(primary, fallback, logger), nil

	default:
		return nil, fmt.Errorf("unknown holiday source: %s", sourceType)
	}
}

func resolveTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, ok := dateutil.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("unrecognized time: %s", s)
	}
	return t, nil
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
