package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/YelzhanWeb/chocoqc/internal/adapter/console"
	"github.com/YelzhanWeb/chocoqc/internal/adapter/logger"
	"github.com/YelzhanWeb/chocoqc/internal/adapter/rabbitmq"
	"github.com/YelzhanWeb/chocoqc/internal/app/production"
	"github.com/YelzhanWeb/chocoqc/internal/app/quality"
	"github.com/YelzhanWeb/chocoqc/internal/config"
	"github.com/YelzhanWeb/chocoqc/internal/interfaces"
	"github.com/YelzhanWeb/chocoqc/internal/sensor"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	seed       uint64
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "chocoqc",
		Short:         "Chocolate production quality control",
		Long:          "chocoqc inspects molded and packaged chocolate with simulated sensors and reports quality statistics.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default config.yaml if present)")
	cmd.PersistentFlags().Uint64Var(&opts.seed, "seed", 0, "seed for the visual sensor (deterministic runs)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	cmd.AddCommand(newSimulateCmd(opts), newSubscribeCmd(opts))
	return cmd
}

// loadConfig applies flag overrides on top of the config file
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("seed") {
		seed := opts.seed
		cfg.Sensor.Seed = &seed
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

func newLogger(service string, cfg config.LogConfig) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var out io.Writer = os.Stderr
	if strings.EqualFold(cfg.Output, "stdout") {
		out = os.Stdout
	}
	return logger.New(service, logger.WithOutput(out), logger.WithLevel(level)), nil
}

// app holds the wired services for one run.
type app struct {
	cfg        *config.Config
	logger     logger.Logger
	quality    *quality.Service
	production *production.Service
	close      func()
}

func setup(cmd *cobra.Command, opts *rootOptions, service string) (*app, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	lgr, err := newLogger(service, cfg.Log)
	if err != nil {
		return nil, err
	}

	var publisher interfaces.EventPublisher = interfaces.NopPublisher{}
	closeFn := func() {}
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", map[string]interface{}{
			"host":     cfg.RabbitMQ.Host,
			"exchange": cfg.RabbitMQ.Exchange,
		})
		publisher = rabbitmq.NewPublisher(mqConn, cfg.RabbitMQ.Exchange)
		closeFn = func() { _ = mqConn.Close() }
	}

	sensorOpts := []sensor.Option{sensor.WithDetectionRate(cfg.Sensor.DetectionRate)}
	if cfg.Sensor.Seed != nil {
		sensorOpts = append(sensorOpts, sensor.WithSeed(*cfg.Sensor.Seed))
	}
	visual := sensor.NewVisualSensor(sensorOpts...)

	qc := quality.NewService(publisher, lgr)
	for _, process := range []string{production.ProcessMolding, production.ProcessPackaging} {
		if err := qc.RegisterSensor(process, visual); err != nil {
			closeFn()
			return nil, err
		}
	}

	lgr.Info("sensors_registered", "Sensors registered: molding and packaging", "startup", map[string]interface{}{
		"processes":      qc.Processes(),
		"detection_rate": cfg.Sensor.DetectionRate,
		"seeded":         cfg.Sensor.Seed != nil,
	})

	return &app{
		cfg:        cfg,
		logger:     lgr,
		quality:    qc,
		production: production.NewService(qc, lgr, cfg.Production.MoldType, cfg.Production.PackagingType),
		close:      closeFn,
	}, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runInteractive(cmd *cobra.Command, opts *rootOptions) error {
	a, err := setup(cmd, opts, "quality-control")
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Quality Control System Initialized")
	fmt.Fprintln(out, "Sensors registered: Molding and Packaging")

	menu := console.NewMenu(a.quality, a.production, a.logger, cmd.InOrStdin(), out)
	if err := menu.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(out)
			return nil
		}
		return err
	}
	return nil
}
