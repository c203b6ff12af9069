package main

import (
	"context"
	"errors"
	"fmt"

	amqpAdapter "github.com/YelzhanWeb/chocoqc/internal/adapter/amqp"
	"github.com/YelzhanWeb/chocoqc/internal/adapter/rabbitmq"
	"github.com/spf13/cobra"
)

func newSubscribeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Print inspection results published by other chocoqc processes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			lgr, err := newLogger("notification-subscriber", cfg.Log)
			if err != nil {
				return err
			}

			mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
			if err != nil {
				return err
			}
			defer mqConn.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			handler := amqpAdapter.NewNotificationHandler(lgr, cmd.OutOrStdout())
			consumer := rabbitmq.NewConsumer(mqConn, cfg.RabbitMQ.Exchange, lgr)

			lgr.Info("service_started", "Notification subscriber started", "startup", map[string]interface{}{
				"exchange": cfg.RabbitMQ.Exchange,
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "Listening for inspection results on %s...\n", cfg.RabbitMQ.Exchange)

			err = consumer.ConsumeInspections(ctx, handler.HandleInspection)
			if errors.Is(err, context.Canceled) {
				lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "shutdown", nil)
				return nil
			}
			return err
		},
	}
}
