package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/veedubyou/separation-be/src/shared/config/dev"
	"github.com/veedubyou/separation-be/src/shared/config/envvar"
	"github.com/veedubyou/separation-be/src/shared/job/message"
	"github.com/veedubyou/separation-be/src/shared/lib/rabbitmq"
)

func main() {
	var queueName string

	cmd := &cobra.Command{
		Use:   "sender JOB_ID",
		Short: "Queue a separate job for an existing job record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rabbitURL := envvar.Get(envvar.RABBITMQ_URL, dev.RabbitMQHost)

			publisher, err := rabbitmq.NewQueuePublisher(rabbitURL, queueName)
			if err != nil {
				return err
			}
			defer publisher.Close()

			msg, err := message.NewSeparateJob(args[0])
			if err != nil {
				return err
			}

			if err := publisher.Publish(msg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "queued %s on %s\n", args[0], queueName)
			return nil
		},
	}

	cmd.Flags().StringVar(&queueName, "queue", dev.RabbitMQQueueName, "queue to publish to")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
