package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shaiso/Wildfire/internal/mq"
)

// NewInjectCmd создаёт команду публикации тестового SDR-уведомления.
//
// Smoke-тест развёрнутой системы: сообщение уходит в обменник SDR
// тем же путём, что и уведомления сегментатора, и runner обрабатывает
// его как настоящую гранулу.
func NewInjectCmd(outputFn func() *Output) *cobra.Command {
	var topic string
	var platform string
	var sensor string
	var orbit int64

	cmd := &cobra.Command{
		Use:   "inject SDR_FILE...",
		Short: "Publish a test SDR dataset notification",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			conn, err := mq.NewConnection(mq.URLFromEnv(), logger)
			if err != nil {
				return fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			defer conn.Close()

			hostname, _ := os.Hostname()

			dataset := make([]map[string]any, 0, len(args))
			for _, file := range args {
				abs, err := filepath.Abs(file)
				if err != nil {
					return fmt.Errorf("resolve %s: %w", file, err)
				}
				dataset = append(dataset, map[string]any{
					"uri": "ssh://" + hostname + abs,
					"uid": filepath.Base(abs),
				})
			}

			data := map[string]any{
				"platform_name": platform,
				"sensor":        sensor,
				"orbit_number":  orbit,
				"dataset":       dataset,
			}

			publisher := mq.NewPublisher(conn, logger)
			if err := publisher.PublishSDR(cmd.Context(), topic, data); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Published %d SDR file(s) to %s", len(dataset), topic))
			return nil
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "/segment/SDR/1B", "posttroll topic of the notification")
	cmd.Flags().StringVar(&platform, "platform", "Suomi-NPP", "platform_name (Suomi-NPP, NOAA-20, NOAA-21)")
	cmd.Flags().StringVar(&sensor, "sensor", "viirs", "sensor name")
	cmd.Flags().Int64Var(&orbit, "orbit", 0, "orbit_number")

	return cmd
}
