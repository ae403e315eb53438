package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront-sync/internal/config"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/streadway/amqp"
)

// NewHealthHandler reports on the order store, the cache and, when an event
// broker is configured, RabbitMQ. The broker is optional so its check never
// fails the whole report.
func NewHealthHandler(cfg *config.Config, version string) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if cfg.RabbitMQ.URL != "" {
		checks = append(checks, health.Config{
			Name:      "rabbitmq",
			Timeout:   3 * time.Second,
			SkipOnErr: true,
			Check:     rabbitMQCheck(cfg.RabbitMQ.URL),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

func rabbitMQCheck(url string) health.CheckFunc {
	return func(ctx context.Context) error {

		type result struct {
			conn *amqp.Connection
			err  error
		}

		done := make(chan result, 1)

		go func() {
			conn, err := amqp.Dial(url)
			done <- result{conn: conn, err: err}
		}()

		select {
		case <-ctx.Done():
			return fmt.Errorf("rabbitmq check timed out: %w", ctx.Err())
		case res := <-done:
			if res.err != nil {
				return fmt.Errorf("failed to connect to rabbitmq: %w", res.err)
			}
			return res.conn.Close()
		}
	}
}
