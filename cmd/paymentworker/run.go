// cmd/paymentworker/run.go
package paymentworker

import (
	"context"

	"go.uber.org/zap"

	"github.com/abekenza/order-service/internal/app/orderservice"
	"github.com/abekenza/order-service/internal/app/paymentworker"
	"github.com/abekenza/order-service/internal/shared/config"
	"github.com/abekenza/order-service/internal/shared/kafka"
	"github.com/abekenza/order-service/internal/shared/logger"
	pg "github.com/abekenza/order-service/internal/shared/postgres"
	"github.com/abekenza/order-service/internal/userclient"
)

// Run wires the payment outcome consumer and blocks until ctx is cancelled.
func Run(ctx context.Context) error {
	log, err := logger.New("payment-worker")
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		return err
	}

	// set up a Postgres connection pool
	pool, err := pg.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to initialize Postgres pool", zap.Error(err))
		return err
	}
	defer pool.Close()

	// the order service is wired with the same collaborators as in API mode;
	// only ApplyPaymentOutcome is exercised here
	kc := kafka.NewClient(cfg.Kafka.Brokers)
	writer := kc.NewWriter(cfg.Kafka.OrdersTopic)
	defer writer.Close()

	uow := pg.NewUnitOfWork(pool)
	itemRepo := pg.NewItemsRepo(pool)
	orderRepo := pg.NewOrdersRepo(pool)
	users := userclient.New(cfg.UserService.BaseURL, log)
	orderSvc := orderservice.New(uow, orderRepo, itemRepo, users, kafka.NewPaymentPublisher(writer), log)

	reader := kc.NewReader(cfg.Kafka.PaymentsTopic, cfg.Kafka.GroupID)
	defer reader.Close()

	log.Info("payment worker started",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.PaymentsTopic),
		zap.String("group_id", cfg.Kafka.GroupID),
	)

	paymentworker.NewConsumer(reader, orderSvc, log).ConsumeForever(ctx)
	return nil
}
