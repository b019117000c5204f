package integration_test

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/zoshlabs/checkout-service/internal/app"
	"github.com/zoshlabs/checkout-service/internal/domain"
	"github.com/zoshlabs/checkout-service/internal/gateway"
	"github.com/zoshlabs/checkout-service/internal/mailer"
)

type TestApp struct {
	App         *app.Application
	DB          *pgxpool.Pool
	RedisClient redis.UniversalClient
	Mailer      *mailer.MockMailer
	Razorpay    *gateway.MockGateway
	Stripe      *gateway.MockGateway
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	mockMailer := mailer.NewMockMailer()
	razorpay := gateway.NewMockGateway("INR")
	stripe := gateway.NewMockGateway("USD")

	application, err := app.New(cfg,
		app.WithMailer(mockMailer),
		app.WithPaymentGateway(domain.PaymentMethodRazorpay, razorpay),
		app.WithPaymentGateway(domain.PaymentMethodStripe, stripe),
	)
	if err != nil {
		return nil, err
	}

	// separate pool for seeding and assertions
	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &TestApp{
		App:         application,
		DB:          db,
		RedisClient: redisClient,
		Mailer:      mockMailer,
		Razorpay:    razorpay,
		Stripe:      stripe,
	}, nil
}
