package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/zoshlabs/checkout-service/internal/domain"
	"github.com/zoshlabs/checkout-service/internal/gateway"
	"github.com/zoshlabs/checkout-service/internal/mailer"
	"github.com/zoshlabs/checkout-service/internal/payment"
	"github.com/zoshlabs/checkout-service/internal/repository"
	appvalidator "github.com/zoshlabs/checkout-service/internal/validator"
	"github.com/zoshlabs/checkout-service/internal/vcs"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	db             *pgxpool.Pool
	redis          redis.UniversalClient
	validator      *validator.Validate
	mailer         mailer.Mailer
	sessionManager *scs.SessionManager

	userRepo         domain.UserRepository
	cartRepo         domain.CartRepository
	orderRepo        domain.OrderRepository
	paymentOrderRepo domain.PaymentOrderRepository

	gateways map[domain.PaymentMethod]domain.PaymentGateway
	payments *payment.Service
}

type Config struct {
	Port             int
	Env              string
	OtelCollectorUrl string

	DB       DBConfig
	Redis    RedisConfig
	SMTP     SMTPConfig
	Stripe   StripeConfig
	Razorpay RazorpayConfig

	// GatewayTimeout bounds every outbound call to a payment provider so a
	// slow provider cannot hang a request indefinitely.
	GatewayTimeout time.Duration
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// Option overrides a collaborator after the default wiring, mainly so tests
// can swap in fakes for the payment gateways and the mailer.
type Option func(*Application)

func WithPaymentGateway(method domain.PaymentMethod, gw domain.PaymentGateway) Option {
	return func(app *Application) {
		app.gateways[method] = gw
	}
}

func WithMailer(m mailer.Mailer) Option {
	return func(app *Application) {
		app.mailer = m
	}
}

func Run() error {
	var cfg Config

	flag.IntVar(&cfg.Port, "port", 3000, "server port")
	flag.StringVar(&cfg.Env, "env", "dev", "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", "", "OpenTelemetry collector URL")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", "", "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")

	flag.StringVar(&cfg.Redis.URL, "redis-url", "", "Redis URL")
	flag.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", 25, "Redis max open connections")
	flag.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", 10, "Redis max idle connections")
	flag.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", 2*time.Minute, "Redis max idle time for connections")

	flag.StringVar(&cfg.SMTP.Host, "smtp-host", "sandbox.smtp.mailtrap.io", "SMTP host")
	flag.IntVar(&cfg.SMTP.Port, "smtp-port", 2525, "SMTP port")
	flag.StringVar(&cfg.SMTP.Username, "smtp-username", "", "SMTP username")
	flag.StringVar(&cfg.SMTP.Password, "smtp-password", "", "SMTP password")
	flag.StringVar(&cfg.SMTP.Sender, "smtp-sender", "Zosh Bazaar <no-reply@zoshbazaar.com>", "SMTP sender")

	flag.StringVar(&cfg.Stripe.SecretKey, "stripe-key", "", "Stripe secret key")
	flag.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", "", "Stripe webhook secret")
	flag.StringVar(&cfg.Stripe.SuccessURL, "stripe-success-url", "http://localhost:3000/payment-success", "Stripe payment success page")
	flag.StringVar(&cfg.Stripe.CancelURL, "stripe-cancel-url", "http://localhost:3000/payment/cancel", "Stripe payment cancel page")

	flag.StringVar(&cfg.Razorpay.KeyID, "razorpay-key", "", "Razorpay key id")
	flag.StringVar(&cfg.Razorpay.KeySecret, "razorpay-secret", "", "Razorpay key secret")

	flag.DurationVar(&cfg.GatewayTimeout, "gateway-timeout", 10*time.Second, "Payment gateway request timeout")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app, err := New(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	return app.serve()
}

func New(cfg Config, opts ...Option) (*Application, error) {
	logger := newLogger(cfg)

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	app := &Application{
		config:         cfg,
		logger:         logger,
		db:             db,
		redis:          redisClient,
		validator:      appvalidator.NewValidator(),
		mailer:         mailer.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Sender),
		sessionManager: NewSessionManager(redisClient),

		userRepo:         repository.NewPostgresUserRepository(db),
		cartRepo:         repository.NewRedisCartRepository(redisClient),
		orderRepo:        repository.NewPostgresOrderRepository(db),
		paymentOrderRepo: repository.NewPostgresPaymentOrderRepository(db),

		gateways: map[domain.PaymentMethod]domain.PaymentGateway{
			domain.PaymentMethodRazorpay: gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.GatewayTimeout),
			domain.PaymentMethodStripe:   gateway.NewStripeGateway(cfg.Stripe.SecretKey, cfg.GatewayTimeout),
		},
	}

	for _, opt := range opts {
		opt(app)
	}

	app.payments = payment.NewService(logger, app.paymentOrderRepo, app.userRepo, app.gateways, app.mailer)

	return app, nil
}

func (app *Application) Close() {
	app.redis.Close()
	app.db.Close()
}

func newLogger(cfg Config) *slog.Logger {
	textHandler := slog.NewTextHandler(os.Stdout, nil)

	if cfg.OtelCollectorUrl == "" {
		return slog.New(textHandler)
	}

	return slog.New(NewMultiHandler(textHandler, newOtelLogHandler()))
}

func NewSessionManager(client redis.UniversalClient) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client.(*redis.Client))
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (redis.UniversalClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
		}

		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)

	r.Use(middleware.RequestID)
	r.Use(otelchi.Middleware("checkout-api", otelchi.WithChiRoutes(r)))
	r.Use(app.requestLogger)
	r.Use(app.recoverPanic)
	r.Use(app.sessionManager.LoadAndSave)

	r.Get("/health", app.GetHealth)

	r.Post("/auth/login", app.LoginHandler)
	r.Post("/auth/logout", app.LogoutHandler)

	// provider-authenticated via signature, not session
	r.Post("/webhooks/stripe", app.StripeWebhookHandler)

	r.With(app.requireAuthentication).Route("/orders", func(r chi.Router) {
		r.Post("/", app.CreateOrderHandler)
		r.Get("/", app.GetOrdersHandler)
		r.Get("/item/{orderItemId}", app.GetOrderItemHandler)
		r.Get("/{orderId}", app.GetOrderHandler)
		r.Put("/{orderId}/cancel", app.CancelOrderHandler)
	})

	r.With(app.requireAuthentication).Post("/payments/confirm", app.ConfirmPaymentHandler)
	r.With(app.requireAuthentication).Get("/payment-orders/{paymentOrderId}", app.GetPaymentOrderHandler)

	return r
}
