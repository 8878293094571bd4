package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"medmarket/internal/api"
	"medmarket/internal/auth"
	"medmarket/internal/config"
	"medmarket/internal/repository"
	"medmarket/internal/service"
	"medmarket/migrations"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				logger.Info().Msg("connected to database")
				return db, nil
			}
		}
		logger.Warn().Err(err).Int("attempt", i+1).Msg("database not ready, retrying")
		time.Sleep(3 * time.Second)
	}
	return nil, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := migrations.AutoMigrate(db, 3); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderEventTopic)

	users := repository.NewMySQLUserRepository(db)
	addresses := repository.NewMySQLAddressRepository(db)
	medicines := repository.NewMySQLMedicineRepository(db)
	carts := repository.NewMySQLCartRepository(db)
	orders := repository.NewMySQLOrderRepository(db)
	feedback := repository.NewMySQLFeedbackRepository(db)
	tx := repository.NewMySQLTxManager(db)

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)

	authService := service.NewAuthService(users, codec)
	userService := service.NewUserService(users, addresses)
	medicineService := service.NewMedicineService(medicines, rdb)
	cartService := service.NewCartService(carts, medicines)
	checkoutService := service.NewCheckoutService(orders, carts, addresses, medicines, tx, kafkaWriter, rdb)
	feedbackService := service.NewFeedbackService(feedback, medicines, orders)

	h := api.Handlers{
		Auth:     api.NewAuthHandler(authService),
		User:     api.NewUserHandler(userService),
		Medicine: api.NewMedicineHandler(medicineService),
		Cart:     api.NewCartHandler(cartService),
		Order:    api.NewOrderHandler(checkoutService),
		Feedback: api.NewFeedbackHandler(feedbackService),
	}
	m := api.NewMiddleware(codec)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(api.StoreTimeout(cfg.StoreTimeout))

	api.Register(e, h, m)

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
