package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"qloan-backend/internal/adapter/gateway/bank"
	httpadp "qloan-backend/internal/adapter/http"
	mw "qloan-backend/internal/adapter/middleware"
	"qloan-backend/internal/adapter/notify"
	"qloan-backend/internal/adapter/repository/mysql"
	"qloan-backend/internal/config"
	orderDomain "qloan-backend/internal/domain/order"
	ratingDomain "qloan-backend/internal/domain/rating"
	scheduleDomain "qloan-backend/internal/domain/schedule"
	"qloan-backend/internal/infrastructure/cache"
	"qloan-backend/internal/infrastructure/db"
	"qloan-backend/internal/usecase/matching"
	orderUC "qloan-backend/internal/usecase/order"
	ratingUC "qloan-backend/internal/usecase/rating"
	scheduleUC "qloan-backend/internal/usecase/schedule"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(
		&orderDomain.BorrowerOrder{},
		&orderDomain.LenderOrder{},
		&orderDomain.Commitment{},
		&orderDomain.Transition{},
		&scheduleDomain.PaymentSchedule{},
		&scheduleDomain.Installment{},
		&ratingDomain.Record{},
		&ratingDomain.SettlementEvent{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	borrowers := mysql.NewBorrowerRepository(gdb)
	lenders := mysql.NewLenderRepository(gdb)
	transitions := mysql.NewTransitionRepository(gdb)
	schedules := mysql.NewScheduleRepository(gdb)
	ratings := mysql.NewRatingRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	sink := notify.NewRedisSink(rdb)
	gateway := bank.NewClient(cfg.BankBaseURL, rdb, time.Duration(cfg.BankSessionTTLSecs)*time.Second)

	ratingSvc := ratingUC.NewUsecase(ratings, sink)
	orderSvc := orderUC.NewUsecase(borrowers, lenders, transitions, ratingSvc, uow)
	matchSvc := matching.NewUsecase(uow, gateway, ratingSvc, ratingSvc, sink)
	scheduleSvc := scheduleUC.NewUsecase(borrowers, schedules)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper := matching.NewSweeper(matchSvc, borrowers,
		time.Duration(cfg.SweepIntervalSecs)*time.Second,
		time.Duration(cfg.OrderTTLHours)*time.Hour)
	go sweeper.Run(ctx)

	h := httpadp.NewHealthHandler(gdb, rdb)
	oh := httpadp.NewOrderHandler(orderSvc)
	mh := httpadp.NewMatchingHandler(matchSvc, scheduleSvc)
	rh := httpadp.NewRatingHandler(ratingSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())
	e.Use(mw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)
	e.GET("/ready", h.Ready)
	e.POST("/orders/borrower", oh.SubmitBorrower)
	e.POST("/orders/lender", oh.SubmitLender)
	e.GET("/orders/borrower", oh.ListBorrowers)
	e.GET("/orders/lender", oh.ListLenders)
	e.GET("/orders/borrower/:order_id", oh.GetBorrower)
	e.DELETE("/orders/borrower/:order_id", oh.CancelBorrower)
	e.DELETE("/orders/lender/:order_id", oh.CancelLender)
	e.POST("/orders/borrower/:order_id/match", mh.Match)
	e.POST("/orders/borrower/:order_id/settlement", mh.Settle)
	e.GET("/orders/borrower/:order_id/schedule", mh.GetSchedule)
	e.GET("/ratings/:party_id", rh.GetRating)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
