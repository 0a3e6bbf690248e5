package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	httpadp "lending-ledger/internal/adapter/http"
	"lending-ledger/internal/adapter/middleware"
	"lending-ledger/internal/adapter/repository/mysql"
	"lending-ledger/internal/config"
	invDomain "lending-ledger/internal/domain/investment"
	loanDomain "lending-ledger/internal/domain/loan"
	userDomain "lending-ledger/internal/domain/user"
	"lending-ledger/internal/infrastructure/cache"
	"lending-ledger/internal/infrastructure/db"
	"lending-ledger/internal/usecase/funding"
	"lending-ledger/internal/usecase/loan"
	"lending-ledger/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("config")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logrus.WithError(err).Fatal("mysql")
	}
	if err := gdb.AutoMigrate(
		&userDomain.User{},
		&invDomain.Investment{},
		&invDomain.Application{},
		&invDomain.InvestmentInvestor{},
		&loanDomain.Loan{},
		&loanDomain.Installment{},
	); err != nil {
		logrus.WithError(err).Fatal("migrate")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logrus.WithError(err).Fatal("redis")
	}

	uow := mysql.NewGormUoW(gdb)
	fundingUC := funding.NewUsecase(uow)
	loanUC := loan.NewUsecase(uow)
	paymentUC := payment.NewUsecase(uow)

	h := httpadp.NewHandler()
	fh := httpadp.NewFundingHandler(fundingUC)
	lh := httpadp.NewLoanHandler(loanUC)
	ph := httpadp.NewPaymentHandler(paymentUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	idemp := middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	inv := e.Group("/investments", idemp)
	inv.POST("", fh.CreateInvestment)
	inv.GET("/:investment_id", fh.GetInvestment)
	inv.PATCH("/:investment_id", fh.UpdateInvestmentStatus)
	inv.POST("/:investment_id/applications", fh.Fund)
	inv.GET("/:investment_id/applications", fh.ListApplications)

	loans := e.Group("/loans", idemp)
	loans.POST("", lh.CreateLoan)
	loans.GET("", lh.ListLoans)
	loans.GET("/:loan_id", lh.GetLoan)
	loans.PATCH("/:loan_id", lh.UpdateLoan)
	loans.DELETE("/:loan_id", lh.DeleteLoan)

	insts := e.Group("/installments", idemp)
	insts.POST("/:installment_id/payment", ph.MarkPaid)
	insts.POST("/:installment_id/penalty", ph.AssessPenalty)
	insts.POST("/overdue-sweep", ph.FlagOverdue)

	addr := ":" + cfg.AppPort
	logrus.WithField("addr", addr).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server")
	}
}
