package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catering/internal/config"
	"catering/internal/domain/model"
	"catering/internal/handler"
	"catering/internal/infra/db"
	"catering/internal/infra/document"
	"catering/internal/infra/notification"
	"catering/internal/infra/payment"
	infraRepo "catering/internal/infra/repository"
	"catering/internal/server"
	"catering/internal/usecase"
	"catering/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	//.envは無ければ無いでよい（本番は実環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&model.Store{},
		&model.User{},
		&model.AuditLog{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	itemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//通知はRedis outbox経由。Redisが落ちていれば直接送信にフォールバック
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	alimtalk := notification.NewAlimtalkClient(cfg.NotifyAPIURL, cfg.NotifyAPIKey)
	outbox := notification.NewOutbox(rdb, alimtalk, log)
	go outbox.Run(ctx)

	//外部コラボレータ
	toss := payment.NewTossClient(cfg.TossBaseURL)
	renderer := document.NewHTTPRenderer(cfg.RendererURL)
	blobs := document.NewFSBlobStore(cfg.BlobDir, cfg.BlobBaseURL)

	//Usecase生成
	cancelUC := usecase.NewCancelUsecase(orderRepo, itemRepo, storeRepo, auditRepo, renderer, blobs, outbox, log)
	orderUC := usecase.NewOrderUsecase(txManager, cancelUC, outbox, log)
	managerUC := usecase.NewManagerOrderUsecase(orderRepo, itemRepo, storeRepo, auditRepo, cancelUC, outbox, log)
	paymentUC := usecase.NewPaymentUsecase(orderRepo, itemRepo, storeRepo, auditRepo, toss, outbox, cfg, log)
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	orderH := handler.NewOrderHandler(orderUC)
	managerH := handler.NewManagerOrderHandler(managerUC)
	paymentH := handler.NewPaymentHandler(paymentUC)

	e := server.New(cfg, authH, orderH, managerH, paymentH)

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	go func() {
		if err := server.Start(e, addr); err != nil {
			log.Errorf(ctx, "server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx, e); err != nil {
		log.Errorf(shutdownCtx, "shutdown: %v", err)
		os.Exit(1)
	}
}
