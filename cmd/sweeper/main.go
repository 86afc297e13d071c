package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"catering/internal/config"
	"catering/internal/infra/db"
	"catering/internal/infra/document"
	"catering/internal/infra/notification"
	infraRepo "catering/internal/infra/repository"
	"catering/internal/usecase"
	"catering/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// 定期スキャンをAPIと別プロセスで回す。
// どのスイープも冪等なので、多重起動やAPI側との競合は安全側に倒れる。
func main() {
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

	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}

	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	itemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	storeRepo := infraRepo.NewStoreGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	alimtalk := notification.NewAlimtalkClient(cfg.NotifyAPIURL, cfg.NotifyAPIKey)
	outbox := notification.NewOutbox(rdb, alimtalk, log)
	go outbox.Run(ctx)

	renderer := document.NewHTTPRenderer(cfg.RendererURL)
	blobs := document.NewFSBlobStore(cfg.BlobDir, cfg.BlobBaseURL)

	cancelUC := usecase.NewCancelUsecase(orderRepo, itemRepo, storeRepo, auditRepo, renderer, blobs, outbox, log)
	sweeperUC := usecase.NewSweeperUsecase(orderRepo, itemRepo, storeRepo, cancelUC, outbox, log)

	//スイーパー自身のメトリクス口
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		if err := http.ListenAndServe(":9102", mux); err != nil {
			log.Errorf(ctx, "metrics listener stopped: %v", err)
		}
	}()

	log.Infof(ctx, "sweeper started: interval=%s", cfg.SweepInterval)

	//起動直後に一度回してからtickerへ
	runAll(ctx, sweeperUC)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Infof(context.Background(), "sweeper stopping")
			return
		case <-ticker.C:
			runAll(ctx, sweeperUC)
		}
	}
}

func runAll(ctx context.Context, uc *usecase.SweeperUsecase) {
	now := time.Now()
	uc.AutoCancelExpired(ctx, now)
	uc.DeliveryReminder(ctx, now)
	uc.PostDeliveryFollowUp(ctx, now)
}
