package main

import (
	"net/http"
	"os"
	"time"

	"pos/internal/config"
	"pos/internal/handler"
	"pos/internal/infra/bridge"
	"pos/internal/infra/cache"
	"pos/internal/infra/db"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/logging"
	repo "pos/internal/repository"
	"pos/internal/server"
	"pos/internal/usecase"
	auth "pos/internal/usecase/auth_usecase"
	"pos/internal/view"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envは無くてもよい（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.Init("pos", cfg.LogFile)

	// 伝票サーバーは数値をJSONの数値で受け取る
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		panic(err)
	}

	//Repository生成
	operatorRepo := infraRepo.NewOperatorGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	var sessionRepo repo.SessionRepository
	switch cfg.SessionStore {
	case "memory":
		sessionRepo = infraRepo.NewSessionMemoryRepository()
	default:
		sessionRepo = infraRepo.NewSessionGormRepository(gormDB)
	}

	//検索キャッシュ（REDIS_ADDRがあるときだけ）
	var searchCache usecase.SearchCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		searchCache = cache.NewRedisSearchCache(rdb, cfg.SearchCacheTTL)
	}

	//伝票サーバー
	docServer := bridge.NewClient(cfg.DocumentServerURL, &http.Client{}, cfg.DocumentServerTimeout)

	renderer, err := view.NewRenderer()
	if err != nil {
		panic(err)
	}

	//Usecase生成
	clock := &realClock{}
	loginUC := auth.NewLoginUsecase(
		operatorRepo,
		auth.NewBcryptPINVerifier(),
		auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTL),
		clock,
	)
	posUC := usecase.NewPosUsecase(sessionRepo, auditRepo, docServer, searchCache, renderer, cfg.CashPaymentMethod)

	//Handler生成
	deps := server.Deps{
		Logger:    log,
		Renderer:  renderer,
		JWTSecret: cfg.JWTSecret,
		Operators: operatorRepo,
		AuthH:     handler.NewAuthHandler(loginUC),
		PosH:      handler.NewPosHandler(posUC),
	}

	//Server起動
	log.Info("server starting", "addr", cfg.Addr(), "env", cfg.GoEnv, "session_store", cfg.SessionStore)
	if err := server.Start(cfg.Addr(), deps); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
