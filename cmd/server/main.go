package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/unclebandit/mailleopard-backend/internal/analytics"
	"github.com/unclebandit/mailleopard-backend/internal/auth"
	"github.com/unclebandit/mailleopard-backend/internal/config"
	"github.com/unclebandit/mailleopard-backend/internal/controller"
	"github.com/unclebandit/mailleopard-backend/internal/db"
	"github.com/unclebandit/mailleopard-backend/internal/model"
	"github.com/unclebandit/mailleopard-backend/internal/repository"
	"github.com/unclebandit/mailleopard-backend/internal/service"
	"github.com/unclebandit/mailleopard-backend/internal/ses"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.New()
	db.Init(cfg)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	gate := auth.NewGate(auth.NewRedisSessionStore(redisClient))

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	settingRepo := &repository.SettingRepository{DB: db.DB}
	listRepo := &repository.ListRepository{DB: db.DB}
	subsRepo := &repository.CampaignSubscriberRepository{DB: db.DB}

	reconciler := &service.Reconciler{Repo: subsRepo}
	transformer := analytics.NewTransformer(cfg.SigningKey, cfg.TrackingURL)
	sesFactory := ses.NewFactory(cfg.Production(), cfg.SandboxEndpoint, cfg.SendTimeout)

	sendService := &service.SendService{
		Gate: gate,
		Resolver: &service.Resolver{
			CampaignRepo: campaignRepo,
			SettingRepo:  settingRepo,
			Production:   cfg.Production(),
		},
		ListRepo:    listRepo,
		SubsRepo:    subsRepo,
		Reconciler:  reconciler,
		Transformer: transformer,
		NewTransport: func(ctx context.Context, setting *model.Setting) (service.Transport, error) {
			return sesFactory.New(ctx, setting)
		},
		Concurrency: cfg.SendConcurrency,
	}

	sendController := &controller.SendController{Service: sendService, SubsRepo: subsRepo}
	bounceController := &controller.BounceController{Recorder: reconciler}

	r := chi.NewRouter()

	r.Post("/campaigns/{id}/send-test", sendController.TestSend)
	r.Post("/campaigns/{id}/send", sendController.SendCampaign)
	r.Get("/campaigns/{id}/stats", sendController.Stats)
	r.Post("/webhooks/bounce", bounceController.Handle)

	log.Println("🚀 Server running on :" + cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
