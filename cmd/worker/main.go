package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/unclebandit/mailleopard-backend/internal/config"
	"github.com/unclebandit/mailleopard-backend/internal/db"
	"github.com/unclebandit/mailleopard-backend/internal/queue"
	"github.com/unclebandit/mailleopard-backend/internal/repository"
	"github.com/unclebandit/mailleopard-backend/internal/service"
)

// The worker drains the transport's asynchronous bounce callbacks from the
// bounce_events queue and reconciles them into campaign_subscriber rows. It
// runs alongside the server and touches no campaign or credential state.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg := config.New()
	db.Init(cfg)

	reconciler := &service.Reconciler{
		Repo: &repository.CampaignSubscriberRepository{DB: db.DB},
	}

	consumer := queue.NewBounceConsumer(cfg.AMQPURL, reconciler)
	if err := consumer.Run(); err != nil {
		log.Fatal("bounce consumer stopped:", err)
	}
}
