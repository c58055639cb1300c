package main

import (
	"context"
	"log"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/model"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/pkg"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/mysql"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/redis"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/router"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"
)

func main() {
	cfg := config.Load()
	pkg.AccessSecret = []byte(cfg.JWT.AccessSecret)

	if err := mysql.InitDB(cfg.MySQL.DSN()); err != nil {
		log.Fatalf("mysql init failed: %v", err)
	}
	if err := mysql.DB.AutoMigrate(
		&model.CrewJob{},
		&model.JobApplication{},
		&model.ApplicationOutbox{},
	); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	if err := redis.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Fatalf("redis init failed: %v", err)
	}
	defer redis.Close()

	// outbox relay：没配 kafka 就不起，事件留在表里
	if len(cfg.Kafka.Brokers) > 0 {
		producer := pkg.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		relay := service.NewOutboxRelay(producer)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go relay.Run(ctx)
	}

	r := router.InitRouter(cfg)
	if err := r.Run(cfg.Server.Addr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
