package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"

	"spirit-hunts/internal/booking"
	"spirit-hunts/internal/config"
	"spirit-hunts/internal/kafka"
	"spirit-hunts/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println(".env file not found, using environment variables")
	}

	log := logger.NewLogger("spirit-hunts-followup")
	defer log.Close()

	cfg := config.Load()
	if !cfg.Kafka.Enabled {
		log.Fatal("CONFIG", "KAFKA_ENABLED is false, nothing to consume")
	}

	if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, []string{cfg.Kafka.Topics.BookingCreated}, log); err != nil {
		log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	}

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topics.BookingCreated, cfg.Kafka.GroupID, log)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("APP", fmt.Sprintf("Waiting for bookings on %s", cfg.Kafka.Topics.BookingCreated))
	err := consumer.Start(ctx, func(_ context.Context, msg kafkago.Message) error {
		task, err := booking.ParseFollowUp(msg.Value)
		if err != nil {
			return err
		}
		log.Info("FOLLOWUP", task.String())
		return nil
	})
	if err != nil {
		log.Fatal("KAFKA", err.Error())
	}
	log.Info("APP", "Follow-up worker stopped")
}
