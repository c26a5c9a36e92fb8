package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

const BorrowEventsTopic = "library.borrow-events"

// EventBorrow is the audit message published after a borrow commits.
type EventBorrow struct {
	BorrowUid  string    `json:"borrowUid"`
	BookID     int64     `json:"bookId"`
	UserID     int64     `json:"userId"`
	BorrowedAt time.Time `json:"borrowedAt"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
