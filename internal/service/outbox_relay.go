package service

import (
	"context"
	"log"
	"time"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/pkg"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/repository/mysql"
)

const (
	relayBatchSize = 100
	relayInterval  = 5 * time.Second
)

// EventSender 投递出站事件；pkg.KafkaProducer 实现
type EventSender interface {
	Send(ctx context.Context, key string, value []byte) error
}

// OutboxRelay 把 application_outbox 里的待发事件批量投到 kafka。
// 业务事务只写表；这里异步投递，至少一次语义，消费端按 application_id 幂等。
type OutboxRelay struct {
	outbox   *mysql.OutboxRepository
	producer EventSender
}

func NewOutboxRelay(producer EventSender) *OutboxRelay {
	return &OutboxRelay{
		outbox:   &mysql.OutboxRepository{DB: mysql.DB},
		producer: producer,
	}
}

var _ EventSender = (*pkg.KafkaProducer)(nil)

// DrainOnce 投一批；单条失败只标记失败，不阻塞后面的
func (r *OutboxRelay) DrainOnce(ctx context.Context) (int, error) {
	rows, err := r.outbox.ListPending(ctx, relayBatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range rows {
		row := &rows[i]
		key := pkg.MakeKeyFromID(row.ApplicationID)
		if err := r.producer.Send(ctx, key, []byte(row.Payload)); err != nil {
			log.Printf("outbox: send %d (%s) failed: %v", row.ID, row.EventType, err)
			if err := r.outbox.MarkFailed(ctx, row.ID); err != nil {
				log.Printf("outbox: mark failed %d: %v", row.ID, err)
			}
			continue
		}
		if err := r.outbox.MarkSent(ctx, row.ID); err != nil {
			log.Printf("outbox: mark sent %d: %v", row.ID, err)
			continue
		}
		sent++
	}
	return sent, nil
}

// Run 固定间隔轮询，ctx 取消后退出
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(relayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.DrainOnce(ctx); err != nil {
				log.Printf("outbox: drain failed: %v", err)
			}
		}
	}
}
