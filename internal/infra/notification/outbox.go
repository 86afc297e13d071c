package notification

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"catering/internal/metrics"
	"catering/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const queueKey = "notification:outbox"

// 送信の実体。AlimtalkClientが満たす。
type Sender interface {
	Send(ctx context.Context, templateID string, recipient string, params map[string]string) error
}

type message struct {
	TemplateID string            `json:"template_id"`
	Recipient  string            `json:"recipient"`
	Params     map[string]string `json:"params"`
}

// Outboxは状態遷移の永続化と通知配送を切り離す。
// Sendはredisに積むだけで戻る。redisが落ちていれば直接送信に
// フォールバックする（どちらにしても呼び出し側の遷移は失敗しない）。
type Outbox struct {
	rdb    *redis.Client
	sender Sender
	log    logger.Logger
}

func NewOutbox(rdb *redis.Client, sender Sender, log logger.Logger) *Outbox {
	return &Outbox{rdb: rdb, sender: sender, log: log}
}

func (o *Outbox) Send(ctx context.Context, templateID string, recipient string, params map[string]string) error {
	b, err := json.Marshal(message{TemplateID: templateID, Recipient: recipient, Params: params})
	if err != nil {
		return err
	}

	if err := o.rdb.LPush(ctx, queueKey, b).Err(); err != nil {
		o.log.Warnf(ctx, "outbox enqueue failed, sending direct: %v", err)
		if derr := o.sender.Send(ctx, templateID, recipient, params); derr != nil {
			metrics.NotificationFailed.Inc()
			return derr
		}
		return nil
	}
	return nil
}

// Runはworkerループ。ctxが閉じるまでBRPOPし続ける。
// 送信失敗はログのみ（at-least-once attempted、再投入しない）。
func (o *Outbox) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res, err := o.rdb.BRPop(ctx, 5*time.Second, queueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			o.log.Warnf(ctx, "outbox pop failed: %v", err)
			time.Sleep(time.Second)
			continue
		}
		if len(res) != 2 {
			continue
		}

		var m message
		if err := json.Unmarshal([]byte(res[1]), &m); err != nil {
			o.log.Errorf(ctx, "outbox message corrupted: %v", err)
			continue
		}

		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := o.sender.Send(sendCtx, m.TemplateID, m.Recipient, m.Params); err != nil {
			metrics.NotificationFailed.Inc()
			o.log.Warnf(ctx, "notification send failed (template=%s to=%s): %v", m.TemplateID, m.Recipient, err)
		}
		cancel()
	}
}
