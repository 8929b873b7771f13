package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// PubSub 個人廣播群組與全體廣播的 fan-out 介面
// 透過 redis pub/sub 讓推送跨節點也能送達持有連線的那台
type PubSub interface {
	Publish(ctx context.Context, channel string, event domain.WSEvent) error
	Subscribe(ctx context.Context, channel string, handler func(event domain.WSEvent)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish 將 event 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(ctx context.Context, channel string, event domain.WSEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// Subscribe 訂閱 channel，收到訊息後呼叫 handler 處理
// ctx 取消時關閉訂閱
func (r *RedisPubSub) Subscribe(ctx context.Context, channel string, handler func(event domain.WSEvent)) error {
	sub := r.client.Subscribe(ctx, channel)
	go func() {
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var event domain.WSEvent
				if err := json.Unmarshal([]byte(m.Payload), &event); err != nil {
					logger.Log.Error("pubsub unmarshal err", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(event)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , sub close", channel))
				sub.Close()
				return
			}
		}
	}()
	return nil
}
