package app

import (
	"context"
	"encoding/json"
	"fmt"

	"perfume_shop_service/internal/notification/domain"
	"perfume_shop_service/pkg/database"
	"perfume_shop_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// 其他子系統發布的事件類型
const (
	// EventOrderPaid 結帳子系統: 訂單付款完成
	EventOrderPaid = "order.paid"
	// EventRequestReviewed 管理後台: 開店申請審核完成
	EventRequestReviewed = "request.reviewed"
	// EventRequestSubmitted 新開店申請送出，通知所有管理員
	EventRequestSubmitted = "request.submitted"
)

// SubsystemEvent 訂單/申請子系統透過 MQ 丟進來的事件
type SubsystemEvent struct {
	Type      string `json:"type"`
	UserID    string `json:"user_id"`
	OrderID   string `json:"order_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Status    string `json:"status,omitempty"`
	Username  string `json:"username,omitempty"`
}

// AdminDirectory 查詢管理員清單，fan-out 通知用
type AdminDirectory interface {
	FindAdminIDs(ctx context.Context) ([]string, error)
}

// EventConsumer 消費子系統事件並轉成通知
// 訂單與審核事件跟訊息通知走同一個 Create 入口，在線一樣會收到即時推送
type EventConsumer struct {
	rabbit  database.RabbitRepo
	notifUC *NotificationUseCase
	admins  AdminDirectory
}

// NewEventConsumer create EventConsumer
func NewEventConsumer(rabbit database.RabbitRepo, notifUC *NotificationUseCase, admins AdminDirectory) *EventConsumer {
	return &EventConsumer{
		rabbit:  rabbit,
		notifUC: notifUC,
		admins:  admins,
	}
}

// Start 開始消費指定 queue，ctx 取消時結束
func (c *EventConsumer) Start(ctx context.Context, queue string) error {
	deliveries, err := c.rabbit.Consume(queue)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					logger.Log.Warn("event consumer channel closed", zap.String("queue", queue))
					return
				}
				c.handleDelivery(ctx, d)
			case <-ctx.Done():
				logger.Log.Info(fmt.Sprintf("%s , consumer close", queue))
				return
			}
		}
	}()
	return nil
}

func (c *EventConsumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var event SubsystemEvent
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logger.Log.Error("event unmarshal err", zap.Error(err))
		// 壞掉的 payload 重送也不會成功，直接丟棄
		d.Nack(false, false)
		return
	}

	if err := c.dispatch(ctx, event); err != nil {
		logger.Log.Error("event dispatch err",
			zap.String("type", event.Type), zap.Error(err))
		d.Nack(false, true)
		return
	}
	d.Ack(false)
}

func (c *EventConsumer) dispatch(ctx context.Context, event SubsystemEvent) error {
	switch event.Type {

	case EventOrderPaid:
		_, err := c.notifUC.Create(ctx, domain.CreateNotification{
			UserID:  event.UserID,
			Type:    domain.TypeOrder,
			Title:   "Order paid",
			Message: fmt.Sprintf("Your order %s has been paid", event.OrderID),
			Link:    "/orders/" + event.OrderID,
			Metadata: map[string]interface{}{
				"orderId": event.OrderID,
			},
		})
		return err

	case EventRequestReviewed:
		_, err := c.notifUC.Create(ctx, domain.CreateNotification{
			UserID:  event.UserID,
			Type:    domain.TypeRequestStatus,
			Title:   "Owner request reviewed",
			Message: fmt.Sprintf("Your owner request has been %s", event.Status),
			Link:    "/owner-requests/" + event.RequestID,
			Metadata: map[string]interface{}{
				"requestId": event.RequestID,
				"status":    event.Status,
			},
		})
		return err

	case EventRequestSubmitted:
		adminIDs, err := c.admins.FindAdminIDs(ctx)
		if err != nil {
			return err
		}
		_, err = c.notifUC.CreateBulk(ctx, adminIDs, domain.CreateNotification{
			Type:    domain.TypeSystem,
			Title:   "New owner request",
			Message: fmt.Sprintf("%s submitted an owner request", event.Username),
			Link:    "/admin/owner-requests/" + event.RequestID,
			Metadata: map[string]interface{}{
				"requestId": event.RequestID,
			},
		})
		return err

	default:
		logger.Log.Warn("unknown subsystem event", zap.String("type", event.Type))
		return nil
	}
}
