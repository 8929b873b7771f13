package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"perfume_shop_service/internal/chat/domain"
	"perfume_shop_service/internal/chat/repository"
	napp "perfume_shop_service/internal/notification/app"
	"perfume_shop_service/pkg/logger"
	"perfume_shop_service/pkg/middlewares"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pingInterval keepalive 週期，純 liveness 訊號，不追蹤回應
const pingInterval = 30 * time.Second

// connWriter 序列化對單一連線的寫入
// 訂閱 goroutine、ping goroutine 與 read loop 會同時寫同一條連線
type connWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *connWriter) Send(event domain.WSEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorf("marshal event error:", err)
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		logger.Log.Errorf("write message error:", err)
	}
}

// ChatWebsocketHandler 可包含所有需要的 UseCase
type ChatWebsocketHandler struct {
	messageUC *MessageUseCase
	notifUC   *napp.NotificationUseCase
	userRepo  repository.UserRepository
	presence  PresenceRegistry
	pubsub    repository.PubSub
}

// NewChatWebsocketHandler create ChatWebsocketHandler
func NewChatWebsocketHandler(
	messageUC *MessageUseCase,
	notifUC *napp.NotificationUseCase,
	userRepo repository.UserRepository,
	presence PresenceRegistry,
	pubsub repository.PubSub,
) *ChatWebsocketHandler {
	return &ChatWebsocketHandler{
		messageUC: messageUC,
		notifUC:   notifUC,
		userRepo:  userRepo,
		presence:  presence,
		pubsub:    pubsub,
	}
}

// HandleConnection 是 WebSocket 連線的進入點
// 身分驗證失敗直接關閉連線，不允許半驗證狀態下註冊任何 handler
func (h *ChatWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	tokenUser, _ := conn.Locals(middlewares.TokenUserID).(string)

	// token 的 subject 必須對應到實際存在的使用者
	user, err := h.userRepo.FindByID(ctx, tokenUser)
	if err != nil {
		logger.Log.Warn("websocket auth reject", zap.String("userID", tokenUser), zap.Error(err))
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "authentication error"))
		conn.Close()
		return
	}

	// 連線存續期間不可變的身分
	socketUser := &domain.SocketUser{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Avatar:   user.Avatar,
	}
	connID := uuid.New().String()
	writer := &connWriter{conn: conn}

	logger.Log.Info("websocket connected",
		zap.String("userID", socketUser.UserID), zap.String("connID", connID))

	ticker := time.NewTicker(pingInterval)
	ctxClose, cancel := context.WithCancel(context.Background())

	defer func() {
		ticker.Stop()
		h.presence.Unregister(socketUser.UserID, connID)
		// 只有 connID 吻合時 Unregister 才真的移除，但 user_offline 一律廣播
		h.publishBroadcast(domain.WSEvent{
			Event:   domain.EventUserOffline,
			Payload: map[string]interface{}{"userId": socketUser.UserID},
		})
		logger.Log.Info("websocket close", zap.String("userID", socketUser.UserID))
		conn.Close()
		cancel()
	}()

	//client發出close
	//fiber會自動處理(在read msg 回傳err),故需要SetCloseHandler另外接出
	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Infof("WebSocket closed:", conn.RemoteAddr())
		return nil
	})

	//server發出ping之後client連線正常會回pong
	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("Received PONG", zap.String("userID", socketUser.UserID))
		return nil
	})

	// 上線註冊，同帳號重連以最後註冊者為準
	h.presence.Register(socketUser.UserID, connID)

	// 訂閱個人廣播群組，server 推送 new_message/notification 的目標
	h.pubsub.Subscribe(ctxClose, domain.UserChannel(socketUser.UserID), func(event domain.WSEvent) {
		writer.Send(event)
	})

	// 訂閱全體廣播 (presence 變化)，自己的上下線事件不回送給自己
	h.pubsub.Subscribe(ctxClose, domain.BroadcastChannel, func(event domain.WSEvent) {
		if isOwnPresenceEvent(event, socketUser.UserID) {
			return
		}
		writer.Send(event)
	})

	// 推送目前在線清單給新連線
	writer.Send(domain.WSEvent{
		Event:   domain.EventOnlineUsers,
		Payload: h.presence.OnlineUsers(),
	})

	// 廣播上線事件
	h.publishBroadcast(domain.WSEvent{
		Event:   domain.EventUserOnline,
		Payload: map[string]interface{}{"userId": socketUser.UserID},
	})

	// 定期發送 keepalive，不追蹤 ack，靜默也不斷線
	go func() {
		for {
			select {
			case <-ticker.C:
				writer.Send(domain.WSEvent{Event: domain.EventPing})
			case <-ctxClose.Done():
				return
			}
		}
	}()

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Info("connection closed", zap.String("userID", socketUser.UserID))
			} else {
				logger.Log.Errorf("websocket read error:", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(writer, "unknown message type")
			continue
		}
		h.textMessageAction(ctx, writer, socketUser, message)
	}
}

// textMessageAction 解析並分派 client event
// handler 內的任何失敗都只回 error event，絕不終止連線
func (h *ChatWebsocketHandler) textMessageAction(ctx context.Context, writer *connWriter, user *domain.SocketUser, msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("websocket handler panic",
				zap.String("userID", user.UserID), zap.Any("panic", r))
			h.sendError(writer, "internal error")
		}
	}()

	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(writer, "invalid payload")
		return
	}

	switch domain.Action(req.Action) {

	//傳送私訊，寫入db並推送給收件者
	case domain.SendMessage:
		message, err := h.messageUC.Send(ctx, user, req.ReceiverID, req.Content)
		if err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{Event: domain.EventMessageSent, Payload: message})

	//歷史訊息分頁
	case domain.GetMessages:
		messages, hasMore, err := h.messageUC.GetHistory(ctx, user.UserID, req.WithUserID, req.Page, req.Limit)
		if err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		page := req.Page
		if page < 1 {
			page = 1
		}
		writer.Send(domain.WSEvent{
			Event: domain.EventMessagesHistory,
			Payload: map[string]interface{}{
				"messages": messages,
				"page":     page,
				"hasMore":  hasMore,
			},
		})

	//對話列表
	case domain.GetConversations:
		conversations, err := h.messageUC.GetConversations(ctx, user.UserID)
		if err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{Event: domain.EventConversationsList, Payload: conversations})

	//單則已讀
	case domain.MarkAsRead:
		if err := h.messageUC.MarkRead(ctx, req.MessageID, user.UserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{
			Event:   domain.EventMessageRead,
			Payload: map[string]interface{}{"messageId": req.MessageID},
		})

	//整個對話已讀，並通知對方
	case domain.MarkConversationRead:
		if err := h.messageUC.MarkConversationRead(ctx, user.UserID, req.WithUserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{
			Event:   domain.EventConversationRead,
			Payload: map[string]interface{}{"withUserId": req.WithUserID},
		})

	//輸入中狀態，純轉發，無 ack
	case domain.TypingStart:
		h.messageUC.Typing(ctx, user.UserID, req.ReceiverID, true)

	case domain.TypingStop:
		h.messageUC.Typing(ctx, user.UserID, req.ReceiverID, false)

	//通知分頁
	case domain.GetNotifications:
		notifications, unreadCount, _, hasMore, err := h.notifUC.List(ctx, user.UserID, req.Page, req.Limit)
		if err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		page := req.Page
		if page < 1 {
			page = 1
		}
		writer.Send(domain.WSEvent{
			Event: domain.EventNotificationsList,
			Payload: map[string]interface{}{
				"notifications": notifications,
				"unreadCount":   unreadCount,
				"page":          page,
				"hasMore":       hasMore,
			},
		})

	//未讀通知數
	case domain.GetUnreadCount:
		count, err := h.notifUC.UnreadCount(ctx, user.UserID)
		if err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		h.sendUnreadCount(writer, count)

	//單則通知已讀，順帶回最新未讀數
	case domain.MarkNotificationRead:
		if err := h.notifUC.MarkRead(ctx, req.NotificationID, user.UserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{
			Event:   domain.EventNotificationRead,
			Payload: map[string]interface{}{"notificationId": req.NotificationID},
		})
		h.refreshUnreadCount(ctx, writer, user)

	//全部通知已讀
	case domain.MarkAllRead:
		if err := h.notifUC.MarkAllRead(ctx, user.UserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{Event: domain.EventAllNotificationsRead})
		h.sendUnreadCount(writer, 0)

	//刪除單則通知
	case domain.DeleteNotification:
		if err := h.notifUC.Delete(ctx, req.NotificationID, user.UserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{
			Event:   domain.EventNotificationDeleted,
			Payload: map[string]interface{}{"notificationId": req.NotificationID},
		})
		h.refreshUnreadCount(ctx, writer, user)

	//刪除所有已讀通知
	case domain.DeleteAllRead:
		if _, err := h.notifUC.DeleteAllRead(ctx, user.UserID); err != nil {
			h.actionError(writer, user, req.Action, err)
			return
		}
		writer.Send(domain.WSEvent{Event: domain.EventReadNotificationsDeleted})

	default:
		h.sendError(writer, "unknown action")
	}
}

// isOwnPresenceEvent 判斷廣播事件是否為該連線使用者自己的上下線通知
// broadcast channel 經過 redis 往返，payload 會是 map 形態
func isOwnPresenceEvent(event domain.WSEvent, userID string) bool {
	if event.Event != domain.EventUserOnline && event.Event != domain.EventUserOffline {
		return false
	}
	payload, ok := event.Payload.(map[string]interface{})
	if !ok {
		return false
	}
	id, _ := payload["userId"].(string)
	return id == userID
}

// publishBroadcast 發布到全體廣播 channel
func (h *ChatWebsocketHandler) publishBroadcast(event domain.WSEvent) {
	if err := h.pubsub.Publish(context.Background(), domain.BroadcastChannel, event); err != nil {
		logger.Log.Errorf("broadcast publish error:", err)
	}
}

func (h *ChatWebsocketHandler) sendUnreadCount(writer *connWriter, count int64) {
	writer.Send(domain.WSEvent{
		Event:   domain.EventUnreadCount,
		Payload: map[string]interface{}{"count": count},
	})
}

func (h *ChatWebsocketHandler) refreshUnreadCount(ctx context.Context, writer *connWriter, user *domain.SocketUser) {
	count, err := h.notifUC.UnreadCount(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorf("unread count error:", err)
		return
	}
	h.sendUnreadCount(writer, count)
}

func (h *ChatWebsocketHandler) actionError(writer *connWriter, user *domain.SocketUser, action string, err error) {
	logger.Log.Error("websocket err",
		zap.String("userID", user.UserID), zap.String("action", action), zap.String("err", err.Error()))
	h.sendError(writer, err.Error())
}

// sendError - 發送 error event 給前端，連線保持開啟
func (h *ChatWebsocketHandler) sendError(writer *connWriter, errorMsg string) {
	writer.Send(domain.WSEvent{
		Event:   domain.EventError,
		Payload: map[string]interface{}{"message": errorMsg},
	})
}
