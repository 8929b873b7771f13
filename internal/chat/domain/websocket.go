package domain

// Action websocket request action
type Action string

const (
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// GetMessages websocket action get_messages
	GetMessages Action = "get_messages"
	// GetConversations websocket action get_conversations
	GetConversations Action = "get_conversations"
	// MarkAsRead websocket action mark_as_read
	MarkAsRead Action = "mark_as_read"
	// MarkConversationRead websocket action mark_conversation_read
	MarkConversationRead Action = "mark_conversation_read"
	// TypingStart websocket action typing_start
	TypingStart Action = "typing_start"
	// TypingStop websocket action typing_stop
	TypingStop Action = "typing_stop"

	// GetNotifications websocket action get_notifications
	GetNotifications Action = "get_notifications"
	// GetUnreadCount websocket action get_unread_count
	GetUnreadCount Action = "get_unread_count"
	// MarkNotificationRead websocket action mark_notification_read
	MarkNotificationRead Action = "mark_notification_read"
	// MarkAllRead websocket action mark_all_read
	MarkAllRead Action = "mark_all_read"
	// DeleteNotification websocket action delete_notification
	DeleteNotification Action = "delete_notification"
	// DeleteAllRead websocket action delete_all_read
	DeleteAllRead Action = "delete_all_read"
)

// server→client event 名稱
const (
	// EventOnlineUsers 連線建立時推送目前在線清單
	EventOnlineUsers = "online_users"
	// EventUserOnline 廣播某人上線
	EventUserOnline = "user_online"
	// EventUserOffline 廣播某人離線
	EventUserOffline = "user_offline"
	// EventMessageSent 傳送成功 ack (完整訊息)
	EventMessageSent = "message_sent"
	// EventNewMessage 收件者收到新訊息推送
	EventNewMessage = "new_message"
	// EventMessagesHistory 歷史訊息分頁
	EventMessagesHistory = "messages_history"
	// EventConversationsList 對話列表
	EventConversationsList = "conversations_list"
	// EventMessageRead 單則已讀 ack
	EventMessageRead = "message_read"
	// EventConversationRead 整個對話已讀 ack
	EventConversationRead = "conversation_read"
	// EventMessagesReadBy 對方把我們的訊息標為已讀
	EventMessagesReadBy = "messages_read_by"
	// EventUserTyping 對方輸入中
	EventUserTyping = "user_typing"
	// EventUserStoppedTyping 對方停止輸入
	EventUserStoppedTyping = "user_stopped_typing"
	// EventNotification 新通知輕量推送
	EventNotification = "notification"
	// EventNotificationsList 通知分頁
	EventNotificationsList = "notifications_list"
	// EventUnreadCount 未讀通知數
	EventUnreadCount = "unread_count"
	// EventNotificationRead 單則通知已讀 ack
	EventNotificationRead = "notification_read"
	// EventAllNotificationsRead 全部通知已讀 ack
	EventAllNotificationsRead = "all_notifications_read"
	// EventNotificationDeleted 通知刪除 ack
	EventNotificationDeleted = "notification_deleted"
	// EventReadNotificationsDeleted 已讀通知批次刪除 ack
	EventReadNotificationsDeleted = "read_notifications_deleted"
	// EventPing 週期性 keepalive
	EventPing = "ping"
	// EventError handler 失敗回傳
	EventError = "error"
)

// WSRequest websocket Request
// 欄位名與 server→client payload 一致採 camelCase，前端兩個方向共用同一套 key
type WSRequest struct {
	Action         string `json:"action"`
	ReceiverID     string `json:"receiverId"`
	WithUserID     string `json:"withUserId"`
	Content        string `json:"content"`
	MessageID      string `json:"messageId"`
	NotificationID string `json:"notificationId"`
	Page           int    `json:"page"`
	Limit          int    `json:"limit"`
}

// WSEvent websocket server→client event
// redis pub/sub 與本地連線皆傳遞此結構
type WSEvent struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// pub/sub channel 命名
const (
	// UserChannelPrefix 個人廣播群組，server 推送 new_message/notification 的目標
	UserChannelPrefix = "chat:user:"
	// BroadcastChannel 全體連線廣播 (presence 變化、keepalive)
	BroadcastChannel = "chat:broadcast"
)

// UserChannel 個人廣播 channel 名稱
func UserChannel(userID string) string {
	return UserChannelPrefix + userID
}
