package domain

import "time"

// Message 一則私訊，read 只會由 false 翻成 true，其他欄位不更新
type Message struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID   string    `gorm:"type:uuid;index:idx_messages_sender" json:"senderId"`
	ReceiverID string    `gorm:"type:uuid;index:idx_messages_receiver" json:"receiverId"`
	Content    string    `gorm:"not null" json:"content"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `json:"createdAt"`

	Sender   *UserSummary `gorm:"foreignKey:SenderID;references:ID" json:"sender,omitempty"`
	Receiver *UserSummary `gorm:"foreignKey:ReceiverID;references:ID" json:"receiver,omitempty"`
}

// TableName messages 資料表
func (Message) TableName() string {
	return "messages"
}

// Conversation 對話列表項目，由訊息即時彙整，不落地
type Conversation struct {
	User        UserSummary `json:"user"`
	LastMessage Message     `json:"lastMessage"`
	UnreadCount int64       `json:"unreadCount"`
}
