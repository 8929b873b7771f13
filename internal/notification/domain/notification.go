package domain

import (
	"encoding/json"
	"time"
)

// NotificationType 通知類型
type NotificationType string

const (
	// TypeMessage 新私訊通知
	TypeMessage NotificationType = "MESSAGE"
	// TypeOrder 訂單事件通知 (付款完成等)
	TypeOrder NotificationType = "ORDER"
	// TypeRequestStatus 開店申請審核通知
	TypeRequestStatus NotificationType = "REQUEST_STATUS"
	// TypeSystem 管理員廣播
	TypeSystem NotificationType = "SYSTEM"
)

// Notification 一則通知，僅擁有者可讀寫，read 只會翻成 true
type Notification struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string          `gorm:"type:uuid;index:idx_notifications_user" json:"userId"`
	Type      string          `gorm:"not null" json:"type"`
	Title     string          `gorm:"not null" json:"title"`
	Message   string          `gorm:"not null" json:"message"`
	Link      string          `json:"link,omitempty"`
	Metadata  json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Read      bool            `gorm:"default:false" json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
}

// TableName notifications 資料表
func (Notification) TableName() string {
	return "notifications"
}

// CreateNotification 建立通知的輸入，任何子系統事件都走這個共用入口
type CreateNotification struct {
	UserID   string
	Type     NotificationType
	Title    string
	Message  string
	Link     string
	Metadata map[string]interface{}
}
