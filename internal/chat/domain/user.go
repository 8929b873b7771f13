package domain

// User 使用者資料表 (由 auth/user 子系統擁有，本服務唯讀)
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

// UserSummary 訊息附帶的寄件者/收件者摘要
type UserSummary struct {
	ID       string `gorm:"type:uuid;primaryKey" json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// TableName user summary 讀取 users 資料表
func (UserSummary) TableName() string {
	return "users"
}

// SocketUser 連線建立時綁定的身分，連線存續期間不可變
type SocketUser struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}
