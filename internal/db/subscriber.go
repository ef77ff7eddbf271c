package db

import "time"

// Subscriber 记录关系型存储中的候补名单邮箱。
// ID 由写入方基于时间戳生成，Email 唯一。
type Subscriber struct {
	ID        string `gorm:"size:32;primaryKey"`
	Email     string `gorm:"size:320;uniqueIndex;not null"`
	Source    string `gorm:"size:120"`
	IPAddress string `gorm:"size:64"`
	UserAgent string `gorm:"size:512"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (Subscriber) TableName() string {
	return "waitlist_subscribers"
}
