package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Timestamps 目录表只带时间戳
type Timestamps struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// BaseModel 通用审计字段
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:varchar(64)"                   json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:varchar(64)"                   json:"updated_by,omitempty"`
}

// VersionedModel 支持乐观锁的模型
// 排课数据随排课方案级联物理删除，不做软删除
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// ID 前缀
const (
	PrefixSchedule        = "SCH"
	PrefixScheduledCourse = "SC"
	PrefixConflict        = "CONF"
	PrefixConflictCourse  = "CC"
	PrefixAvailability    = "AVAIL"
	PrefixHistory         = "PH"
)

// NewID 生成形如 SCH-1a2b3c4d 的短标识
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + raw[:8]
}
