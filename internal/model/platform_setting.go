package model

// PlatformSetting 平台设置表：对应 platform_settings（单行强类型）
type PlatformSetting struct {
	Singleton            bool `gorm:"primaryKey;default:true" json:"-"`
	MaxRoundsPerJob      int  `gorm:"not null;default:10"     json:"maxRoundsPerJob"`
	MaxFieldsPerForm     int  `gorm:"not null;default:30"     json:"maxFieldsPerForm"`
	MaxCriteriaPerRound  int  `gorm:"not null;default:10"     json:"maxCriteriaPerRound"`
	DefaultMaxFileSizeMB int  `gorm:"not null;default:5"      json:"defaultMaxFileSizeMb"`
	BaseModel
}

// TableName 指定表名
func (PlatformSetting) TableName() string { return "platform_settings" }

// DefaultPlatformSetting 未初始化时使用的默认限制
func DefaultPlatformSetting() PlatformSetting {
	return PlatformSetting{
		Singleton:            true,
		MaxRoundsPerJob:      10,
		MaxFieldsPerForm:     30,
		MaxCriteriaPerRound:  10,
		DefaultMaxFileSizeMB: 5,
	}
}
