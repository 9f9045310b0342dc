package dto

// ── 平台设置 DTO ──

// UpdatePlatformSettingRequest 更新流程限制
type UpdatePlatformSettingRequest struct {
	MaxRoundsPerJob      *int `json:"maxRoundsPerJob"      binding:"omitempty,min=1,max=50"`
	MaxFieldsPerForm     *int `json:"maxFieldsPerForm"     binding:"omitempty,min=1,max=100"`
	MaxCriteriaPerRound  *int `json:"maxCriteriaPerRound"  binding:"omitempty,min=1,max=50"`
	DefaultMaxFileSizeMB *int `json:"defaultMaxFileSizeMb" binding:"omitempty,min=1,max=100"`
}

// PlatformSettingResponse 流程限制响应
type PlatformSettingResponse struct {
	MaxRoundsPerJob      int    `json:"maxRoundsPerJob"`
	MaxFieldsPerForm     int    `json:"maxFieldsPerForm"`
	MaxCriteriaPerRound  int    `json:"maxCriteriaPerRound"`
	DefaultMaxFileSizeMB int    `json:"defaultMaxFileSizeMb"`
	UpdatedAt            string `json:"updatedAt,omitempty"`
}
