package dto

type UpdateSettingsInput struct {
	MonetizationEnabled *bool `json:"monetization_enabled" binding:"required"`
}

type SettingsResponse struct {
	MonetizationEnabled bool `json:"monetization_enabled"`
	UnlockCost          int  `json:"unlock_cost"`
}
