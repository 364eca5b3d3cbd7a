package dto

type RenewCardInput struct {
	MemberID string `json:"memberId" validate:"required"`
	Year     int    `json:"year" validate:"omitempty,gte=2000,lte=9999"`
	// Allowance keys are item IDs or item names. Empty means the configured
	// per-person defaults scaled by household size.
	Allowance map[string]int64 `json:"allowance" validate:"omitempty,dive,gte=0"`
}
