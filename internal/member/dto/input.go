package dto

type CreateMemberInput struct {
	Name          string `json:"name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	HouseholdSize int    `json:"householdSize" validate:"gte=1"`
}
