package dto

type CreateBranchInput struct {
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}
