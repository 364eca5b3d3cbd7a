package dto

type PurchaseInput struct {
	MemberID  string `json:"memberId" validate:"required"`
	BranchID  string `json:"branchId" validate:"required"`
	ItemID    string `json:"itemId" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
	UseCredit bool   `json:"useCredit"`
}

type SaleInput struct {
	MemberID string `json:"memberId" validate:"required"`
	BranchID string `json:"branchId" validate:"required"`
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}
