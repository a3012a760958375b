package v1

type UpdateStatusRequest struct {
	Status         string `json:"status" form:"status" validate:"required,request_status"`
	ExternalUserID string `json:"externalUserId" form:"externalUserId" validate:"omitempty,max=128"`
}

type UpdateCommissionStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=REJECTED"`
}
