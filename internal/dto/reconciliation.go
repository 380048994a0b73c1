package dto

// TriggerReconciliationRequest starts a reconciliation pass.
type TriggerReconciliationRequest struct {
	Type string `json:"type" binding:"required,oneof=internal external_provider"`
}

// ListRunsParams defines query parameters for listing reconciliation runs.
type ListRunsParams struct {
	Limit int `form:"limit,default=20" binding:"min=1,max=100"`
}
