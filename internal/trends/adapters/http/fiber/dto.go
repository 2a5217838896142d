package fiber

// MatrixRowResponse is one flat cell of the persisted matrix.
type MatrixRowResponse struct {
	TimeBucket string `json:"time_bucket" example:"2024-06"`
	Category   string `json:"category" example:"cs.AI"`
	Count      int64  `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_config"`
	Message string `json:"message,omitempty" example:"window sizes must be positive"`
}
