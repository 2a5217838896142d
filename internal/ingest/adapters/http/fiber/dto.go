package fiber

// rawVersionItem mirrors one entry of a record's versions list.
type rawVersionItem struct {
	Version string `json:"version"`
	Created string `json:"created"`
}

// rawRecordItem is one bibliographic record as posted by collaborators.
type rawRecordItem struct {
	ID         string           `json:"id"`
	Versions   []rawVersionItem `json:"versions"`
	UpdateDate string           `json:"update_date"`
	Categories string           `json:"categories"`
}

// IngestRecordsRequest represents a bulk record ingestion payload
// @Description Bulk record ingestion DTO
type IngestRecordsRequest struct {
	Records []rawRecordItem `json:"records"`
}

type IngestRecordsResponse struct {
	RunID       string           `json:"run_id"`
	Accepted    int64            `json:"accepted"`
	FilteredOut int64            `json:"filtered_out"`
	Rejections  map[string]int64 `json:"rejections"`
	Cells       int              `json:"cells"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"invalid_json"`
	Message string `json:"message,omitempty" example:"Request payload is invalid"`
}
