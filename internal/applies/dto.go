package applies

// GenerateRequest is the body of POST /applications.
type GenerateRequest struct {
	JobListing string `json:"job_listing" binding:"required"`
	Company    string `json:"company"`
}

// AcceptedResponse is returned when a task was queued.
type AcceptedResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}
