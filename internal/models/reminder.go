package models

// Reminder is a one-off gardening reminder requested by the assistant via
// the scheduleReminder tool call. Stored separately from plant records and
// consumed by the chat view.
type Reminder struct {
	ID         string  `json:"id"`
	PlantName  string  `json:"plantName"`
	Action     string  `json:"action"`
	DueInHours float64 `json:"dueInHours"`
	CreatedAt  int64   `json:"createdAt"` // ms since epoch
	DueDate    int64   `json:"dueDate"`   // CreatedAt + DueInHours
}

// CreateReminderRequest mirrors the scheduleReminder tool-call arguments
type CreateReminderRequest struct {
	PlantName  string  `json:"plantName"`
	Action     string  `json:"action"`
	DueInHours float64 `json:"dueInHours"`
}
