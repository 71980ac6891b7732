package messaging

import "github.com/google/uuid"

// Action names a request or broadcast kind.
type Action string

const (
	ActionGetAPIKey         Action = "getApiKey"
	ActionSetAPIKey         Action = "setApiKey"
	ActionOpenTab           Action = "openTab"
	ActionSetSearchKeyword  Action = "setSearchKeyword"
	ActionOpenOptionsPage   Action = "openOptionsPage"
	ActionOpenSimilarSearch Action = "openSimilarSearch"
	ActionUpdateAPIKey      Action = "updateApiKey"
)

// Request is an action-tagged message. Only the fields relevant to Action are set.
type Request struct {
	ID         string            `json:"id,omitempty"`
	Action     Action            `json:"action"`
	APIKey     string            `json:"apiKey,omitempty"`
	URL        string            `json:"url,omitempty"`
	Keyword    string            `json:"keyword,omitempty"`
	CourseInfo map[string]string `json:"courseInfo,omitempty"`
}

// Response answers exactly one Request.
type Response struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	APIKey  string `json:"apiKey,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newID() string {
	return uuid.NewString()
}
