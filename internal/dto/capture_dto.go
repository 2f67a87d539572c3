package dto

import "github.com/noah-isme/solvesync/internal/models"

// NetworkCaptureRequest is one intercepted request/response exchange forwarded by the page shim.
type NetworkCaptureRequest struct {
	TabID        string `json:"tabId" validate:"max=128"`
	TabURL       string `json:"tabUrl" validate:"omitempty,url"`
	URL          string `json:"url" validate:"required,url"`
	Method       string `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE get post put patch delete"`
	Status       int    `json:"status" validate:"gte=0,lte=599"`
	RequestBody  string `json:"requestBody"`
	ResponseBody string `json:"responseBody"`
}

// EditorPayload is the editor content read by the shim through the page's editor API.
type EditorPayload struct {
	Value    string `json:"value"`
	Language string `json:"language" validate:"max=64"`
}

// DOMCaptureRequest is one rendered-page snapshot.
type DOMCaptureRequest struct {
	TabID  string         `json:"tabId" validate:"required,max=128"`
	URL    string         `json:"url" validate:"required,url"`
	HTML   string         `json:"html" validate:"required"`
	Editor *EditorPayload `json:"editor,omitempty"`
}

// NavigationRequest reports an SPA route change in a tab.
type NavigationRequest struct {
	TabID string `json:"tabId" validate:"required,max=128"`
	URL   string `json:"url" validate:"required,url"`
}

// CaptureResponse reports what the pipeline did with an observation.
type CaptureResponse struct {
	Outcome  string `json:"outcome"`
	Reason   string `json:"reason,omitempty"`
	RecordID string `json:"recordId,omitempty"`
}

// PendingListResponse lists the solutions awaiting push.
type PendingListResponse struct {
	Items []models.SolutionRecord `json:"items"`
	Total int                     `json:"total"`
}

// StatsResponse wraps the persisted stats with the solved slug count.
type StatsResponse struct {
	models.Stats
	Solved int `json:"solved"`
}
