package dto

// RepoConfigRequest saves the push destination. An empty or masked token keeps the stored one.
type RepoConfigRequest struct {
	Owner         string `json:"owner" validate:"required,max=100"`
	Repo          string `json:"repo" validate:"required,max=100"`
	Branch        string `json:"branch" validate:"omitempty,max=255"`
	Token         string `json:"token"`
	PathTemplate  string `json:"pathTemplate" validate:"omitempty,max=255"`
	CommitMessage string `json:"commitMessage" validate:"omitempty,max=255"`
}

// RepoConfigResponse is the push destination with the token masked.
type RepoConfigResponse struct {
	Owner         string `json:"owner"`
	Repo          string `json:"repo"`
	Branch        string `json:"branch"`
	Token         string `json:"token"`
	HasToken      bool   `json:"hasToken"`
	PathTemplate  string `json:"pathTemplate"`
	CommitMessage string `json:"commitMessage"`
}

// PushRequest selects which pending items to push. Empty IDs pushes everything.
type PushRequest struct {
	IDs    []string `json:"ids" validate:"omitempty,dive,required"`
	DryRun bool     `json:"dryRun"`
}

// PushedItem is one pending item committed to the repository.
type PushedItem struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Path      string `json:"path"`
	Created   bool   `json:"created"`
	Unchanged bool   `json:"unchanged,omitempty"`
}

// PushFailure is one pending item that stayed queued.
type PushFailure struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Error string `json:"error"`
}

// PushResponse summarises a push run.
type PushResponse struct {
	Pushed []PushedItem  `json:"pushed"`
	Failed []PushFailure `json:"failed"`
	DryRun bool          `json:"dryRun,omitempty"`
}
