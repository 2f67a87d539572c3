package models

// RepoConfig holds the destination repository settings used by the push pipeline.
type RepoConfig struct {
	Owner         string `json:"owner" validate:"required"`
	Repo          string `json:"repo" validate:"required"`
	Branch        string `json:"branch"`
	Token         string `json:"token" validate:"required"`
	PathTemplate  string `json:"pathTemplate"`
	CommitMessage string `json:"commitMessage"`
}
