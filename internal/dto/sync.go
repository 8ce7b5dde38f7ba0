package dto

// Sync outcomes.
const (
	SyncOutcomeSuccess        = "SUCCESS"
	SyncOutcomePaywall        = "PAYWALL"
	SyncOutcomeNoBackup       = "NO_BACKUP"
	SyncOutcomeAlreadyUpdated = "ALREADY_UPDATED"
)

type PullRequest struct {
	// Silent pulls short-circuit when the remote blob is not newer than the
	// last synced state, avoiding redundant overwrites.
	Silent bool `json:"silent"`
}

type SyncResponse struct {
	Outcome   string `json:"outcome"`
	UpdatedAt string `json:"updated_at,omitempty"`
}
