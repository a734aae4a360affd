package model

// SyncRequest carries a batch of raw notification payloads from the poller.
type SyncRequest struct {
	UserID        int64            `json:"user_id"   binding:"required"`
	Unarchive     bool             `json:"unarchive"`
	Notifications []map[string]any `json:"notifications" binding:"required"`
}

// SyncResponse reports the per-batch outcome of a sync request.
type SyncResponse struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

// ArchiveRequest selects notifications to archive or unarchive.
// Value is coerced string-to-boolean; omitted means archive.
type ArchiveRequest struct {
	IDs   []int64 `json:"ids"   binding:"required"`
	Value string  `json:"value"`
}

// SelectionRequest selects notifications for mark-read and mute.
type SelectionRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// SearchResponse wraps search projection results.
type SearchResponse struct {
	Notifications []Notification `json:"notifications"`
}
