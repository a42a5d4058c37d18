package domain

import "time"

// StateEntry is one persisted key-value pair. The trade ledger is
// checkpointed here as a JSON payload keyed by store name.
type StateEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
