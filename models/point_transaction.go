package models

import "time"

// PointTransaction is an immutable ledger entry. Rows are only ever inserted;
// the signed sum of a user's entries is the source of truth their UserPoints
// aggregate must agree with. Negative points mean redemptions or adjustments.
type PointTransaction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_point_tx_user_action,priority:1;not null" json:"user_id"`
	Action        string    `gorm:"size:64;index:idx_point_tx_user_action,priority:2;not null" json:"action"`
	Points        int       `gorm:"not null" json:"points"`
	ReferenceID   string    `gorm:"size:64" json:"reference_id,omitempty"`
	ReferenceType string    `gorm:"size:32" json:"reference_type,omitempty"`
	Description   string    `gorm:"size:255" json:"description"`
	Metadata      string    `gorm:"type:text" json:"metadata,omitempty"` // JSON-encoded payload
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
