// api/audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// AuditLog records one authorization decision or mutation against a
// resource. AccessGranted is false for denied checks.
type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceType  string          `json:"resource_type"`
	ResourceID    string          `json:"resource_id"`
	AccessGranted bool            `json:"access_granted"`
	Reason        string          `json:"reason,omitempty"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
