// AngelaMos | 2026
// entity.go

package audit

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Detail map[string]any

func (d Detail) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

func (d *Detail) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	case nil:
		*d = nil
		return nil
	default:
		return fmt.Errorf("scan audit detail: unsupported type %T", src)
	}
}

// Log is one append-only audit row for an admin mutation.
type Log struct {
	ID         string    `db:"id"         json:"id"`
	ActorID    string    `db:"actor_id"   json:"actor_id"`
	Action     string    `db:"action"     json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id"  json:"entity_id"`
	Detail     Detail    `db:"detail"     json:"detail,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
	ActionStatusChange = "status_change"
	ActionRoleChange   = "role_change"
)
