package models

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	AssignTrip  = "trip"
	AssignRoute = "route"
	AssignBlock = "block"

	AssignmentActive   = "active"
	AssignmentInactive = "inactive"
)

// TargetID is the id of an assignment target. Trips and routes are numeric
// ids, blocks are free-form, so both JSON numbers and strings are accepted.
type TargetID string

func (t *TargetID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TargetID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("assigned_type.id must be a string or number: %w", err)
	}
	*t = TargetID(n.String())
	return nil
}

type AssignedTarget struct {
	Type string   `json:"type" gorm:"column:assigned_type;not null"`
	ID   TargetID `json:"id" gorm:"column:assigned_id;not null"`
}

// VehicleAssignment binds a vehicle to exactly one trip, route or block and
// is mirrored on the vehicle's assignment fields.
type VehicleAssignment struct {
	Model
	VehicleID    uint           `json:"vehicle_id" gorm:"not null;index"`
	Vehicle      *Vehicle       `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssignedType AssignedTarget `json:"assigned_type" gorm:"embedded"`
	AssignedAt   time.Time      `json:"assigned_at"`
	Status       string         `json:"status" gorm:"not null;default:active"`
}
