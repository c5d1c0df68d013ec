package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// SampleStatus is the lifecycle state of a laboratory sample.
//
// Intended flow: CUSTODY -> IN_LAB -> TESTED -> STORED, with DESTROYED
// reachable from any live state and INACTIVE reserved for soft-deleted rows.
type SampleStatus string

const (
	SampleStatusCustody   SampleStatus = "CUSTODY"
	SampleStatusInLab     SampleStatus = "IN_LAB"
	SampleStatusTested    SampleStatus = "TESTED"
	SampleStatusStored    SampleStatus = "STORED"
	SampleStatusDestroyed SampleStatus = "DESTROYED"
	SampleStatusInactive  SampleStatus = "INACTIVE"
)

func (s SampleStatus) Valid() bool {
	switch s {
	case SampleStatusCustody, SampleStatusInLab, SampleStatusTested,
		SampleStatusStored, SampleStatusDestroyed, SampleStatusInactive:
		return true
	}
	return false
}

// terminal states cannot be destroyed again
func (s SampleStatus) Terminal() bool {
	return s == SampleStatusDestroyed || s == SampleStatusInactive
}

func (s SampleStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid sample status %q", string(s))
	}
	return string(s), nil
}

func (s *SampleStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*s = SampleStatus(v)
	case []byte:
		*s = SampleStatus(v)
	default:
		return errors.New("sample status must be string")
	}
	if !s.Valid() {
		return fmt.Errorf("invalid sample status %q", string(*s))
	}
	return nil
}

type AuditAction string

const (
	AuditActionCreate  AuditAction = "CREATE"
	AuditActionUpdate  AuditAction = "UPDATE"
	AuditActionDelete  AuditAction = "DELETE"
	AuditActionRestore AuditAction = "RESTORE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionRestore:
		return true
	}
	return false
}

func (a AuditAction) Value() (driver.Value, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid audit action %q", string(a))
	}
	return string(a), nil
}

func (a *AuditAction) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*a = AuditAction(v)
	case []byte:
		*a = AuditAction(v)
	default:
		return errors.New("audit action must be string")
	}
	return nil
}

// MeasurementUnits is the unit whitelist for batch and sample quantities.
// No conversion is performed; a batch declares one unit and callers stick to it.
var MeasurementUnits = []string{"kg", "g", "mg", "t", "L", "mL", "m3", "pcs", "box"}

func ValidMeasurementUnit(unit string) bool {
	for _, u := range MeasurementUnits {
		if u == unit {
			return true
		}
	}
	return false
}
