package device

// Patch is a partial update of a Device. Nil fields are left untouched
// by Apply; the single merge routine replaces per-call field assembly.
type Patch struct {
	Status               *Status
	RunHours             *int
	RecordDate           *string
	Location             *string
	LastMaintenanceDate  *string
	LastMaintenanceHours *int
	FirstDieselReplaced  *bool
}

// Apply merges the set fields of the patch into dev.
func (p Patch) Apply(dev *Device) {
	if p.Status != nil {
		dev.Status = *p.Status
	}
	if p.RunHours != nil {
		dev.RunHours = *p.RunHours
	}
	if p.RecordDate != nil {
		dev.RecordDate = *p.RecordDate
	}
	if p.Location != nil {
		dev.Location = *p.Location
	}
	if p.LastMaintenanceDate != nil {
		dev.LastMaintenanceDate = *p.LastMaintenanceDate
	}
	if p.LastMaintenanceHours != nil {
		dev.LastMaintenanceHours = *p.LastMaintenanceHours
	}
	if p.FirstDieselReplaced != nil {
		dev.FirstDieselReplaced = *p.FirstDieselReplaced
	}
}

// IsZero reports whether the patch sets no fields.
func (p Patch) IsZero() bool {
	return p.Status == nil &&
		p.RunHours == nil &&
		p.RecordDate == nil &&
		p.Location == nil &&
		p.LastMaintenanceDate == nil &&
		p.LastMaintenanceHours == nil &&
		p.FirstDieselReplaced == nil
}

// Helpers for building patches without intermediate variables.

// StatusPtr returns a pointer to s.
func StatusPtr(s Status) *Status { return &s }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
