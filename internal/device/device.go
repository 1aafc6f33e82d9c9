// Package device defines the equipment data model, the repository contract,
// and the maintenance policy engine.
package device

import (
	"fmt"
	"strings"
	"time"
)

// Status is the operational state of a device.
// The canonical values are the literal words operators type in chat.
type Status string

const (
	// StatusOut marks a device checked out to a work site.
	StatusOut Status = "出庫"

	// StatusIn marks a device returned to the warehouse.
	StatusIn Status = "回庫"

	// StatusMaintenanceDone marks a completed maintenance cycle.
	StatusMaintenanceDone Status = "保養完成"

	// StatusDieselReplaced marks a completed first-stage diesel replacement.
	StatusDieselReplaced Status = "更換第一道柴油"
)

// DefaultStatus is applied when a command omits the status word.
const DefaultStatus = StatusIn

// DefaultLocation is applied when a command omits the location.
const DefaultLocation = "倉庫"

// ParseStatus returns the Status for a canonical status word.
// Returns false for anything else.
func ParseStatus(word string) (Status, bool) {
	switch Status(word) {
	case StatusOut, StatusIn, StatusMaintenanceDone, StatusDieselReplaced:
		return Status(word), true
	}
	return "", false
}

// Device is one record per physical unit, keyed by the operator-assigned
// device number. Dates are stored as normalized YYYY/MM/DD strings;
// LastMaintenanceDate is empty when no maintenance has been recorded.
type Device struct {
	DeviceNo             string
	Status               Status
	RunHours             int
	RecordDate           string
	Location             string
	LastMaintenanceDate  string
	LastMaintenanceHours int
	FirstDieselReplaced  bool
}

// Today returns the current date in storage format.
func Today() string {
	return time.Now().Format("2006/01/02")
}

// NormalizeDate converts an operator-supplied date token into YYYY/MM/DD.
// Accepted inputs: slash-separated with 1-2 digit month/day (2029/7/9),
// dash-separated (2025-02-01), or compact (20250201).
func NormalizeDate(token string) (string, error) {
	cleaned := strings.ReplaceAll(token, "-", "/")
	layouts := []string{"2006/1/2", "2006/01/02"}
	if !strings.Contains(cleaned, "/") {
		layouts = []string{"20060102"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006/01/02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", token)
}
