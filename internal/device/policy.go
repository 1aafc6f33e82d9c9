package device

import (
	"fmt"

	apperrors "github.com/equiptrack/linebot-go/internal/errors"
)

// Report is a validated status report for one device.
type Report struct {
	DeviceNo   string
	StatusWord string
	RunHours   int
	Date       string // normalized YYYY/MM/DD
	Location   string
}

// Reminder is the maintenance reminder attached to an accepted report.
type Reminder int

const (
	// ReminderNone means no threshold was crossed.
	ReminderNone Reminder = iota

	// ReminderMajorService fires at >= 450 run-hours since last maintenance.
	ReminderMajorService

	// ReminderDieselReplace fires at >= 250 run-hours since last maintenance
	// while the first-stage diesel replacement is still pending.
	ReminderDieselReplace
)

// String returns the metric label for the reminder.
func (r Reminder) String() string {
	switch r {
	case ReminderMajorService:
		return "major_service"
	case ReminderDieselReplace:
		return "diesel_replace"
	default:
		return "none"
	}
}

// Outcome is the decision for an accepted report: the mutation to persist
// and the reminder to render. Pre-update maintenance fields are carried
// for the reply text.
type Outcome struct {
	Patch                 Patch
	Reminder              Reminder
	HoursSinceMaintenance int
	LastMaintenanceDate   string
	LastMaintenanceHours  int
}

// Evaluate decides how a status report mutates a device and which reminder
// it triggers. dev is nil when no record exists yet (first report creates
// the device via upsert). It is pure: no I/O, no clock access.
//
// Rejections, all checked before any write:
//   - unknown status word -> ErrInvalidInput
//   - reported run-hours below the last maintenance hours -> ErrAnomalousReport
//
// Reminder thresholds are evaluated on pre-update values; at most one
// reminder is emitted and the major-service threshold wins.
func Evaluate(dev *Device, r Report) (Outcome, error) {
	status, ok := ParseStatus(r.StatusWord)
	if !ok {
		return Outcome{}, fmt.Errorf("status word %q: %w", r.StatusWord, apperrors.ErrInvalidInput)
	}

	var lastDate string
	var lastHours int
	var dieselReplaced bool
	if dev != nil {
		lastDate = dev.LastMaintenanceDate
		lastHours = dev.LastMaintenanceHours
		dieselReplaced = dev.FirstDieselReplaced
	}

	if r.RunHours < lastHours {
		return Outcome{}, fmt.Errorf("reported %dH below last maintenance %dH: %w",
			r.RunHours, lastHours, apperrors.ErrAnomalousReport)
	}

	diff := r.RunHours - lastHours
	reminder := ReminderNone
	switch {
	case diff >= 450:
		reminder = ReminderMajorService
	case diff >= 250 && !dieselReplaced:
		reminder = ReminderDieselReplace
	}

	patch := Patch{
		Status:     &status,
		RunHours:   IntPtr(r.RunHours),
		RecordDate: StringPtr(r.Date),
		Location:   StringPtr(r.Location),
	}
	switch status {
	case StatusMaintenanceDone:
		patch.LastMaintenanceDate = StringPtr(r.Date)
		patch.LastMaintenanceHours = IntPtr(r.RunHours)
		patch.FirstDieselReplaced = BoolPtr(false)
	case StatusDieselReplaced:
		patch.FirstDieselReplaced = BoolPtr(true)
	}

	return Outcome{
		Patch:                 patch,
		Reminder:              reminder,
		HoursSinceMaintenance: diff,
		LastMaintenanceDate:   lastDate,
		LastMaintenanceHours:  lastHours,
	}, nil
}
