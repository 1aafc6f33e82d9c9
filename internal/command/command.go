// Package command parses free-text chat messages into typed commands.
// Parsing is pure string matching; it never touches the repository.
package command

import "github.com/equiptrack/linebot-go/internal/device"

// Kind is the closed set of command variants. Downstream stages switch
// exhaustively over it.
type Kind int

const (
	// KindNoMatch is returned for text matching no known command.
	KindNoMatch Kind = iota

	// Bare literals rendering usage or informational text.
	KindMenu
	KindTemplate
	KindWhoAmI
	KindAddUsage
	KindUpdateUsage
	KindRemoveUsage
	KindQueryUsage

	// Listing commands.
	KindListDevices
	KindListAdmins

	// Device mutations.
	KindAddDevice
	KindUpdateDevice
	KindRemoveDevice
	KindQueryDevice

	// Admin registry mutations (developer only).
	KindAdminAdd
	KindAdminRemove

	// KindReport is the keyword-less status report shorthand.
	KindReport

	// KindInvalid carries a validation failure detected before any lookup.
	KindInvalid
)

// String returns the metric label for the kind.
func (k Kind) String() string {
	switch k {
	case KindMenu:
		return "menu"
	case KindTemplate:
		return "template"
	case KindWhoAmI:
		return "who_am_i"
	case KindAddUsage:
		return "add_usage"
	case KindUpdateUsage:
		return "update_usage"
	case KindRemoveUsage:
		return "remove_usage"
	case KindQueryUsage:
		return "query_usage"
	case KindListDevices:
		return "list_devices"
	case KindListAdmins:
		return "list_admins"
	case KindAddDevice:
		return "add_device"
	case KindUpdateDevice:
		return "update_device"
	case KindRemoveDevice:
		return "remove_device"
	case KindQueryDevice:
		return "query_device"
	case KindAdminAdd:
		return "admin_add"
	case KindAdminRemove:
		return "admin_remove"
	case KindReport:
		return "report"
	case KindInvalid:
		return "invalid"
	default:
		return "no_match"
	}
}

// Reason identifies which validation failed for KindInvalid commands.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAddFormat
	ReasonRunHours
	ReasonUpdateFormat
	ReasonMaintHours
	ReasonMaintDate
	ReasonRemoveFormat
	ReasonQueryFormat
	ReasonAdminAddFormat
	ReasonAdminRemoveFormat
	ReasonReportDate
)

// Command is the parsed form of one chat message. Only the fields relevant
// to the Kind are populated.
type Command struct {
	Kind   Kind
	Reason Reason // set for KindInvalid

	DeviceNo string
	Status   device.Status // canonical status, defaulted for Add/Update
	RunHours int

	// Report fields
	StatusWord string // verbatim status word; validated by the policy engine
	Date       string // normalized YYYY/MM/DD, empty = today
	Location   string // empty = default warehouse

	// UpdateDevice fields
	MaintenanceHours int
	MaintenanceDate  string

	// AdminAdd/AdminRemove target
	TargetUserID string
}
