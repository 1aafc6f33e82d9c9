package command

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/equiptrack/linebot-go/internal/device"
)

var (
	// Report shorthand: deviceNo, status word, run-hours (optional H suffix),
	// slash date with 1-2 digit month/day, free-text location.
	reportPattern = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(\d+)\s*H?\s+(\d{4}/\d{1,2}/\d{1,2})\s+(.+)$`)

	// Maintenance-hours token for UpdateDevice: 2-3 digits with mandatory H.
	maintHoursPattern = regexp.MustCompile(`^\d{2,3}H$`)

	// Maintenance-date token: separator is captured so both halves must use
	// the same one (2025/01/02, 2025-01-02, 20250102).
	maintDatePattern = regexp.MustCompile(`^\d{4}([/\-]?)\d{2}([/\-]?)\d{2}$`)

	nonDigits = regexp.MustCompile(`\D`)
)

// Parse converts a trimmed message into a Command. Unrecognized text yields
// KindNoMatch; malformed arguments of a recognized command yield KindInvalid
// with the failing Reason. Validation happens before any repository access.
func Parse(text string) *Command {
	text = strings.TrimSpace(text)

	switch text {
	case "功能選單":
		return &Command{Kind: KindMenu}
	case "範本":
		return &Command{Kind: KindTemplate}
	case "我的ID", "6️⃣ 我的ID":
		return &Command{Kind: KindWhoAmI}
	case "新增設備":
		return &Command{Kind: KindAddUsage}
	case "更新設備":
		return &Command{Kind: KindUpdateUsage}
	case "移除設備":
		return &Command{Kind: KindRemoveUsage}
	case "查詢設備":
		return &Command{Kind: KindQueryUsage}
	case "查看設備列表":
		return &Command{Kind: KindListDevices}
	case "查看管理者", "3️⃣ 查看管理者":
		return &Command{Kind: KindListAdmins}
	}

	if rest, ok := trimKeyword(text, "新增設備 "); ok {
		return parseAddDevice(rest)
	}
	if rest, ok := trimKeyword(text, "更新設備 "); ok {
		return parseUpdateDevice(rest)
	}
	if rest, ok := trimKeyword(text, "移除設備 "); ok {
		return parseSingleArg(rest, KindRemoveDevice, ReasonRemoveFormat)
	}
	if rest, ok := trimKeyword(text, "查詢設備 "); ok {
		return parseSingleArg(rest, KindQueryDevice, ReasonQueryFormat)
	}
	if rest, ok := trimKeyword(text, "新增管理 ", "4️⃣ 新增管理 "); ok {
		return parseAdminArg(rest, KindAdminAdd, ReasonAdminAddFormat)
	}
	if rest, ok := trimKeyword(text, "移除管理 ", "5️⃣ 移除管理 "); ok {
		return parseAdminArg(rest, KindAdminRemove, ReasonAdminRemoveFormat)
	}

	if m := reportPattern.FindStringSubmatch(text); m != nil {
		return parseReport(m)
	}

	return &Command{Kind: KindNoMatch}
}

func trimKeyword(text string, keywords ...string) (string, bool) {
	for _, kw := range keywords {
		if strings.HasPrefix(text, kw) {
			return strings.TrimPrefix(text, kw), true
		}
	}
	return "", false
}

// parseRunHours strips every non-digit character before conversion, so
// operators can write 1500H, 1500h or 1500.
func parseRunHours(token string) (int, bool) {
	digits := nonDigits.ReplaceAllString(token, "")
	if digits == "" {
		return 0, false
	}
	hours, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return hours, true
}

// parseAddDevice handles `新增設備 deviceNo [statusWord] runHours [date] [location...]`.
func parseAddDevice(rest string) *Command {
	parts := strings.Fields(rest)
	if len(parts) < 2 {
		return &Command{Kind: KindInvalid, Reason: ReasonAddFormat}
	}

	cmd := &Command{
		Kind:     KindAddDevice,
		DeviceNo: parts[0],
		Status:   device.DefaultStatus,
	}

	next := 1
	if status, ok := device.ParseStatus(parts[next]); ok {
		cmd.Status = status
		next++
		if next >= len(parts) {
			return &Command{Kind: KindInvalid, Reason: ReasonAddFormat}
		}
	}

	hours, ok := parseRunHours(parts[next])
	if !ok {
		return &Command{Kind: KindInvalid, Reason: ReasonRunHours}
	}
	cmd.RunHours = hours
	next++

	// Optional trailing date and location.
	if next < len(parts) {
		if date, err := device.NormalizeDate(parts[next]); err == nil {
			cmd.Date = date
			next++
		}
	}
	if next < len(parts) {
		cmd.Location = strings.Join(parts[next:], " ")
	}

	return cmd
}

// parseUpdateDevice handles
// `更新設備 deviceNo [statusWord] runHours maintHours maintDate`.
func parseUpdateDevice(rest string) *Command {
	parts := strings.Fields(rest)
	if len(parts) < 3 {
		return &Command{Kind: KindInvalid, Reason: ReasonUpdateFormat}
	}

	cmd := &Command{
		Kind:     KindUpdateDevice,
		DeviceNo: parts[0],
		Status:   device.DefaultStatus,
	}

	next := 1
	if status, ok := device.ParseStatus(parts[next]); ok {
		cmd.Status = status
		next++
	}
	if len(parts) != next+3 {
		return &Command{Kind: KindInvalid, Reason: ReasonUpdateFormat}
	}

	hours, ok := parseRunHours(parts[next])
	if !ok {
		return &Command{Kind: KindInvalid, Reason: ReasonRunHours}
	}
	cmd.RunHours = hours

	maintToken := parts[next+1]
	if !maintHoursPattern.MatchString(maintToken) {
		return &Command{Kind: KindInvalid, Reason: ReasonMaintHours}
	}
	maintHours, _ := strconv.Atoi(strings.TrimSuffix(maintToken, "H"))
	cmd.MaintenanceHours = maintHours

	dateToken := parts[next+2]
	m := maintDatePattern.FindStringSubmatch(dateToken)
	if m == nil || m[1] != m[2] {
		return &Command{Kind: KindInvalid, Reason: ReasonMaintDate}
	}
	date, err := device.NormalizeDate(dateToken)
	if err != nil {
		return &Command{Kind: KindInvalid, Reason: ReasonMaintDate}
	}
	cmd.MaintenanceDate = date

	return cmd
}

func parseSingleArg(rest string, kind Kind, reason Reason) *Command {
	parts := strings.Fields(rest)
	if len(parts) != 1 {
		return &Command{Kind: KindInvalid, Reason: reason}
	}
	return &Command{Kind: kind, DeviceNo: parts[0]}
}

func parseAdminArg(rest string, kind Kind, reason Reason) *Command {
	parts := strings.Fields(rest)
	if len(parts) != 1 {
		return &Command{Kind: KindInvalid, Reason: reason}
	}
	return &Command{Kind: kind, TargetUserID: parts[0]}
}

func parseReport(m []string) *Command {
	hours, err := strconv.Atoi(m[3])
	if err != nil {
		return &Command{Kind: KindInvalid, Reason: ReasonReportDate}
	}
	date, err := device.NormalizeDate(m[4])
	if err != nil {
		return &Command{Kind: KindInvalid, Reason: ReasonReportDate}
	}
	return &Command{
		Kind:       KindReport,
		DeviceNo:   m[1],
		StatusWord: m[2],
		RunHours:   hours,
		Date:       date,
		Location:   m[5],
	}
}
