// Package reply renders user-facing message text for command results.
// The bot is text-only; every function returns a ready-to-send string.
package reply

import (
	"fmt"
	"strings"

	"github.com/equiptrack/linebot-go/internal/command"
	"github.com/equiptrack/linebot-go/internal/device"
)

const menuText = "📋 功能選單：\n" +
	"1️⃣ 設備回報-輸入 範本可參考回報格式\n" +
	"2️⃣ 查詢設備\n" +
	"3️⃣ 新增設備\n" +
	"4️⃣ 移除設備\n" +
	"5️⃣ 更新設備\n" +
	"6️⃣ 我的ID "

// Menu returns the feature menu.
func Menu() string {
	return menuText
}

// NoMatch returns the fallback for unrecognized input.
func NoMatch() string {
	return "❌找不到相關指令，請嘗試 \n\n " + menuText
}

// Template returns the report format template.
func Template() string {
	return "請輸入以下格式：\n" +
		"1.設備編號: 例100K-3\n" +
		"2.設備狀態: 例出庫, 回庫, 更換第一道柴油, 保養完成\n" +
		"3.當前運轉時數: 例1000H\n" +
		"4.日期: 例2029/07/09\n" +
		"5.使用地點: 例台北大佳河濱公園"
}

// WhoAmI returns the caller's chat user ID.
func WhoAmI(userID string) string {
	return "👤 **你的 LINE User ID**：\n" + userID
}

// AddUsage returns the AddDevice format help.
func AddUsage() string {
	return "📌 新增設備請使用以下格式：\n" +
		"新增設備 設備編號 設備狀態(可選填) 運轉時數(必填) 時間(可選填) 地點(可選填)\n" +
		"- 設備狀態未填寫則預設為「回庫」\n" +
		"- 設備狀態有回庫，出庫，保養完成，更換第一道柴油\n" +
		"- 時間未填寫則預設為當前時間\n" +
		"- 地點未填寫則預設為「倉庫」\n" +
		"例：新增設備 100K-3 出庫 1500H 2029/07/09 台北大佳河濱公園"
}

// UpdateUsage returns the UpdateDevice format help.
func UpdateUsage() string {
	return "📌 更新設備請使用以下格式：\n" +
		"更新設備 設備編號 設備狀態(可選填) 運轉時數 上次保養時數 上次保養時間\n" +
		"- 未填寫的欄位將保留原本的值\n" +
		"例：更新設備 100K-3 出庫 1600H 300H 2025-02-01"
}

// RemoveUsage returns the RemoveDevice format help.
func RemoveUsage() string {
	return "📌 移除設備請使用以下格式：\n" +
		"移除設備 設備編號\n" +
		"例：移除設備 100K-3"
}

// QueryUsage returns the QueryDevice format help.
func QueryUsage() string {
	return "📌 查詢設備請使用以下格式：\n" +
		"查詢設備 設備編號\n" +
		"例：查詢設備 100K-3"
}

// Invalid returns the format-correction message for a validation failure.
func Invalid(reason command.Reason) string {
	switch reason {
	case command.ReasonAddFormat:
		return "⚠️ 格式錯誤，請使用「新增設備」獲取正確格式！"
	case command.ReasonRunHours:
		return "❌ 請輸入正確的運轉時數，例如 1500H（系統將自動忽略 H）。"
	case command.ReasonUpdateFormat:
		return "⚠️ 格式錯誤，請使用「更新設備」獲取正確格式！"
	case command.ReasonMaintHours:
		return "⚠️ 格式錯誤，上次保養時數 ex: 更新設備 100K-3 出庫 1200H 200H 2025/01/02"
	case command.ReasonMaintDate:
		return "⚠️ 格式錯誤，上次保養時間 ex: 更新設備 100K-3 出庫 1200H 200H 2025/01/02"
	case command.ReasonRemoveFormat:
		return "⚠️ 格式錯誤，請使用「移除設備」獲取正確格式！"
	case command.ReasonQueryFormat:
		return "❌ 格式錯誤，請使用「查詢設備 設備編號」\n範例：查詢設備 100K-3"
	case command.ReasonAdminAddFormat:
		return "⚠️ 格式錯誤！請使用「新增管理 {UserID}」"
	case command.ReasonAdminRemoveFormat:
		return "⚠️ 格式錯誤！請使用「移除管理 {UserID}」"
	case command.ReasonReportDate:
		return "⚠️ 格式錯誤，請依照範本輸入！\n範例：100K-3 出庫 1200H 2029/07/09 台北大佳河濱公園"
	default:
		return NoMatch()
	}
}

// Permission denials. Privileged device commands share one message; the
// admin registry commands have their own.

func NoPermission() string {
	return "❌ 你沒有權限"
}

func NoPermissionListAdmins() string {
	return "❌ 你沒有權限查看管理者。"
}

func NoPermissionAdminAdd() string {
	return "❌ 你沒有權限新增管理員。"
}

func NoPermissionAdminRemove() string {
	return "❌ 你沒有權限移除管理員。"
}

// AdminList renders the admin roster in insertion order.
func AdminList(ids []string) string {
	if len(ids) == 0 {
		return "👮‍♂️ **目前管理員列表**：\n⚠️ 尚無管理員"
	}
	var b strings.Builder
	b.WriteString("👮‍♂️ **目前管理員列表**：\n")
	for i, id := range ids {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "#%d - %s", i+1, id)
	}
	return b.String()
}

// AdminAdded confirms a new admin.
func AdminAdded(id string) string {
	return "✅ 已成功新增管理員：" + id
}

// AlreadyAdmin reports a duplicate add.
func AlreadyAdmin() string {
	return "⚠️ 該使用者已經是管理員！"
}

// AdminRemoved confirms a removal.
func AdminRemoved(id string) string {
	return "✅ 已成功移除管理員：" + id
}

// NotAdmin reports a removal of a non-member.
func NotAdmin() string {
	return "⚠️ 該使用者不是管理員！"
}

// DeviceNotFound is the not-found reply for commands requiring an
// existing record.
func DeviceNotFound(deviceNo string) string {
	return fmt.Sprintf("❌ 設備 %s 不存在，請先新增設備！", deviceNo)
}

// DeviceCreated confirms a fresh AddDevice insert.
func DeviceCreated(deviceNo string) string {
	return fmt.Sprintf("✅ 設備 %s 已成功新增或更新！", deviceNo)
}

// DeviceUpdated confirms an UpdateDevice write.
func DeviceUpdated(deviceNo string) string {
	return fmt.Sprintf("✅ 設備 %s 已成功更新！", deviceNo)
}

// DeviceRemoved confirms a RemoveDevice write.
func DeviceRemoved(deviceNo string) string {
	return fmt.Sprintf("✅ 設備 %s 已成功移除！", deviceNo)
}

// AddDeviceRefreshed is the detailed reply when AddDevice hits an existing
// record and refreshes it.
func AddDeviceRefreshed(dev *device.Device, lastMaintenanceDate string, lastMaintenanceHours, hoursSince int) string {
	last := lastMaintenanceDate
	if last == "" {
		last = "未知"
	}
	return fmt.Sprintf("✅ 設備 %s 更新成功！\n"+
		"📌 狀態：%s\n"+
		"⏳ 運轉時數：%dH\n"+
		"📅 日期：%s\n"+
		"📍 地點：%s\n\n"+
		"📌 上次保養時間：%s\n"+
		"📌 上次保養時數：%d\n"+
		"🛠️ 距離保養：%dH",
		dev.DeviceNo, dev.Status, dev.RunHours, dev.RecordDate, dev.Location,
		last, lastMaintenanceHours, hoursSince)
}

// DeviceSummary renders the QueryDevice result. Absent optional fields
// render as 未知.
func DeviceSummary(dev *device.Device) string {
	status := string(dev.Status)
	if status == "" {
		status = "未知"
	}
	location := dev.Location
	if location == "" {
		location = "未知"
	}
	lastMaintenance := dev.LastMaintenanceDate
	if lastMaintenance == "" {
		lastMaintenance = "未知"
	}
	return fmt.Sprintf("📋 **設備資訊**\n"+
		"📌 設備編號：%s\n"+
		"🔄 設備狀態：%s\n"+
		"⏳ 當前運轉時數：%dH\n"+
		"📅 記錄日期：%s\n"+
		"🏠 位置：%s\n"+
		"🛠️ 上次保養時間：%s\n"+
		"🛠️ 第一道柴油是否更換：%t\n"+
		"⏳ 上次保養時數：%dH",
		dev.DeviceNo, status, dev.RunHours, dev.RecordDate, location,
		lastMaintenance, dev.FirstDieselReplaced, dev.LastMaintenanceHours)
}

// DeviceList renders the admin-gated device roster in insertion order.
func DeviceList(devs []*device.Device) string {
	if len(devs) == 0 {
		return "📋 設備列表：\n⚠️ 尚無設備"
	}
	var b strings.Builder
	b.WriteString("📋 設備列表：")
	for i, dev := range devs {
		status := string(dev.Status)
		if status == "" {
			status = "未知"
		}
		location := dev.Location
		if location == "" {
			location = "未知"
		}
		fmt.Fprintf(&b, "\n#%d %s｜%s｜%dH｜%s", i+1, dev.DeviceNo, status, dev.RunHours, location)
	}
	return b.String()
}

// AnomalousReport is the warning for a run-hours regression. No write
// happened.
func AnomalousReport(reported, lastMaintenanceHours int) string {
	return fmt.Sprintf("⚠️ 異常回報！當前運轉時數 (%dH) 低於上次保養時數 (%dH)，請確認後重新輸入。",
		reported, lastMaintenanceHours)
}

// Report renders the reply for an accepted status report.
func Report(r device.Report, out device.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ 設備回報成功！\n"+
		"📌 設備編號: %s\n"+
		"📅 日期: %s\n"+
		"🏠 地點: %s\n"+
		"🔄 設備狀態: %s\n"+
		"⏳ 當前運轉時數: %dH",
		r.DeviceNo, r.Date, r.Location, r.StatusWord, r.RunHours)

	if out.LastMaintenanceDate != "" {
		fmt.Fprintf(&b, "\n🛠️ 上次保養時間: %s", out.LastMaintenanceDate)
	} else {
		b.WriteString("\n🛠️ 上次保養時間: 未知")
	}
	if out.LastMaintenanceHours > 0 {
		fmt.Fprintf(&b, "\n⏳ 上次保養時數: %dH", out.LastMaintenanceHours)
	}

	switch out.Reminder {
	case device.ReminderMajorService:
		fmt.Fprintf(&b, "\n⚠️ 提醒：設備 **%s** 需要 **大保養**，已運轉 **%dH**。\n"+
			"請保養完成後回報 **保養完成** 以解除提醒。",
			r.DeviceNo, out.HoursSinceMaintenance)
	case device.ReminderDieselReplace:
		fmt.Fprintf(&b, "\n⚠️ 提醒：設備 **%s** 需要 **更換第一道柴油**，已運轉 **%dH**。\n"+
			"請更換完畢後回報 **更換第一道柴油** 以解除提醒。",
			r.DeviceNo, out.HoursSinceMaintenance)
	}

	switch device.Status(r.StatusWord) {
	case device.StatusMaintenanceDone:
		fmt.Fprintf(&b, "\n✅ **保養完成**，系統已更新設備資訊！\n"+
			"📅 新的上次保養時間：%s\n"+
			"⏳ 新的上次保養時數：%dH\n"+
			"🔄 **更換第一道柴油提醒已重置，下一次 250H 後將重新觸發提醒！**",
			r.Date, r.RunHours)
	case device.StatusDieselReplaced:
		b.WriteString("\n✅ **更換第一道柴油** 完成，提醒已解除。")
	}

	return b.String()
}

// Backend failure texts. Full detail goes to the logs; users get a generic
// retry-later message.

func GenericError() string {
	return "❌ 發生錯誤，請稍後再試！"
}

func UpdateFailed() string {
	return "❌ 更新設備失敗，請稍後再試。"
}

func RemoveFailed() string {
	return "❌ 移除設備失敗，請稍後再試。"
}

func QueryFailed() string {
	return "⚠️ 查詢設備失敗，請稍後再試。"
}
