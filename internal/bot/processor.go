// Package bot executes parsed commands against the device repository
// and renders reply text.
package bot

import (
	"context"
	"time"

	"github.com/equiptrack/linebot-go/internal/admin"
	"github.com/equiptrack/linebot-go/internal/command"
	"github.com/equiptrack/linebot-go/internal/device"
	apperrors "github.com/equiptrack/linebot-go/internal/errors"
	"github.com/equiptrack/linebot-go/internal/logger"
	"github.com/equiptrack/linebot-go/internal/metrics"
	"github.com/equiptrack/linebot-go/internal/reply"
)

// Processor handles the core logic of processing chat messages.
// It parses the text, enforces permissions, runs repository
// operations, and renders the reply.
type Processor struct {
	admins   *admin.Registry
	provider device.Provider
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Admins   *admin.Registry
	Provider device.Provider
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

// NewProcessor creates a new command processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		admins:   cfg.Admins,
		provider: cfg.Provider,
		logger:   cfg.Logger.WithModule("bot"),
		metrics:  cfg.Metrics,
	}
}

// HandleText processes one text message from userID and returns the
// reply text. It never returns an empty string for recognized input.
func (p *Processor) HandleText(ctx context.Context, userID, text string) string {
	start := time.Now()
	cmd := command.Parse(text)

	text, status := p.dispatch(ctx, userID, cmd)
	p.metrics.RecordCommand(cmd.Kind.String(), status, time.Since(start).Seconds())

	return text
}

func (p *Processor) dispatch(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	switch cmd.Kind {
	case command.KindMenu:
		return reply.Menu(), "ok"
	case command.KindTemplate:
		return reply.Template(), "ok"
	case command.KindWhoAmI:
		return reply.WhoAmI(userID), "ok"
	case command.KindAddUsage:
		return reply.AddUsage(), "ok"
	case command.KindUpdateUsage:
		return reply.UpdateUsage(), "ok"
	case command.KindRemoveUsage:
		return reply.RemoveUsage(), "ok"
	case command.KindQueryUsage:
		return reply.QueryUsage(), "ok"

	case command.KindInvalid:
		return reply.Invalid(cmd.Reason), "invalid"

	case command.KindListAdmins:
		if !p.admins.Contains(userID) {
			return reply.NoPermissionListAdmins(), "denied"
		}
		return reply.AdminList(p.admins.List()), "ok"

	case command.KindAdminAdd:
		if !p.admins.IsDeveloper(userID) {
			return reply.NoPermissionAdminAdd(), "denied"
		}
		if !p.admins.Add(cmd.TargetUserID) {
			return reply.AlreadyAdmin(), "invalid"
		}
		return reply.AdminAdded(cmd.TargetUserID), "ok"

	case command.KindAdminRemove:
		if !p.admins.IsDeveloper(userID) {
			return reply.NoPermissionAdminRemove(), "denied"
		}
		if !p.admins.Remove(cmd.TargetUserID) {
			return reply.NotAdmin(), "invalid"
		}
		return reply.AdminRemoved(cmd.TargetUserID), "ok"

	case command.KindListDevices:
		if !p.admins.Contains(userID) {
			return reply.NoPermission(), "denied"
		}
		return p.listDevices(ctx, userID)

	case command.KindAddDevice:
		if !p.admins.Contains(userID) {
			return reply.NoPermission(), "denied"
		}
		return p.addDevice(ctx, userID, cmd)

	case command.KindUpdateDevice:
		if !p.admins.Contains(userID) {
			return reply.NoPermission(), "denied"
		}
		return p.updateDevice(ctx, userID, cmd)

	case command.KindRemoveDevice:
		if !p.admins.Contains(userID) {
			return reply.NoPermission(), "denied"
		}
		return p.removeDevice(ctx, userID, cmd)

	case command.KindQueryDevice:
		return p.queryDevice(ctx, userID, cmd)

	case command.KindReport:
		return p.report(ctx, userID, cmd)

	default:
		return reply.NoMatch(), "no_match"
	}
}

// session opens a repository session for the user.
func (p *Processor) session(ctx context.Context, userID string) (device.Repository, error) {
	repo, err := p.provider.Session(ctx, userID)
	if err != nil {
		p.logger.WithError(err).Errorf("Failed to open repository session for user %s", userID)
		return nil, err
	}
	return repo, nil
}

func (p *Processor) listDevices(ctx context.Context, userID string) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	devices, err := repo.List(ctx)
	if err != nil {
		p.logger.WithError(err).Errorf("Failed to list devices")
		return reply.QueryFailed(), "error"
	}

	return reply.DeviceList(devices), "ok"
}

// addDevice creates the device when missing; when it already exists
// the supplied values refresh the record and the reply carries the
// full post-update state.
func (p *Processor) addDevice(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	date := cmd.Date
	if date == "" {
		date = device.Today()
	}
	location := cmd.Location
	if location == "" {
		location = device.DefaultLocation
	}
	patch := device.Patch{
		Status:     device.StatusPtr(cmd.Status),
		RunHours:   device.IntPtr(cmd.RunHours),
		RecordDate: device.StringPtr(date),
		Location:   device.StringPtr(location),
	}

	_, err = repo.FindByDeviceNo(ctx, cmd.DeviceNo)
	existed := err == nil
	if err != nil && !apperrors.IsNotFound(err) {
		p.logger.WithError(err).Errorf("Failed to look up device %s", cmd.DeviceNo)
		return reply.GenericError(), "error"
	}

	dev, err := repo.Upsert(ctx, cmd.DeviceNo, patch)
	if err != nil {
		p.logger.WithError(err).Errorf("Failed to add device %s", cmd.DeviceNo)
		return reply.GenericError(), "error"
	}

	if existed {
		hoursSince := dev.RunHours - dev.LastMaintenanceHours
		return reply.AddDeviceRefreshed(dev, dev.LastMaintenanceDate, dev.LastMaintenanceHours, hoursSince), "ok"
	}
	return reply.DeviceCreated(cmd.DeviceNo), "ok"
}

func (p *Processor) updateDevice(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	patch := device.Patch{
		Status:               device.StatusPtr(cmd.Status),
		RunHours:             device.IntPtr(cmd.RunHours),
		RecordDate:           device.StringPtr(device.Today()),
		Location:             device.StringPtr(device.DefaultLocation),
		LastMaintenanceHours: device.IntPtr(cmd.MaintenanceHours),
		LastMaintenanceDate:  device.StringPtr(cmd.MaintenanceDate),
	}

	if _, err := repo.Update(ctx, cmd.DeviceNo, patch); err != nil {
		if apperrors.IsNotFound(err) {
			return reply.DeviceNotFound(cmd.DeviceNo), "not_found"
		}
		p.logger.WithError(err).Errorf("Failed to update device %s", cmd.DeviceNo)
		return reply.UpdateFailed(), "error"
	}

	return reply.DeviceUpdated(cmd.DeviceNo), "ok"
}

func (p *Processor) removeDevice(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	if err := repo.Delete(ctx, cmd.DeviceNo); err != nil {
		if apperrors.IsNotFound(err) {
			return reply.DeviceNotFound(cmd.DeviceNo), "not_found"
		}
		p.logger.WithError(err).Errorf("Failed to remove device %s", cmd.DeviceNo)
		return reply.RemoveFailed(), "error"
	}

	return reply.DeviceRemoved(cmd.DeviceNo), "ok"
}

func (p *Processor) queryDevice(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	dev, err := repo.FindByDeviceNo(ctx, cmd.DeviceNo)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return reply.DeviceNotFound(cmd.DeviceNo), "not_found"
		}
		p.logger.WithError(err).Errorf("Failed to query device %s", cmd.DeviceNo)
		return reply.QueryFailed(), "error"
	}

	return reply.DeviceSummary(dev), "ok"
}

// report runs the maintenance policy on a status report. The first
// report for an unseen device creates the record.
func (p *Processor) report(ctx context.Context, userID string, cmd *command.Command) (string, string) {
	repo, err := p.session(ctx, userID)
	if err != nil {
		return reply.GenericError(), "error"
	}

	dev, err := repo.FindByDeviceNo(ctx, cmd.DeviceNo)
	if err != nil && !apperrors.IsNotFound(err) {
		p.logger.WithError(err).Errorf("Failed to look up device %s", cmd.DeviceNo)
		return reply.GenericError(), "error"
	}

	r := device.Report{
		DeviceNo:   cmd.DeviceNo,
		StatusWord: cmd.StatusWord,
		RunHours:   cmd.RunHours,
		Date:       cmd.Date,
		Location:   cmd.Location,
	}

	out, err := device.Evaluate(dev, r)
	if err != nil {
		switch {
		case apperrors.IsInvalidInput(err):
			return reply.Invalid(command.ReasonReportDate), "invalid"
		case apperrors.IsAnomalousReport(err):
			lastHours := 0
			if dev != nil {
				lastHours = dev.LastMaintenanceHours
			}
			return reply.AnomalousReport(cmd.RunHours, lastHours), "anomalous"
		default:
			p.logger.WithError(err).Errorf("Failed to evaluate report for device %s", cmd.DeviceNo)
			return reply.GenericError(), "error"
		}
	}

	if _, err := repo.Upsert(ctx, cmd.DeviceNo, out.Patch); err != nil {
		p.logger.WithError(err).Errorf("Failed to persist report for device %s", cmd.DeviceNo)
		return reply.GenericError(), "error"
	}

	if out.Reminder != device.ReminderNone {
		p.metrics.RecordReminder(out.Reminder.String())
	}

	return reply.Report(r, out), "ok"
}
