package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/equiptrack/linebot-go/internal/device"
	apperrors "github.com/equiptrack/linebot-go/internal/errors"
)

// platformDevice is the wire representation of a device.
type platformDevice struct {
	ID                    string `json:"id,omitempty"`
	DeviceNo              string `json:"deviceNo"`
	Status                string `json:"status"`
	RunHours              int    `json:"runHours"`
	Date                  string `json:"date"`
	Location              string `json:"location"`
	LastMaintenanceDate   string `json:"lastMaintenanceDate,omitempty"`
	LastMaintenanceHours  int    `json:"lastMaintenanceHours,omitempty"`
	IsFirstDieselReplaced bool   `json:"isFirstDieselReplaced"`
}

func (p *platformDevice) toDevice() *device.Device {
	return &device.Device{
		DeviceNo:             p.DeviceNo,
		Status:               device.Status(p.Status),
		RunHours:             p.RunHours,
		RecordDate:           p.Date,
		Location:             p.Location,
		LastMaintenanceDate:  p.LastMaintenanceDate,
		LastMaintenanceHours: p.LastMaintenanceHours,
		FirstDieselReplaced:  p.IsFirstDieselReplaced,
	}
}

func fromDevice(dev *device.Device) platformDevice {
	return platformDevice{
		DeviceNo:              dev.DeviceNo,
		Status:                string(dev.Status),
		RunHours:              dev.RunHours,
		Date:                  dev.RecordDate,
		Location:              dev.Location,
		LastMaintenanceDate:   dev.LastMaintenanceDate,
		LastMaintenanceHours:  dev.LastMaintenanceHours,
		IsFirstDieselReplaced: dev.FirstDieselReplaced,
	}
}

// Session is a token-bound view of the platform API.
// It implements device.Repository for a single signed-in user.
type Session struct {
	client *Client
	token  string
}

// NewSession binds a bearer token to the client.
func NewSession(client *Client, token string) *Session {
	return &Session{client: client, token: token}
}

// FindByDeviceNo retrieves a device by its number.
// Returns ErrNotFound when the platform reports no such device.
func (s *Session) FindByDeviceNo(ctx context.Context, deviceNo string) (*device.Device, error) {
	dev, _, err := s.find(ctx, deviceNo)
	return dev, err
}

// find returns both the device and its platform-assigned ID.
// Mutating endpoints address devices by ID, not device number.
func (s *Session) find(ctx context.Context, deviceNo string) (*device.Device, string, error) {
	path := "/platform/device/deviceNo/" + url.PathEscape(deviceNo)
	env, status, err := s.client.do(ctx, http.MethodGet, path, s.token, nil)
	if err != nil {
		return nil, "", err
	}
	if env.Code == codeNotFound {
		return nil, "", apperrors.NewWrapper("apiclient", "find_device").
			Wrapf(apperrors.ErrNotFound, "設備 %s 不存在", deviceNo)
	}
	if status != http.StatusOK {
		return nil, "", apperrors.NewBackendError(path, status,
			fmt.Errorf("find device rejected: %s", env.Message))
	}

	var pd platformDevice
	if err := json.Unmarshal(env.Data, &pd); err != nil {
		return nil, "", fmt.Errorf("decode device response: %w", err)
	}

	return pd.toDevice(), pd.ID, nil
}

// Upsert creates the device with defaults when missing, then applies the patch.
func (s *Session) Upsert(ctx context.Context, deviceNo string, patch device.Patch) (*device.Device, error) {
	dev, id, err := s.find(ctx, deviceNo)
	if apperrors.IsNotFound(err) {
		dev = &device.Device{
			DeviceNo:   deviceNo,
			Status:     device.DefaultStatus,
			RecordDate: device.Today(),
			Location:   device.DefaultLocation,
		}
		patch.Apply(dev)
		return s.create(ctx, dev)
	}
	if err != nil {
		return nil, err
	}

	patch.Apply(dev)
	return s.patch(ctx, id, dev)
}

// Update applies the patch to an existing device.
// Returns ErrNotFound when the device does not exist.
func (s *Session) Update(ctx context.Context, deviceNo string, patch device.Patch) (*device.Device, error) {
	dev, id, err := s.find(ctx, deviceNo)
	if err != nil {
		return nil, err
	}

	patch.Apply(dev)
	return s.patch(ctx, id, dev)
}

// Delete removes a device.
// Returns ErrNotFound when the device does not exist.
func (s *Session) Delete(ctx context.Context, deviceNo string) error {
	_, id, err := s.find(ctx, deviceNo)
	if err != nil {
		return err
	}

	path := "/platform/device/" + url.PathEscape(id)
	env, status, err := s.client.do(ctx, http.MethodDelete, path, s.token, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return apperrors.NewBackendError(path, status,
			fmt.Errorf("delete device rejected: %s", env.Message))
	}

	return nil
}

// List returns all devices registered on the platform.
func (s *Session) List(ctx context.Context) ([]*device.Device, error) {
	env, status, err := s.client.do(ctx, http.MethodGet, "/platform/device", s.token, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.NewBackendError("/platform/device", status,
			fmt.Errorf("list devices rejected: %s", env.Message))
	}

	var wire []platformDevice
	if err := json.Unmarshal(env.Data, &wire); err != nil {
		return nil, fmt.Errorf("decode device list: %w", err)
	}

	devices := make([]*device.Device, 0, len(wire))
	for i := range wire {
		devices = append(devices, wire[i].toDevice())
	}

	return devices, nil
}

func (s *Session) create(ctx context.Context, dev *device.Device) (*device.Device, error) {
	env, status, err := s.client.do(ctx, http.MethodPost, "/platform/device", s.token, fromDevice(dev))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, apperrors.NewBackendError("/platform/device", status,
			fmt.Errorf("create device rejected: %s", env.Message))
	}

	return dev, nil
}

func (s *Session) patch(ctx context.Context, id string, dev *device.Device) (*device.Device, error) {
	path := "/platform/device/" + url.PathEscape(id)
	env, status, err := s.client.do(ctx, http.MethodPatch, path, s.token, fromDevice(dev))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apperrors.NewBackendError(path, status,
			fmt.Errorf("update device rejected: %s", env.Message))
	}

	return dev, nil
}
