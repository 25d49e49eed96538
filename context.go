package gohris

import "context"

type deviceIDContextKey struct{}

// WithDeviceID attaches a device or kiosk identifier to ctx. The Manager
// includes it in audit events so sessions opened from shared terminals can
// be traced.
func WithDeviceID(ctx context.Context, deviceID string) context.Context {
	return context.WithValue(ctx, deviceIDContextKey{}, deviceID)
}

// DeviceIDFromContext reports the device identifier attached by
// [WithDeviceID], if any.
func DeviceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	deviceID, _ := ctx.Value(deviceIDContextKey{}).(string)
	if deviceID == "" {
		return "", false
	}

	return deviceID, true
}
