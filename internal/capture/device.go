package capture

import (
	"context"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ShotResult is what a platform hook hands back for one capture attempt
type ShotResult struct {
	Cancelled bool
	URI       string
	Data      []byte
	MIMEType  string
}

// Platform abstracts the device-specific camera, picker and permission
// surfaces so the capture flow can run against any hardware backend (or a
// test double).
type Platform interface {
	// RequestPermission prompts for the permission scoped to source.
	// It is called on every capture attempt; the platform layer decides
	// whether the OS actually shows a dialog again.
	RequestPermission(ctx context.Context, source types.CaptureSource) (bool, error)

	// LaunchCamera opens the camera and blocks until a shot or cancellation
	LaunchCamera(ctx context.Context, opts Options) (*ShotResult, error)

	// LaunchPicker opens the media library picker
	LaunchPicker(ctx context.Context, opts Options) (*ShotResult, error)

	// SaveToLibrary writes image bytes into the device gallery
	SaveToLibrary(ctx context.Context, img *types.CapturedImage) error
}

// DeviceAdapter implements Adapter over pluggable platform hooks
type DeviceAdapter struct {
	platform Platform
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
	maxBytes int64
}

// NewDeviceAdapter creates a capture adapter for the given platform backend.
// The metrics collector may be nil.
func NewDeviceAdapter(platform Platform, log *logger.Logger, metrics *monitoring.MetricsCollector, maxBytes int64) *DeviceAdapter {
	return &DeviceAdapter{
		platform: platform,
		logger:   log,
		metrics:  metrics,
		maxBytes: maxBytes,
	}
}

// Capture acquires an image from the camera or gallery. Permission is
// requested lazily on every call; a previous denial never short-circuits
// the prompt.
func (a *DeviceAdapter) Capture(ctx context.Context, source types.CaptureSource, opts Options) (*types.CapturedImage, error) {
	log := a.logger.WithComponent("capture").WithField("source", string(source))

	granted, err := a.platform.RequestPermission(ctx, source)
	if err != nil {
		log.WithError(err).Error("Permission request failed")
		a.record(source, "error")
		return nil, types.NewInternalError(types.ErrCodeInternalError, "could not request device permission", err)
	}
	if !granted {
		log.Warn("Permission denied")
		a.record(source, "permission_denied")
		return nil, PermissionDenied()
	}

	var shot *ShotResult
	switch source {
	case types.SourceCamera:
		shot, err = a.platform.LaunchCamera(ctx, opts)
	case types.SourceGallery:
		shot, err = a.platform.LaunchPicker(ctx, opts)
	default:
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "unknown capture source", map[string]interface{}{"source": string(source)})
	}

	if err != nil {
		log.WithError(err).Error("Capture failed")
		a.record(source, "error")
		return nil, types.NewInternalError(types.ErrCodeInternalError, "could not capture image", err)
	}

	if shot.Cancelled {
		log.Info("Capture cancelled by user")
		a.record(source, "cancelled")
		return nil, Cancelled()
	}

	if len(shot.Data) == 0 {
		log.Error("Platform returned an empty image")
		a.record(source, "error")
		return nil, types.NewInternalError(types.ErrCodeInternalError, "capture produced no image data", nil)
	}

	if a.maxBytes > 0 && int64(len(shot.Data)) > a.maxBytes {
		log.WithField("size_bytes", len(shot.Data)).Warn("Captured image exceeds size limit")
		a.record(source, "too_large")
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "captured image is too large", map[string]interface{}{
			"size_bytes": len(shot.Data),
			"max_bytes":  a.maxBytes,
		})
	}

	mime := shot.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}

	a.record(source, "ok")
	return &types.CapturedImage{
		LocalURI: shot.URI,
		Data:     shot.Data,
		MIMEType: mime,
		Source:   source,
	}, nil
}

// SaveToGallery writes a user-confirmed copy of the image to the gallery
func (a *DeviceAdapter) SaveToGallery(ctx context.Context, img *types.CapturedImage) error {
	if img.Empty() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no image to save", nil)
	}

	granted, err := a.platform.RequestPermission(ctx, types.SourceGallery)
	if err != nil {
		return types.NewInternalError(types.ErrCodeInternalError, "could not request media library permission", err)
	}
	if !granted {
		return PermissionDenied()
	}

	if err := a.platform.SaveToLibrary(ctx, img); err != nil {
		a.logger.WithComponent("capture").WithError(err).Error("Failed to save image to gallery")
		return types.NewInternalError(types.ErrCodeInternalError, "failed to save photo to gallery", err)
	}

	a.logger.WithComponent("capture").Info("Photo saved to gallery")
	return nil
}

func (a *DeviceAdapter) record(source types.CaptureSource, result string) {
	if a.metrics != nil {
		a.metrics.RecordCapture(string(source), result)
	}
}
