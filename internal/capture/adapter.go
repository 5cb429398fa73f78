package capture

import (
	"context"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// Well-known capture outcomes. Cancellation is not a fault: the caller keeps
// its current workflow state. Permission denial is user-recoverable; the
// adapter re-prompts on the next call rather than locking the source out.
var (
	ErrCancelled        = types.ScreenError{Type: types.ErrorTypeCancelled, Code: types.ErrCodeCancelled, Message: "capture cancelled by user"}
	ErrPermissionDenied = types.ScreenError{Type: types.ErrorTypePermission, Code: types.ErrCodePermissionDenied, Message: "device permission was not granted"}
)

// Cancelled returns the cancellation sentinel
func Cancelled() *types.ScreenError {
	err := ErrCancelled
	return &err
}

// PermissionDenied returns the permission sentinel
func PermissionDenied() *types.ScreenError {
	err := ErrPermissionDenied
	return &err
}

// Options control a single capture request, mirroring the picker options the
// mobile app passes to the OS.
type Options struct {
	Quality   float64
	AspectW   int
	AspectH   int
	AllowEdit bool
}

// Adapter wraps camera and gallery access. Implementations return the image
// fully in memory; nothing is persisted beyond the platform's own temp URI.
type Adapter interface {
	// Capture acquires an image from the given source. Returns a
	// cancelled-typed error when the user backs out and a permission-typed
	// error when the OS permission is refused.
	Capture(ctx context.Context, source types.CaptureSource, opts Options) (*types.CapturedImage, error)

	// SaveToGallery writes a user-confirmed copy of the image to the device
	// gallery. This is a distinct opt-in operation; Capture never triggers it.
	SaveToGallery(ctx context.Context, img *types.CapturedImage) error
}
