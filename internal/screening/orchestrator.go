package screening

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/api"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/capture"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ScreeningAPI is the slice of the remote client the orchestrator needs
type ScreeningAPI interface {
	UploadScreening(ctx context.Context, image *types.CapturedImage, patientID string) (*types.UploadHandle, error)
	ProcessScreening(ctx context.Context, handle *types.UploadHandle) (*api.ProcessReport, error)
}

// Orchestrator drives one screening session for one patient from capture
// through upload and remote analysis to a terminal outcome. Each screen
// instance owns exactly one orchestrator; nothing here is shared across
// screens. The single-flight guarantee for processing is a state check, not
// a semaphore: a trigger while Processing is simply a no-op.
type Orchestrator struct {
	id         string
	patientID  string
	adapter    capture.Adapter
	client     ScreeningAPI
	classifier QualityClassifier
	logger     *logger.Logger
	metrics    *monitoring.MetricsCollector

	mu         sync.Mutex
	state      types.WorkflowState
	image      *types.CapturedImage
	handle     *types.UploadHandle
	outcome    *types.ScreeningOutcome
	generation int
	discarded  bool
}

// NewOrchestrator creates a screening workflow for the given patient
func NewOrchestrator(patientID string, adapter capture.Adapter, client ScreeningAPI, classifier QualityClassifier, log *logger.Logger, metrics *monitoring.MetricsCollector) *Orchestrator {
	if classifier == nil {
		classifier = DefaultQualityClassifier()
	}
	return &Orchestrator{
		id:         uuid.New().String(),
		patientID:  patientID,
		adapter:    adapter,
		client:     client,
		classifier: classifier,
		logger:     log,
		metrics:    metrics,
		state:      types.StateIdle,
	}
}

// ID returns the workflow instance identifier
func (o *Orchestrator) ID() string { return o.id }

// State returns the current workflow state
func (o *Orchestrator) State() types.WorkflowState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Image returns the currently held captured image, if any
func (o *Orchestrator) Image() *types.CapturedImage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.image
}

// Outcome returns the terminal outcome, or nil before the workflow ends
func (o *Orchestrator) Outcome() *types.ScreeningOutcome {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.outcome
}

// Capture acquires an image for this screening. Cancellation and permission
// denial leave the workflow exactly where it was.
func (o *Orchestrator) Capture(ctx context.Context, source types.CaptureSource, opts capture.Options) error {
	o.mu.Lock()
	if o.state != types.StateIdle {
		o.mu.Unlock()
		return types.NewValidationError(types.ErrCodeInvalidInput, "a capture is only possible before an image is held", nil)
	}
	prior := o.state
	o.state = types.StateCapturing
	o.mu.Unlock()

	img, err := o.adapter.Capture(ctx, source, opts)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		// Cancelled and PermissionDenied are not workflow events
		o.state = prior
		var screenErr *types.ScreenError
		if errors.As(err, &screenErr) && (screenErr.Type == types.ErrorTypeCancelled || screenErr.Type == types.ErrorTypePermission) {
			o.logger.WithComponent("screening").WithField("workflow_id", o.id).Info("Capture declined")
		}
		return err
	}

	o.image = img
	o.transition(types.StateCaptured)
	return nil
}

// Upload transmits the held image and obtains the processing handle. Only
// valid once an image is held; the state moves to Uploaded strictly after
// the handle exists.
func (o *Orchestrator) Upload(ctx context.Context) error {
	o.mu.Lock()
	if o.state != types.StateCaptured {
		o.mu.Unlock()
		return types.NewValidationError(types.ErrCodeInvalidInput, "no captured image ready to upload", nil)
	}
	image := o.image
	gen := o.generation
	o.transition(types.StateUploading)
	o.mu.Unlock()

	handle, err := o.client.UploadScreening(ctx, image, o.patientID)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.discarded || gen != o.generation {
		// The user has moved on; the response is inert
		return nil
	}

	if err != nil {
		o.recordUpload("failed")
		var screenErr *types.ScreenError
		if errors.As(err, &screenErr) && screenErr.Type == types.ErrorTypeAuthentication {
			// Session is gone: stop here and let the caller re-authenticate
			o.state = types.StateCaptured
			return err
		}
		// The image is retained; resubmission needs no recapture
		o.state = types.StateCaptured
		return err
	}

	o.handle = handle
	o.recordUpload("ok")
	o.transition(types.StateUploaded)
	return nil
}

// Process triggers the remote analysis for the uploaded image and resolves
// the terminal outcome. Calling it again while an analysis is in flight for
// this handle is a no-op; no duplicate remote request is issued.
func (o *Orchestrator) Process(ctx context.Context) error {
	o.mu.Lock()
	if o.state == types.StateProcessing {
		o.mu.Unlock()
		o.logger.WithComponent("screening").WithField("workflow_id", o.id).Debug("Processing already in flight, ignoring trigger")
		return nil
	}
	if o.state != types.StateUploaded {
		o.mu.Unlock()
		return types.NewValidationError(types.ErrCodeInvalidInput, "no uploaded image to process", nil)
	}
	handle := o.handle
	image := o.image
	gen := o.generation
	o.transition(types.StateProcessing)
	o.mu.Unlock()

	report, err := o.client.ProcessScreening(ctx, handle)

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.discarded || gen != o.generation {
		return nil
	}

	if err != nil {
		var screenErr *types.ScreenError
		if errors.As(err, &screenErr) {
			switch {
			case screenErr.Type == types.ErrorTypeAuthentication:
				// Not a terminal outcome; re-login then trigger again
				o.state = types.StateUploaded
				return err
			case screenErr.Type == types.ErrorTypeRejected && o.classifier.IsQualityIssue(screenErr.Message):
				o.settle(&types.ScreeningOutcome{
					Kind: types.OutcomeQualityRejected,
					QualityRejected: &types.QualityRejectedOutcome{
						Reason:        screenErr.Message,
						OriginalImage: originalRef(image),
					},
				})
				return nil
			}
			o.settle(&types.ScreeningOutcome{
				Kind:   types.OutcomeFailed,
				Failed: &types.FailedOutcome{Reason: screenErr.Message},
			})
			return nil
		}

		o.settle(&types.ScreeningOutcome{
			Kind:   types.OutcomeFailed,
			Failed: &types.FailedOutcome{Reason: "failed to process image, please try again"},
		})
		return nil
	}

	o.settle(&types.ScreeningOutcome{
		Kind: types.OutcomeSuccess,
		Success: &types.SuccessOutcome{
			Result:         report.Result,
			OriginalImage:  report.OriginalImage,
			SegmentedImage: report.SegmentedImage,
			Historical:     report.Historical,
		},
	})
	return nil
}

// Retake throws away the held image, any handle and any outcome, returning
// the workflow to Idle for a fresh capture.
func (o *Orchestrator) Retake() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.image = nil
	o.handle = nil
	o.outcome = nil
	o.generation++
	o.transition(types.StateIdle)
}

// Resubmit re-enters the upload path with the already-captured image after
// a failed or quality-rejected outcome. No recapture happens.
func (o *Orchestrator) Resubmit(ctx context.Context) error {
	o.mu.Lock()
	if o.state != types.StateTerminal {
		o.mu.Unlock()
		return types.NewValidationError(types.ErrCodeInvalidInput, "resubmit is only possible after a terminal outcome", nil)
	}
	if o.image == nil {
		o.mu.Unlock()
		return types.NewValidationError(types.ErrCodeInvalidInput, "no captured image to resubmit", nil)
	}
	o.handle = nil
	o.outcome = nil
	o.generation++
	o.transition(types.StateCaptured)
	o.mu.Unlock()

	return o.Upload(ctx)
}

// Discard marks the orchestrator as abandoned (the user navigated away).
// Any response still in flight is dropped on arrival; the server needs no
// cleanup call.
func (o *Orchestrator) Discard() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.discarded = true
}

// settle records the terminal outcome. Caller holds the lock.
func (o *Orchestrator) settle(outcome *types.ScreeningOutcome) {
	o.outcome = outcome
	o.transition(types.StateTerminal)
	if o.metrics != nil {
		o.metrics.RecordOutcome(string(outcome.Kind))
	}
	o.logger.WithComponent("screening").WithFields(map[string]interface{}{
		"workflow_id": o.id,
		"patient_id":  o.patientID,
		"outcome":     string(outcome.Kind),
	}).Info("Screening workflow settled")
}

// transition updates the state with a log line. Caller holds the lock.
func (o *Orchestrator) transition(to types.WorkflowState) {
	from := o.state
	o.state = to
	o.logger.Workflow(o.id, string(from), string(to), nil)
}

func (o *Orchestrator) recordUpload(status string) {
	if o.metrics != nil {
		o.metrics.RecordUpload(status)
	}
}

// originalRef prefers the local URI so the rejected shot can be reviewed
// without another download.
func originalRef(image *types.CapturedImage) string {
	if image == nil {
		return ""
	}
	return image.LocalURI
}
