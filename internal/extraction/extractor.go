package extraction

import (
	"context"
	"sync"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/api"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/capture"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/patient"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/monitoring"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ExtractionAPI is the slice of the remote client the extractor needs
type ExtractionAPI interface {
	ExtractDocument(ctx context.Context, image *types.CapturedImage) (*api.ExtractionResult, error)
}

// Status distinguishes the two non-error endings of an extraction attempt.
// A service that answered but read nothing usable is not a failure; the
// form simply stays manual.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusNoFields  Status = "no_fields"
)

// Attempt is the result of one extraction run
type Attempt struct {
	Status  Status
	Fields  types.ExtractedFields
	RawText string
}

// Extractor captures an identity document and pulls patient fields out of it.
// The document image is held between attempts so a flaky network call can be
// retried without reopening the camera.
type Extractor struct {
	adapter capture.Adapter
	client  ExtractionAPI
	logger  *logger.Logger
	metrics *monitoring.MetricsCollector

	mu    sync.Mutex
	image *types.CapturedImage
}

// NewExtractor creates a document extractor
func NewExtractor(adapter capture.Adapter, client ExtractionAPI, log *logger.Logger, metrics *monitoring.MetricsCollector) *Extractor {
	return &Extractor{
		adapter: adapter,
		client:  client,
		logger:  log,
		metrics: metrics,
	}
}

// CaptureDocument acquires a fresh document image, replacing any held one.
// Cancellation and permission denial keep the previous image, if any.
func (e *Extractor) CaptureDocument(ctx context.Context, source types.CaptureSource, opts capture.Options) error {
	img, err := e.adapter.Capture(ctx, source, opts)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.image = img
	return nil
}

// Image returns the held document image, if any
func (e *Extractor) Image() *types.CapturedImage {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.image
}

// Clear drops the held document image
func (e *Extractor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.image = nil
}

// Extract submits the held document and reports what could be read. Errors
// from the service or the network come back as errors; an answer with no
// usable fields comes back as StatusNoFields.
func (e *Extractor) Extract(ctx context.Context) (*Attempt, error) {
	e.mu.Lock()
	image := e.image
	e.mu.Unlock()

	if image == nil {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "no document image captured", nil)
	}

	result, err := e.client.ExtractDocument(ctx, image)
	if err != nil {
		e.record("error")
		return nil, err
	}

	if result.Fields.IsEmpty() {
		e.record("no_fields")
		e.logger.WithComponent("extraction").Info("Document produced no usable fields")
		return &Attempt{Status: StatusNoFields, RawText: result.RawText}, nil
	}

	e.record("ok")
	return &Attempt{
		Status:  StatusExtracted,
		Fields:  result.Fields,
		RawText: result.RawText,
	}, nil
}

// ExtractInto runs an extraction and merges any fields into the patient
// draft. Only blank form fields are filled; the attempt is returned so the
// screen can tell the user what happened.
func (e *Extractor) ExtractInto(ctx context.Context, draft *patient.Draft) (*Attempt, error) {
	attempt, err := e.Extract(ctx)
	if err != nil {
		return nil, err
	}
	if attempt.Status == StatusExtracted {
		draft.FillBlanks(attempt.Fields)
	}
	return attempt, nil
}

func (e *Extractor) record(result string) {
	if e.metrics != nil {
		e.metrics.RecordExtraction(result)
	}
}
