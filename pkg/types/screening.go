package types

import "time"

// WorkflowState tracks a capture-and-processing session. Each screen-level
// workflow instance owns exactly one; there is no cross-instance sharing.
type WorkflowState string

const (
	StateIdle       WorkflowState = "idle"
	StateCapturing  WorkflowState = "capturing"
	StateCaptured   WorkflowState = "captured"
	StateUploading  WorkflowState = "uploading"
	StateUploaded   WorkflowState = "uploaded"
	StateProcessing WorkflowState = "processing"
	StateTerminal   WorkflowState = "terminal"
)

// UploadHandle correlates a durably stored image with subsequent processing
// requests. It is never constructed for a failed upload.
type UploadHandle struct {
	ScreeningID string `json:"screening_id"`
}

// OutcomeKind tags the terminal outcome of a screening workflow
type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeQualityRejected OutcomeKind = "quality_rejected"
	OutcomeFailed          OutcomeKind = "failed"
)

// HistoricalComparison carries the patient's previous measurement, when the
// server returns one alongside a fresh result.
type HistoricalComparison struct {
	PreviousHbValue float64   `json:"previous_hb_value"`
	MeasurementDate time.Time `json:"measurement_date"`
}

// ScreeningResult is the analyzed measurement for a successful screening
type ScreeningResult struct {
	HemoglobinValue float64   `json:"hemoglobin_value"`
	ConfidenceScore float64   `json:"confidence_score"`
	Timestamp       time.Time `json:"timestamp"`
}

// ScreeningOutcome is the terminal result bundle handed to the presenter.
// Exactly one of Success, QualityRejected or Failed is populated, selected
// by Kind; presenters switch exhaustively over the three.
type ScreeningOutcome struct {
	Kind            OutcomeKind
	Success         *SuccessOutcome
	QualityRejected *QualityRejectedOutcome
	Failed          *FailedOutcome
}

// SuccessOutcome carries a completed hemoglobin analysis
type SuccessOutcome struct {
	Result         ScreeningResult
	OriginalImage  string
	SegmentedImage string
	Historical     *HistoricalComparison
}

// QualityRejectedOutcome marks an image the server received but judged
// unusable (not clear or not bright enough). The original image is retained
// so the user can review what was rejected; no segmented image exists.
type QualityRejectedOutcome struct {
	Reason        string
	OriginalImage string
}

// FailedOutcome marks a transport or server failure unrelated to image quality
type FailedOutcome struct {
	Reason string
}
