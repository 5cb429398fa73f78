package api

import (
	"context"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ProcessReport is the decoded result of a completed analysis
type ProcessReport struct {
	Result         types.ScreeningResult
	OriginalImage  string
	SegmentedImage string
	Historical     *types.HistoricalComparison
}

// UploadScreening transmits a captured image for the given patient and
// returns the durable handle the service issued for it. The handle is only
// constructed on success; a failed upload yields no handle at all.
func (c *Client) UploadScreening(ctx context.Context, image *types.CapturedImage, patientID string) (*types.UploadHandle, error) {
	if image.Empty() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "no image to upload", nil)
	}
	if patientID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "a patient must be selected before uploading", nil)
	}

	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}

	c.logger.WithComponent("api").WithField("request_id", requestID).WithField("patient_id", patientID).Info("Uploading screening image")

	resp, err := req.
		SetBody(uploadRequest{
			ImageData: image.DataURI(),
			PatientID: patientID,
		}).
		Post("/api/screenings")

	var body uploadResponse
	if err := c.call("upload_screening", requestID, resp, err, &body); err != nil {
		return nil, err
	}

	if !body.Success || body.ScreeningID == "" {
		msg := serverMessage(body.Error, "", "failed to upload image, please try again")
		c.logger.WithComponent("api").WithField("request_id", requestID).WithField("server_error", body.Error).Warn("Upload rejected by server")
		return nil, types.NewRejectedError(types.ErrCodeUploadRejected, msg, nil)
	}

	return &types.UploadHandle{ScreeningID: string(body.ScreeningID)}, nil
}

// ProcessScreening asks the service to analyze a previously uploaded image.
// This is the one long call in the workflow; the server runs its model while
// we wait. A rejection comes back as a rejected-typed error carrying the
// server's message, which the orchestrator classifies further.
func (c *Client) ProcessScreening(ctx context.Context, handle *types.UploadHandle) (*ProcessReport, error) {
	if handle == nil || handle.ScreeningID == "" {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "no uploaded image to process", nil)
	}

	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}

	c.logger.WithComponent("api").WithField("request_id", requestID).WithField("screening_id", handle.ScreeningID).Info("Triggering screening analysis")

	resp, err := req.Post("/api/screenings/" + handle.ScreeningID + "/process")

	var body processResponse
	if err := c.call("process_screening", requestID, resp, err, &body); err != nil {
		return nil, err
	}

	if !body.Success {
		msg := serverMessage(body.Error, body.Message, "failed to process image, please try again")
		c.logger.WithComponent("api").WithField("request_id", requestID).WithField("server_error", body.Error).Warn("Processing rejected by server")
		return nil, types.NewRejectedError(types.ErrCodeServerRejected, msg, map[string]interface{}{
			"screening_id": handle.ScreeningID,
		})
	}

	if body.Screening == nil || body.Images == nil {
		return nil, types.NewMalformedError(types.ErrCodeBadResponse, "the analysis service returned an incomplete result", nil)
	}

	report := &ProcessReport{
		Result: types.ScreeningResult{
			HemoglobinValue: body.Screening.HemoglobinValue,
			ConfidenceScore: body.Screening.ConfidenceScore,
			Timestamp:       parseServerTime(body.Screening.Timestamp),
		},
		OriginalImage:  body.Images.Original,
		SegmentedImage: body.Images.Segmented,
	}

	if body.HistoricalData != nil {
		report.Historical = &types.HistoricalComparison{
			PreviousHbValue: body.HistoricalData.PreviousHbValue,
			MeasurementDate: parseServerTime(body.HistoricalData.MeasurementDate),
		}
	}

	return report, nil
}
