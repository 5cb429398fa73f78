package api

import (
	"context"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// ExtractionResult carries whatever the OCR service could read off an
// identity document. Fields may all be empty when the service responded but
// found nothing usable; RawText is kept for diagnostics only.
type ExtractionResult struct {
	Fields  types.ExtractedFields
	RawText string
}

// ExtractDocument submits an identity-document image for field extraction
func (c *Client) ExtractDocument(ctx context.Context, image *types.CapturedImage) (*ExtractionResult, error) {
	if image.Empty() {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "no document image to extract from", nil)
	}

	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return nil, err
	}

	c.logger.WithComponent("api").WithField("request_id", requestID).Info("Submitting identity document for extraction")

	resp, err := req.
		SetBody(extractRequest{AadharImage: image.DataURI()}).
		Post("/api/extract-aadhar-data")

	var body extractResponse
	if err := c.call("extract_document", requestID, resp, err, &body); err != nil {
		return nil, err
	}

	result := &ExtractionResult{RawText: body.RawText}
	if body.PatientData != nil {
		result.Fields = types.ExtractedFields{
			Name:   string(body.PatientData.Name),
			Age:    string(body.PatientData.Age),
			Gender: types.Gender(body.PatientData.Gender),
		}
	}

	return result, nil
}

// VerifyDocument submits the operator's own identity document for
// verification against their account.
func (c *Client) VerifyDocument(ctx context.Context, image *types.CapturedImage) error {
	if image.Empty() {
		return types.NewValidationError(types.ErrCodeInvalidInput, "no document image to verify", nil)
	}

	req, requestID, err := c.newRequest(ctx, true)
	if err != nil {
		return err
	}

	resp, err := req.
		SetBody(verifyAadharRequest{AadharImage: image.DataURI()}).
		Post("/api/verify-aadhar")

	var body verifyAadharResponse
	if err := c.call("verify_document", requestID, resp, err, &body); err != nil {
		return err
	}

	if resp.StatusCode() >= 400 || (!body.Success && body.Error != "") {
		msg := serverMessage(body.Error, "", "could not verify the document, please try a clearer image")
		return types.NewRejectedError(types.ErrCodeServerRejected, msg, nil)
	}

	return nil
}
