package api

import (
	"encoding/json"
	"time"
)

// flexString decodes a JSON value that may arrive as a string or a number
// into its decimal string form. The extraction endpoint in particular
// returns ages both ways depending on what the OCR found.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexID decodes server identifiers that may be numeric or string
type flexID = flexString

// parseServerTime accepts the timestamp formats the service has been seen
// to emit. A missing or unparseable timestamp yields the zero time rather
// than failing an otherwise usable result.
func parseServerTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

type uploadRequest struct {
	ImageData string `json:"imageData"`
	PatientID string `json:"patientId"`
}

type uploadResponse struct {
	Success     bool   `json:"success"`
	ScreeningID flexID `json:"screening_id"`
	Error       string `json:"error"`
}

type screeningPayload struct {
	HemoglobinValue float64 `json:"hemoglobin_value"`
	ConfidenceScore float64 `json:"confidence_score"`
	Timestamp       string  `json:"timestamp"`
}

type imagesPayload struct {
	Original  string `json:"original"`
	Segmented string `json:"segmented"`
}

type historicalPayload struct {
	PreviousHbValue float64 `json:"previous_hb_value"`
	MeasurementDate string  `json:"measurement_date"`
}

type processResponse struct {
	Success        bool               `json:"success"`
	Error          string             `json:"error"`
	Message        string             `json:"message"`
	Screening      *screeningPayload  `json:"screening"`
	Images         *imagesPayload     `json:"images"`
	HistoricalData *historicalPayload `json:"historicalData"`
}

type extractRequest struct {
	AadharImage string `json:"aadhar_image"`
}

type extractedPatientData struct {
	Name   flexString `json:"name"`
	Age    flexString `json:"age"`
	Gender flexString `json:"gender"`
}

type extractResponse struct {
	PatientData *extractedPatientData `json:"patientData"`
	RawText     string                `json:"rawText"`
	Error       string                `json:"error"`
}

type patientPayload struct {
	PatientID       flexID `json:"patient_id"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	PregnancyStatus bool   `json:"pregnancy_status"`
}

type patientListResponse struct {
	Patients    []patientPayload `json:"patients"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
	Error       string           `json:"error"`
}

type createPatientRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Age             int    `json:"age"`
	Gender          string `json:"gender"`
	PregnancyStatus bool   `json:"pregnancy_status"`
}

type patientResponse struct {
	Success bool            `json:"success"`
	Patient *patientPayload `json:"patient"`
	Error   string          `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Role    string `json:"role"`
	Error   string `json:"error"`
}

type profilePayload struct {
	UserID         flexID `json:"user_id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	AadharVerified bool   `json:"aadhar_verified"`
	CreatedAt      string `json:"created_at"`
}

type profileResponse struct {
	Success bool            `json:"success"`
	User    *profilePayload `json:"user"`
	Error   string          `json:"error"`
}

type verifyAadharRequest struct {
	AadharImage string `json:"aadhar_image"`
}

type verifyAadharResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
