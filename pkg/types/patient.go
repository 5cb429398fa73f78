package types

// Gender values accepted by the patient registry
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// PatientRecord represents a registered patient. PatientID is assigned by the
// remote store and is empty until the first successful create. The invariant
// gender != Female => PregnancyStatus == false holds at every write.
type PatientRecord struct {
	PatientID       string `json:"patient_id,omitempty"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Age             int    `json:"age"`
	Gender          Gender `json:"gender"`
	PregnancyStatus bool   `json:"pregnancy_status"`
}

// ExtractedFields is the partial patient data pulled from an identity
// document. Empty strings mean the field was not extracted.
type ExtractedFields struct {
	Name   string `json:"name,omitempty"`
	Age    string `json:"age,omitempty"`
	Gender Gender `json:"gender,omitempty"`
}

// IsEmpty reports whether extraction produced nothing usable
func (f ExtractedFields) IsEmpty() bool {
	return f.Name == "" && f.Age == "" && f.Gender == ""
}

// PatientPage is one server-computed page of the patient listing. The
// server's CurrentPage/TotalPages are authoritative; the client never
// recomputes them.
type PatientPage struct {
	Patients    []PatientRecord `json:"patients"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
}
