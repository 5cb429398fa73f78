package patient

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// Draft is the in-progress patient form. Field setters apply eagerly so a
// half-filled form survives navigation; the pregnancy invariant is enforced
// on every write, not only at save time.
type Draft struct {
	mu     sync.Mutex
	record types.PatientRecord
	age    string
}

// NewDraft starts an empty patient form
func NewDraft() *Draft {
	return &Draft{}
}

// DraftFromRecord starts an edit form pre-filled with an existing patient.
// A record arriving with an inconsistent pregnancy flag is repaired on the
// way in; the invariant holds from the first read.
func DraftFromRecord(record types.PatientRecord) *Draft {
	if record.Gender != types.GenderFemale {
		record.PregnancyStatus = false
	}
	d := &Draft{record: record}
	if record.Age > 0 {
		d.age = strconv.Itoa(record.Age)
	}
	return d
}

// SetName updates the patient name
func (d *Draft) SetName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record.Name = strings.TrimSpace(name)
}

// SetPhone updates the contact number. Validation happens at save time so
// partially typed numbers are not rejected keystroke by keystroke.
func (d *Draft) SetPhone(phone string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record.Phone = strings.TrimSpace(phone)
}

// SetAge updates the age as typed. The raw text is kept so the form can
// redisplay exactly what the user entered.
func (d *Draft) SetAge(age string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.age = strings.TrimSpace(age)
}

// SetGender updates the gender. Moving away from Female clears the pregnancy
// flag in the same write so the pair is never observed inconsistent.
func (d *Draft) SetGender(gender types.Gender) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record.Gender = gender
	if gender != types.GenderFemale {
		d.record.PregnancyStatus = false
	}
}

// SetPregnancy updates the pregnancy flag. The flag only sticks for Female
// patients; for anyone else the write is ignored.
func (d *Draft) SetPregnancy(pregnant bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.record.Gender != types.GenderFemale {
		d.record.PregnancyStatus = false
		return
	}
	d.record.PregnancyStatus = pregnant
}

// FillBlanks merges extracted document fields into the form, writing only
// fields the user has not already filled in. Manual input always wins.
func (d *Draft) FillBlanks(fields types.ExtractedFields) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.record.Name == "" && fields.Name != "" {
		d.record.Name = fields.Name
	}
	if d.age == "" && fields.Age != "" {
		d.age = fields.Age
	}
	if d.record.Gender == "" && validGender(fields.Gender) {
		d.record.Gender = fields.Gender
		if fields.Gender != types.GenderFemale {
			d.record.PregnancyStatus = false
		}
	}
}

// Snapshot returns the current form values. The returned record is a copy;
// Age is zero when the typed text is not yet a valid number.
func (d *Draft) Snapshot() types.PatientRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	record := d.record
	if age, err := strconv.Atoi(d.age); err == nil {
		record.Age = age
	} else {
		record.Age = 0
	}
	return record
}

// AgeText returns the raw age input for redisplay
func (d *Draft) AgeText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.age
}

// Validate checks the form against the registry's rules and returns the
// record ready to submit. All problems are reported in one error's details
// map so the form can mark every bad field at once.
func (d *Draft) Validate() (*types.PatientRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	problems := map[string]interface{}{}

	if d.record.Name == "" {
		problems["name"] = "name is required"
	}
	if !phonePattern.MatchString(d.record.Phone) {
		problems["phone"] = "phone must be exactly 10 digits"
	}

	age, err := strconv.Atoi(d.age)
	if err != nil || age <= 0 {
		problems["age"] = "age must be a positive whole number"
	}

	if !validGender(d.record.Gender) {
		problems["gender"] = "gender must be Male, Female or Other"
	}

	if len(problems) > 0 {
		return nil, types.NewValidationError(types.ErrCodeInvalidInput, "patient form has invalid fields", problems)
	}

	record := d.record
	record.Age = age
	if record.Gender != types.GenderFemale {
		record.PregnancyStatus = false
	}
	return &record, nil
}

func validGender(g types.Gender) bool {
	switch g {
	case types.GenderMale, types.GenderFemale, types.GenderOther:
		return true
	default:
		return false
	}
}
