package patient

import (
	"context"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// PatientAPI is the slice of the remote client the registry needs
type PatientAPI interface {
	ListPatients(ctx context.Context, page, limit int, search string) (*types.PatientPage, error)
	CreatePatient(ctx context.Context, record *types.PatientRecord) (*types.PatientRecord, error)
	UpdatePatient(ctx context.Context, record *types.PatientRecord) (*types.PatientRecord, error)
}

// Registry validates and saves patient drafts against the remote store. The
// remote store is the single source of truth; the registry keeps no local
// copy of saved records.
type Registry struct {
	client PatientAPI
	logger *logger.Logger
}

// NewRegistry creates a patient registry backed by the remote client
func NewRegistry(client PatientAPI, log *logger.Logger) *Registry {
	return &Registry{client: client, logger: log}
}

// Save validates the draft and creates or updates the patient depending on
// whether a server-assigned id is present. Validation failure never reaches
// the network.
func (r *Registry) Save(ctx context.Context, draft *Draft) (*types.PatientRecord, error) {
	record, err := draft.Validate()
	if err != nil {
		return nil, err
	}

	if record.PatientID == "" {
		saved, err := r.client.CreatePatient(ctx, record)
		if err != nil {
			return nil, err
		}
		r.logger.WithComponent("patient").WithField("patient_id", saved.PatientID).Info("Patient registered")
		return saved, nil
	}

	saved, err := r.client.UpdatePatient(ctx, record)
	if err != nil {
		return nil, err
	}
	r.logger.WithComponent("patient").WithField("patient_id", saved.PatientID).Info("Patient updated")
	return saved, nil
}
