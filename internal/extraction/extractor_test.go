package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/api"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/capture"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/internal/patient"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

// MockExtractionAPI is a mock implementation of ExtractionAPI
type MockExtractionAPI struct {
	mock.Mock
}

func (m *MockExtractionAPI) ExtractDocument(ctx context.Context, image *types.CapturedImage) (*api.ExtractionResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*api.ExtractionResult), args.Error(1)
}

// MockAdapter is a mock implementation of capture.Adapter
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Capture(ctx context.Context, source types.CaptureSource, opts capture.Options) (*types.CapturedImage, error) {
	args := m.Called(ctx, source, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.CapturedImage), args.Error(1)
}

func (m *MockAdapter) SaveToGallery(ctx context.Context, img *types.CapturedImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func docImage() *types.CapturedImage {
	return &types.CapturedImage{
		LocalURI: "file:///tmp/doc.jpg",
		Data:     []byte("doc-bytes"),
		MIMEType: "image/jpeg",
		Source:   types.SourceGallery,
	}
}

func newTestExtractor(adapter capture.Adapter, client ExtractionAPI) *Extractor {
	return NewExtractor(adapter, client, logger.New("error"), nil)
}

func TestExtractMergesIntoBlankDraftFields(t *testing.T) {
	adapter := new(MockAdapter)
	client := new(MockExtractionAPI)
	ex := newTestExtractor(adapter, client)
	ctx := context.Background()

	img := docImage()
	adapter.On("Capture", ctx, types.SourceGallery, mock.Anything).Return(img, nil)
	client.On("ExtractDocument", ctx, img).Return(&api.ExtractionResult{
		Fields: types.ExtractedFields{
			Name:   "Rekha Kumari",
			Age:    "40",
			Gender: types.GenderFemale,
		},
		RawText: "Rekha Kumari DOB 1985 Female",
	}, nil)

	require.NoError(t, ex.CaptureDocument(ctx, types.SourceGallery, capture.Options{}))

	draft := patient.NewDraft()
	attempt, err := ex.ExtractInto(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, StatusExtracted, attempt.Status)

	snap := draft.Snapshot()
	assert.Equal(t, "Rekha Kumari", snap.Name)
	assert.Equal(t, "40", draft.AgeText())
	assert.Equal(t, types.GenderFemale, snap.Gender)
}

func TestExtractDoesNotOverwriteTypedFields(t *testing.T) {
	adapter := new(MockAdapter)
	client := new(MockExtractionAPI)
	ex := newTestExtractor(adapter, client)
	ctx := context.Background()

	img := docImage()
	adapter.On("Capture", ctx, types.SourceCamera, mock.Anything).Return(img, nil)
	client.On("ExtractDocument", ctx, img).Return(&api.ExtractionResult{
		Fields: types.ExtractedFields{Name: "Document Name", Age: "52"},
	}, nil)

	require.NoError(t, ex.CaptureDocument(ctx, types.SourceCamera, capture.Options{}))

	draft := patient.NewDraft()
	draft.SetName("Typed Name")

	_, err := ex.ExtractInto(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "Typed Name", draft.Snapshot().Name)
	assert.Equal(t, "52", draft.AgeText())
}

func TestNoUsableFieldsIsNotAnError(t *testing.T) {
	adapter := new(MockAdapter)
	client := new(MockExtractionAPI)
	ex := newTestExtractor(adapter, client)
	ctx := context.Background()

	img := docImage()
	adapter.On("Capture", ctx, types.SourceCamera, mock.Anything).Return(img, nil)
	client.On("ExtractDocument", ctx, img).Return(&api.ExtractionResult{
		RawText: "illegible scan",
	}, nil)

	require.NoError(t, ex.CaptureDocument(ctx, types.SourceCamera, capture.Options{}))

	draft := patient.NewDraft()
	attempt, err := ex.ExtractInto(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, StatusNoFields, attempt.Status)
	assert.Equal(t, "illegible scan", attempt.RawText)
	assert.Equal(t, "", draft.Snapshot().Name)
}

func TestRetryReusesSameImageWithoutRecapture(t *testing.T) {
	adapter := new(MockAdapter)
	client := new(MockExtractionAPI)
	ex := newTestExtractor(adapter, client)
	ctx := context.Background()

	img := docImage()
	adapter.On("Capture", ctx, types.SourceCamera, mock.Anything).Return(img, nil).Once()
	client.On("ExtractDocument", ctx, img).
		Return(nil, types.NewTransportError(types.ErrCodeNetwork, "connection refused", nil)).Once()
	client.On("ExtractDocument", ctx, img).
		Return(&api.ExtractionResult{Fields: types.ExtractedFields{Name: "Rekha Kumari"}}, nil).Once()

	require.NoError(t, ex.CaptureDocument(ctx, types.SourceCamera, capture.Options{}))

	_, err := ex.Extract(ctx)
	require.Error(t, err)
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.True(t, screenErr.Retryable())

	attempt, err := ex.Extract(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusExtracted, attempt.Status)
	adapter.AssertNumberOfCalls(t, "Capture", 1)
}

func TestExtractWithoutImageFailsValidation(t *testing.T) {
	ex := newTestExtractor(new(MockAdapter), new(MockExtractionAPI))

	_, err := ex.Extract(context.Background())
	require.Error(t, err)
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, types.ErrorTypeValidation, screenErr.Type)
}

func TestCancelledDocumentCaptureKeepsPreviousImage(t *testing.T) {
	adapter := new(MockAdapter)
	client := new(MockExtractionAPI)
	ex := newTestExtractor(adapter, client)
	ctx := context.Background()

	img := docImage()
	adapter.On("Capture", ctx, types.SourceCamera, mock.Anything).Return(img, nil).Once()
	adapter.On("Capture", ctx, types.SourceCamera, mock.Anything).Return(nil, capture.Cancelled()).Once()

	require.NoError(t, ex.CaptureDocument(ctx, types.SourceCamera, capture.Options{}))
	err := ex.CaptureDocument(ctx, types.SourceCamera, capture.Options{})
	require.Error(t, err)
	assert.Equal(t, img, ex.Image())
}
