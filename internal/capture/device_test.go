package capture

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/logger"
	"github.com/llamayondu/Non-Invasive-Anemia-Detection/pkg/types"
)

type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) RequestPermission(ctx context.Context, source types.CaptureSource) (bool, error) {
	args := m.Called(ctx, source)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlatform) LaunchCamera(ctx context.Context, opts Options) (*ShotResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShotResult), args.Error(1)
}

func (m *MockPlatform) LaunchPicker(ctx context.Context, opts Options) (*ShotResult, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ShotResult), args.Error(1)
}

func (m *MockPlatform) SaveToLibrary(ctx context.Context, img *types.CapturedImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func newTestAdapter(platform Platform) *DeviceAdapter {
	return NewDeviceAdapter(platform, logger.New("error"), nil, 0)
}

func TestCaptureFromCamera(t *testing.T) {
	platform := &MockPlatform{}
	platform.On("RequestPermission", mock.Anything, types.SourceCamera).Return(true, nil)
	platform.On("LaunchCamera", mock.Anything, mock.Anything).Return(&ShotResult{
		URI:  "file:///tmp/shot-1.jpg",
		Data: []byte("jpeg-bytes"),
	}, nil)

	adapter := newTestAdapter(platform)
	img, err := adapter.Capture(context.Background(), types.SourceCamera, Options{Quality: 0.8})

	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/shot-1.jpg", img.LocalURI)
	assert.Equal(t, []byte("jpeg-bytes"), img.Data)
	assert.Equal(t, "image/jpeg", img.MIMEType)
	assert.Equal(t, types.SourceCamera, img.Source)
	platform.AssertExpectations(t)
}

func TestCaptureCancelledLeavesNoImage(t *testing.T) {
	platform := &MockPlatform{}
	platform.On("RequestPermission", mock.Anything, types.SourceGallery).Return(true, nil)
	platform.On("LaunchPicker", mock.Anything, mock.Anything).Return(&ShotResult{Cancelled: true}, nil)

	adapter := newTestAdapter(platform)
	img, err := adapter.Capture(context.Background(), types.SourceGallery, Options{})

	assert.Nil(t, img)
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, types.ErrorTypeCancelled, screenErr.Type)
}

func TestCapturePermissionDeniedRepromptsNextCall(t *testing.T) {
	platform := &MockPlatform{}
	// Denied on the first call, granted on the second: the adapter must ask
	// the platform again instead of caching the denial.
	platform.On("RequestPermission", mock.Anything, types.SourceCamera).Return(false, nil).Once()
	platform.On("RequestPermission", mock.Anything, types.SourceCamera).Return(true, nil).Once()
	platform.On("LaunchCamera", mock.Anything, mock.Anything).Return(&ShotResult{
		URI:  "file:///tmp/shot-2.jpg",
		Data: []byte("data"),
	}, nil)

	adapter := newTestAdapter(platform)

	_, err := adapter.Capture(context.Background(), types.SourceCamera, Options{})
	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, types.ErrorTypePermission, screenErr.Type)

	img, err := adapter.Capture(context.Background(), types.SourceCamera, Options{})
	require.NoError(t, err)
	assert.NotNil(t, img)
	platform.AssertNumberOfCalls(t, "RequestPermission", 2)
}

func TestCaptureRejectsOversizedImage(t *testing.T) {
	platform := &MockPlatform{}
	platform.On("RequestPermission", mock.Anything, types.SourceCamera).Return(true, nil)
	platform.On("LaunchCamera", mock.Anything, mock.Anything).Return(&ShotResult{
		URI:  "file:///tmp/huge.jpg",
		Data: make([]byte, 64),
	}, nil)

	adapter := NewDeviceAdapter(platform, logger.New("error"), nil, 32)
	_, err := adapter.Capture(context.Background(), types.SourceCamera, Options{})

	var screenErr *types.ScreenError
	require.ErrorAs(t, err, &screenErr)
	assert.Equal(t, types.ErrorTypeValidation, screenErr.Type)
}

func TestSaveToGalleryIsOptIn(t *testing.T) {
	platform := &MockPlatform{}
	platform.On("RequestPermission", mock.Anything, types.SourceGallery).Return(true, nil)
	platform.On("SaveToLibrary", mock.Anything, mock.Anything).Return(nil)

	adapter := newTestAdapter(platform)
	img := &types.CapturedImage{LocalURI: "file:///tmp/x.jpg", Data: []byte("d")}

	require.NoError(t, adapter.SaveToGallery(context.Background(), img))
	platform.AssertCalled(t, "SaveToLibrary", mock.Anything, img)
}

func TestDataURIEncoding(t *testing.T) {
	img := &types.CapturedImage{Data: []byte("abc"), MIMEType: "image/jpeg"}
	assert.Equal(t, "data:image/jpeg;base64,YWJj", img.DataURI())
}
