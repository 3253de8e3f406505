package aggregate

import (
	"context"

	"github.com/researchaccelerator-hub/channel-insights/client"
	"github.com/researchaccelerator-hub/channel-insights/model"
	"github.com/stretchr/testify/mock"
)

// MockChannelAPI is a mock implementation of the client.ChannelAPI
// interface.
type MockChannelAPI struct {
	mock.Mock
}

func (m *MockChannelAPI) Connect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChannelAPI) Disconnect(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockChannelAPI) ResolveHandle(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func (m *MockChannelAPI) SearchChannel(ctx context.Context, term string) (string, error) {
	args := m.Called(ctx, term)
	return args.String(0), args.Error(1)
}

func (m *MockChannelAPI) GetChannel(ctx context.Context, channelID string) (*client.ChannelInfo, error) {
	args := m.Called(ctx, channelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.ChannelInfo), args.Error(1)
}

func (m *MockChannelAPI) ListUploads(ctx context.Context, playlistID string, limit int64) ([]string, error) {
	args := m.Called(ctx, playlistID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChannelAPI) GetVideo(ctx context.Context, videoID string) (*model.VideoRecord, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoRecord), args.Error(1)
}

// collectSink records emitted events in order.
type collectSink struct {
	events []model.Event
}

func (c *collectSink) Emit(event model.Event) error {
	c.events = append(c.events, event)
	return nil
}
