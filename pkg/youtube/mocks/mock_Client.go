// Package mocks provides test doubles for the youtube client.
package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"

	youtube "github.com/sells-group/watchstats/pkg/youtube"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Videos provides a mock function with given fields: ctx, ids
func (_m *MockClient) Videos(ctx context.Context, ids []string) (*youtube.VideoListResponse, error) {
	ret := _m.Called(ctx, ids)

	if len(ret) == 0 {
		panic("no return value specified for Videos")
	}

	var r0 *youtube.VideoListResponse
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, []string) (*youtube.VideoListResponse, error)); ok {
		return rf(ctx, ids)
	}
	if rf, ok := ret.Get(0).(func(context.Context, []string) *youtube.VideoListResponse); ok {
		r0 = rf(ctx, ids)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*youtube.VideoListResponse)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, []string) error); ok {
		r1 = rf(ctx, ids)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Duration provides a mock function with given fields: ctx, videoID
func (_m *MockClient) Duration(ctx context.Context, videoID string) (int, error) {
	ret := _m.Called(ctx, videoID)

	if len(ret) == 0 {
		panic("no return value specified for Duration")
	}

	var r0 int
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (int, error)); ok {
		return rf(ctx, videoID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) int); ok {
		r0 = rf(ctx, videoID)
	} else {
		r0 = ret.Int(0)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, videoID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockClient creates a new instance of MockClient. It also registers a
// testing interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	m := &MockClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
