package mock

import (
	context "context"
	reflect "reflect"

	crew "github.com/groundcrew/crewbot/crewbot/crew"
	gomock "go.uber.org/mock/gomock"
)

// MockReleaser is a mock of Releaser interface.
type MockReleaser struct {
	ctrl     *gomock.Controller
	recorder *MockReleaserMockRecorder
	isgomock struct{}
}

// MockReleaserMockRecorder is the mock recorder for MockReleaser.
type MockReleaserMockRecorder struct {
	mock *MockReleaser
}

// NewMockReleaser creates a new mock instance.
func NewMockReleaser(ctrl *gomock.Controller) *MockReleaser {
	mock := &MockReleaser{ctrl: ctrl}
	mock.recorder = &MockReleaserMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReleaser) EXPECT() *MockReleaserMockRecorder {
	return m.recorder
}

// ReleaseOperation mocks base method.
func (m *MockReleaser) ReleaseOperation(ctx context.Context, op crew.Operation) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ReleaseOperation", ctx, op)
	ret0, _ := ret[0].(error)
	return ret0
}

// ReleaseOperation indicates an expected call of ReleaseOperation.
func (mr *MockReleaserMockRecorder) ReleaseOperation(ctx, op any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ReleaseOperation", reflect.TypeOf((*MockReleaser)(nil).ReleaseOperation), ctx, op)
}
