// Package inferencetest provides test doubles for inference bindings.
package inferencetest

import (
	"context"
	"encoding/json"

	"github.com/GriffinCanCode/dreamscope/backend/internal/domain/dream"
	"github.com/stretchr/testify/mock"
)

// MockBinding is a testify mock of dream.Binding
type MockBinding struct {
	mock.Mock
}

// Run records the call and returns the configured result
func (m *MockBinding) Run(ctx context.Context, model string, req dream.InferenceRequest) (json.RawMessage, error) {
	args := m.Called(ctx, model, req)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// Returning creates a mock that answers every call with raw
func Returning(raw string) *MockBinding {
	m := &MockBinding{}
	m.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(json.RawMessage(raw), nil)
	return m
}

// Failing creates a mock that fails every call with err
func Failing(err error) *MockBinding {
	m := &MockBinding{}
	m.On("Run", mock.Anything, mock.Anything, mock.Anything).Return(nil, err)
	return m
}
