package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) IssuePutURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) IssueGetURL(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Metadata(ctx context.Context, objectKey string) (map[string]string, error) {
	args := m.Called(ctx, objectKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}
