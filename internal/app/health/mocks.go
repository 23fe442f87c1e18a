package health

import (
	"context"

	"pkcegen/pkg/logger"
	"pkcegen/pkg/pkce"

	"github.com/stretchr/testify/mock"
)

type MockCacheChecker struct {
	mock.Mock
}

func (m *MockCacheChecker) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCodeGenerator struct {
	mock.Mock
}

func (m *MockCodeGenerator) GenerateCodes(ctx context.Context) (pkce.Codes, error) {
	args := m.Called(ctx)
	codes, _ := args.Get(0).(pkce.Codes)
	return codes, args.Error(1)
}

type MockLogger struct{}

func (m *MockLogger) Info(ctx context.Context, msg string, fields ...logger.Field) {}

func (m *MockLogger) Error(ctx context.Context, msg string, fields ...logger.Field) {}

func (m *MockLogger) Debug(ctx context.Context, msg string, fields ...logger.Field) {}

func (m *MockLogger) Warn(ctx context.Context, msg string, fields ...logger.Field) {}
