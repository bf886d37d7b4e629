package mocks

import (
	"context"

	"constellationapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockConstellationService struct {
	mock.Mock
}

func (m *MockConstellationService) WriteConstellation(ctx context.Context, shape string) (*model.Constellation, error) {
	args := m.Called(ctx, shape)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Constellation), args.Error(1)
}

func (m *MockConstellationService) LoadDrawing(ctx context.Context, ref string) (*model.Constellation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Constellation), args.Error(1)
}
