package mocks

import (
	"context"

	"constellationapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockConstellationRepository struct {
	mock.Mock
}

func (m *MockConstellationRepository) Create(ctx context.Context, data model.ConstellationData) (*model.Constellation, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Constellation), args.Error(1)
}

func (m *MockConstellationRepository) FindByRef(ctx context.Context, ref string) (*model.Constellation, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Constellation), args.Error(1)
}

func (m *MockConstellationRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
