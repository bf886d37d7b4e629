package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"constellationapi/internal/model"
	"constellationapi/internal/repository"
	"constellationapi/internal/repository/memory"
	repoMocks "constellationapi/internal/repository/mocks"
)

func TestConstellationService_WriteConstellation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		shape      string
		setupMocks func(mRepo *repoMocks.MockConstellationRepository)
		wantKind   Kind
		wantRef    string
	}{
		{
			name:  "happy path",
			shape: "M13,20 L45,67",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("Create", mock.Anything, model.ConstellationData{Shape: "M13,20 L45,67"}).
					Return(&model.Constellation{Ref: "R1", Data: model.ConstellationData{Shape: "M13,20 L45,67"}}, nil)
			},
			wantRef: "R1",
		},
		{
			name:  "empty shape is passed through",
			shape: "",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("Create", mock.Anything, model.ConstellationData{}).
					Return(&model.Constellation{Ref: "R2"}, nil)
			},
			wantRef: "R2",
		},
		{
			name:  "store error",
			shape: "M1,1",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("constraint violated"))
			},
			wantKind: KindInternal,
		},
		{
			name:  "transient store error",
			shape: "M1,1",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("insert: %w", driver.ErrBadConn))
			},
			wantKind: KindUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockConstellationRepository)
			log, _ := logtest.NewNullLogger()
			svc := NewConstellationService(mRepo, log)
			tt.setupMocks(mRepo)

			rec, err := svc.WriteConstellation(ctx, tt.shape)

			if tt.wantKind != "" {
				assert.Nil(t, rec)
				assert.Equal(t, tt.wantKind, KindOf(err))
				var se *Error
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "write", se.Op)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantRef, rec.Ref)
				assert.Equal(t, tt.shape, rec.Data.Shape)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestConstellationService_WriteLogsDiagnostics(t *testing.T) {
	mRepo := new(repoMocks.MockConstellationRepository)
	log, hook := logtest.NewNullLogger()
	svc := NewConstellationService(mRepo, log)

	cause := errors.New("instance not unique")
	wrapped := fmt.Errorf("put object: %w", cause)
	mRepo.On("Create", mock.Anything, mock.Anything).Return(nil, wrapped)

	_, err := svc.WriteConstellation(context.Background(), "M1,1")
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "store rejected the write", entry.Message)
	assert.Equal(t, KindInternal, entry.Data["kind"])
	assert.Equal(t, "instance not unique", entry.Data["description"])
	assert.Equal(t, wrapped, entry.Data[logrus.ErrorKey])
	assert.EqualError(t, entry.Data[logrus.ErrorKey].(error), "put object: instance not unique")
}

func TestConstellationService_EmptyRefIsLogged(t *testing.T) {
	mRepo := new(repoMocks.MockConstellationRepository)
	log, hook := logtest.NewNullLogger()
	svc := NewConstellationService(mRepo, log)

	_, err := svc.LoadDrawing(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidArgument)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "ref is required", entry.Message)
	assert.Equal(t, KindInvalidArgument, entry.Data["kind"])
	mRepo.AssertNotCalled(t, "FindByRef", mock.Anything, mock.Anything)
}

func TestConstellationService_LoadDrawing(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		ref        string
		setupMocks func(mRepo *repoMocks.MockConstellationRepository)
		wantErr    error
	}{
		{
			name: "found",
			ref:  "R1",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("FindByRef", mock.Anything, "R1").
					Return(&model.Constellation{Ref: "R1", Data: model.ConstellationData{Shape: "M13,20 L45,67"}}, nil)
			},
		},
		{
			name:       "empty ref",
			ref:        "",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {},
			wantErr:    ErrInvalidArgument,
		},
		{
			name: "not found",
			ref:  "nonexistent-ref",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("FindByRef", mock.Anything, "nonexistent-ref").Return(nil, repository.ErrNotFound)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "deadline exceeded",
			ref:  "R1",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("FindByRef", mock.Anything, "R1").Return(nil, context.DeadlineExceeded)
			},
			wantErr: ErrUnavailable,
		},
		{
			name: "store error",
			ref:  "R1",
			setupMocks: func(mRepo *repoMocks.MockConstellationRepository) {
				mRepo.On("FindByRef", mock.Anything, "R1").Return(nil, errors.New("boom"))
			},
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockConstellationRepository)
			log, _ := logtest.NewNullLogger()
			svc := NewConstellationService(mRepo, log)
			tt.setupMocks(mRepo)

			rec, err := svc.LoadDrawing(ctx, tt.ref)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rec)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.ref, rec.Ref)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestConstellationService_LoadLogsRawError(t *testing.T) {
	mRepo := new(repoMocks.MockConstellationRepository)
	log, hook := logtest.NewNullLogger()
	svc := NewConstellationService(mRepo, log)

	mRepo.On("FindByRef", mock.Anything, "R9").Return(nil, repository.ErrNotFound)

	_, err := svc.LoadDrawing(context.Background(), "R9")
	require.Error(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "R9", entry.Data["ref"])
	assert.Equal(t, repository.ErrNotFound, entry.Data[logrus.ErrorKey])
}

func TestConstellationService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	log, _ := logtest.NewNullLogger()
	svc := NewConstellationService(memory.NewConstellationMemory(), log)

	r1, err := svc.WriteConstellation(ctx, "M13,20 L45,67")
	require.NoError(t, err)
	assert.Equal(t, "M13,20 L45,67", r1.Data.Shape)

	got, err := svc.LoadDrawing(ctx, r1.Ref)
	require.NoError(t, err)
	assert.Equal(t, "M13,20 L45,67", got.Data.Shape)

	r2, err := svc.WriteConstellation(ctx, "M13,20 L45,67")
	require.NoError(t, err)
	assert.NotEqual(t, r1.Ref, r2.Ref)

	missing, err := svc.LoadDrawing(ctx, "nonexistent-ref")
	assert.Nil(t, missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConstellationService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	log, _ := logtest.NewNullLogger()
	svc := NewConstellationService(memory.NewConstellationMemory(), log)

	_, err := svc.WriteConstellation(ctx, "M1,1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestError(t *testing.T) {
	cause := errors.New("socket closed")
	err := &Error{Op: "load", Kind: KindUnavailable, Message: "store rejected the read", Err: cause}

	assert.Equal(t, "load: store rejected the read: socket closed", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnavailable, KindOf(fmt.Errorf("wrapped: %w", err)))
}
