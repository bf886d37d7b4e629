package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"constellationapi/internal/logging"
	"constellationapi/internal/model"
	"constellationapi/internal/repository"
)

const tracerName = "constellationapi/internal/service"

// ConstellationService stores and loads drawings.
type ConstellationService interface {
	// WriteConstellation stores shape as a new record and returns it with its ref.
	// Every call creates a new record; identical shapes are not deduplicated.
	WriteConstellation(ctx context.Context, shape string) (*model.Constellation, error)

	// LoadDrawing returns the record previously created under ref.
	LoadDrawing(ctx context.Context, ref string) (*model.Constellation, error)
}

type constellationService struct {
	repo   repository.ConstellationRepository
	log    logrus.FieldLogger
	tracer trace.Tracer
}

// NewConstellationService constructs a ConstellationService over repo.
func NewConstellationService(repo repository.ConstellationRepository, log logrus.FieldLogger) ConstellationService {
	return &constellationService{
		repo:   repo,
		log:    log.WithField("component", "constellation_service"),
		tracer: otel.Tracer(tracerName),
	}
}

func (s *constellationService) WriteConstellation(ctx context.Context, shape string) (*model.Constellation, error) {
	ctx, span := s.tracer.Start(ctx, "constellation.write",
		trace.WithAttributes(attribute.Int("constellation.shape_length", len(shape))))
	defer span.End()

	rec, err := s.repo.Create(ctx, model.ConstellationData{Shape: shape})
	if err != nil {
		e := &Error{Op: "write", Kind: classify(err), Message: "store rejected the write", Err: err}
		s.log.WithFields(logrus.Fields{
			"kind":        e.Kind,
			"description": description(err),
			"request_id":  logging.RequestID(ctx),
		}).WithError(err).Error(e.Message)
		recordError(span, e)
		return nil, e
	}

	span.SetAttributes(attribute.String("constellation.ref", rec.Ref))
	return rec, nil
}

func (s *constellationService) LoadDrawing(ctx context.Context, ref string) (*model.Constellation, error) {
	ctx, span := s.tracer.Start(ctx, "constellation.load",
		trace.WithAttributes(attribute.String("constellation.ref", ref)))
	defer span.End()

	if ref == "" {
		e := &Error{Op: "load", Kind: KindInvalidArgument, Message: "ref is required"}
		s.log.WithFields(logrus.Fields{
			"kind":       e.Kind,
			"request_id": logging.RequestID(ctx),
		}).Warn(e.Message)
		recordError(span, e)
		return nil, e
	}

	rec, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		e := &Error{Op: "load", Kind: classify(err), Message: "store rejected the read", Err: err}
		s.log.WithFields(logrus.Fields{
			"kind":       e.Kind,
			"ref":        ref,
			"request_id": logging.RequestID(ctx),
		}).WithError(err).Error(e.Message)
		recordError(span, e)
		return nil, e
	}
	return rec, nil
}

func recordError(span trace.Span, e *Error) {
	span.RecordError(e)
	span.SetAttributes(attribute.String("error.kind", string(e.Kind)))
	span.SetStatus(codes.Error, e.Message)
}
