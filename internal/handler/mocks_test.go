package handler

import (
	"context"

	"geoloc193/internal/model"
	"geoloc193/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Create(ctx context.Context, requesterName, phone string, operatorID int64) (model.Request, error) {
	args := m.Called(ctx, requesterName, phone, operatorID)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) Get(ctx context.Context, id int64) (model.Request, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) GetByToken(ctx context.Context, token string) (model.Request, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) AuthorizeToken(ctx context.Context, token string) (model.Request, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) PublicView(ctx context.Context, token string) (model.PublicRequestView, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.PublicRequestView), args.Error(1)
}

func (m *MockRequestService) ResolveByPhone(ctx context.Context, query string) (string, error) {
	args := m.Called(ctx, query)
	return args.String(0), args.Error(1)
}

func (m *MockRequestService) SubmitLocation(ctx context.Context, token string, loc model.Location) (model.Request, error) {
	args := m.Called(ctx, token, loc)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) Finalize(ctx context.Context, id, operatorID int64) (model.Request, error) {
	args := m.Called(ctx, id, operatorID)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) Archive(ctx context.Context, id int64) (model.Request, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Request), args.Error(1)
}

func (m *MockRequestService) List(ctx context.Context, filter model.RequestFilter) ([]model.Request, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Request), args.Error(1)
}

func (m *MockRequestService) Resend(ctx context.Context, id int64, withLink bool) (model.Request, error) {
	args := m.Called(ctx, id, withLink)
	return args.Get(0).(model.Request), args.Error(1)
}

type MockTranscriptService struct {
	mock.Mock
}

func (m *MockTranscriptService) Append(ctx context.Context, requestID int64, role model.SenderRole, payload model.AppendMessagePayload) (model.Message, error) {
	args := m.Called(ctx, requestID, role, payload)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *MockTranscriptService) List(ctx context.Context, requestID int64) ([]model.Message, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockTranscriptService) MarkRead(ctx context.Context, requestID int64, reader model.SenderRole) (int64, error) {
	args := m.Called(ctx, requestID, reader)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTranscriptService) AppendAsCaller(ctx context.Context, token string, payload model.AppendMessagePayload) (model.Message, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *MockTranscriptService) ListForCaller(ctx context.Context, token string) ([]model.Message, error) {
	args := m.Called(ctx, token)
	return args.Get(0).([]model.Message), args.Error(1)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, rawPhone, statusLabel, errorCode string) (service.ReconcileResult, error) {
	args := m.Called(ctx, rawPhone, statusLabel, errorCode)
	return args.Get(0).(service.ReconcileResult), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }
