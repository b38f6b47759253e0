package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/car-rental/internal/models"
	services "github.com/magabrotheeeer/car-rental/internal/services/reconciler"
)

type ReconcileRepoMock struct {
	mock.Mock
}

func (m *ReconcileRepoMock) ActivateConfirmed(ctx context.Context, now time.Time) ([]models.BookingEvent, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingEvent), args.Error(1)
}

func (m *ReconcileRepoMock) MarkOverdue(ctx context.Context, now time.Time, policy string) ([]models.BookingEvent, error) {
	args := m.Called(ctx, now, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingEvent), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) PublishBookingEvent(ctx context.Context, event models.BookingEvent) error {
	return m.Called(ctx, event).Error(0)
}

type recordingObserver struct {
	transitions map[string]int
	runs        []error
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{transitions: map[string]int{}}
}

func (o *recordingObserver) ObserveTransitions(to string, n int) {
	o.transitions[to] += n
}

func (o *recordingObserver) ObserveRun(err error) {
	o.runs = append(o.runs, err)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestReconcile_AppliesBothRules(t *testing.T) {
	repo := new(ReconcileRepoMock)
	pub := new(PublisherMock)
	obs := newRecordingObserver()
	svc := services.NewReconcilerService(repo, pub, obs, "", newNoopLogger())

	repo.On("ActivateConfirmed", mock.Anything, now).Return([]models.BookingEvent{
		{BookingID: "b-1", PreviousStatus: models.BookingConfirmed, Status: models.BookingActive},
	}, nil).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return([]models.BookingEvent{
		{BookingID: "b-2", PreviousStatus: models.BookingActive, Status: models.BookingNeedToBeReturned},
		{BookingID: "b-3", PreviousStatus: models.BookingPending, Status: models.BookingNeedToBeReturned},
	}, nil).Once()
	pub.On("PublishBookingEvent", mock.Anything, mock.Anything).Return(nil).Times(3)

	res, err := svc.Reconcile(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, services.Result{Activated: 1, Overdue: 2}, res)
	assert.Equal(t, 1, obs.transitions[models.BookingActive])
	assert.Equal(t, 2, obs.transitions[models.BookingNeedToBeReturned])
	assert.Equal(t, []error{nil}, obs.runs)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestReconcile_CancelPolicy(t *testing.T) {
	repo := new(ReconcileRepoMock)
	svc := services.NewReconcilerService(repo, nil, nil, models.OverduePendingCancel, newNoopLogger())

	repo.On("ActivateConfirmed", mock.Anything, now).Return([]models.BookingEvent{}, nil).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingCancel).Return([]models.BookingEvent{
		{BookingID: "b-3", PreviousStatus: models.BookingPending, Status: models.BookingCancelled},
	}, nil).Once()

	res, err := svc.Reconcile(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, services.Result{Cancelled: 1}, res)
	repo.AssertExpectations(t)
}

func TestReconcile_NothingToDo(t *testing.T) {
	repo := new(ReconcileRepoMock)
	pub := new(PublisherMock)
	svc := services.NewReconcilerService(repo, pub, nil, "", newNoopLogger())

	repo.On("ActivateConfirmed", mock.Anything, now).Return(nil, nil).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return(nil, nil).Once()

	res, err := svc.Reconcile(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, res)
	pub.AssertNotCalled(t, "PublishBookingEvent", mock.Anything, mock.Anything)
}

func TestReconcile_FirstRuleFailureStillRunsSecond(t *testing.T) {
	repo := new(ReconcileRepoMock)
	obs := newRecordingObserver()
	svc := services.NewReconcilerService(repo, nil, obs, "", newNoopLogger())

	repo.On("ActivateConfirmed", mock.Anything, now).Return(nil, errors.New("deadlock detected")).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return([]models.BookingEvent{
		{BookingID: "b-2", Status: models.BookingNeedToBeReturned},
	}, nil).Once()

	res, err := svc.Reconcile(context.Background(), now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock detected")
	assert.Equal(t, 1, res.Overdue)
	require.Len(t, obs.runs, 1)
	assert.Error(t, obs.runs[0])
	repo.AssertExpectations(t)
}

func TestReconcile_BothRulesFail(t *testing.T) {
	repo := new(ReconcileRepoMock)
	svc := services.NewReconcilerService(repo, nil, nil, "", newNoopLogger())
	errActivate := errors.New("activate failed")
	errOverdue := errors.New("overdue failed")

	repo.On("ActivateConfirmed", mock.Anything, now).Return(nil, errActivate).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return(nil, errOverdue).Once()

	_, err := svc.Reconcile(context.Background(), now)
	assert.ErrorIs(t, err, errActivate)
	assert.ErrorIs(t, err, errOverdue)
}

func TestReconcile_PublishFailureIsNotFatal(t *testing.T) {
	repo := new(ReconcileRepoMock)
	pub := new(PublisherMock)
	svc := services.NewReconcilerService(repo, pub, nil, "", newNoopLogger())

	repo.On("ActivateConfirmed", mock.Anything, now).Return([]models.BookingEvent{
		{BookingID: "b-1", Status: models.BookingActive},
	}, nil).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return(nil, nil).Once()
	pub.On("PublishBookingEvent", mock.Anything, mock.Anything).Return(errors.New("channel closed")).Once()

	res, err := svc.Reconcile(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Activated)
}

func TestJob_UsesClock(t *testing.T) {
	repo := new(ReconcileRepoMock)
	svc := services.NewReconcilerService(repo, nil, nil, "", newNoopLogger())
	local := now.In(time.FixedZone("UTC+5", 5*3600))

	repo.On("ActivateConfirmed", mock.Anything, now).Return(nil, nil).Once()
	repo.On("MarkOverdue", mock.Anything, now, models.OverduePendingReturn).Return(nil, nil).Once()

	svc.Job(context.Background(), func() time.Time { return local }).Run()
	repo.AssertExpectations(t)
}
