package service

import (
	"fmt"
	"path/filepath"
	"testing"

	"orderbot/internal/domain"
	"orderbot/internal/repository/filestore"
	"orderbot/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type requestFixture struct {
	users     *filestore.UserRepo
	requests  *filestore.RequestRepo
	messenger *testutil.MockMessenger
	service   *RequestService
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()
	store, err := filestore.Open(filepath.Join(t.TempDir(), "data"), testutil.NewTestLogger())
	require.NoError(t, err)

	f := &requestFixture{
		users:     filestore.NewUserRepo(store),
		requests:  filestore.NewRequestRepo(store),
		messenger: new(testutil.MockMessenger),
	}
	users := NewUserService(f.users, "boss", testutil.NewTestLogger())
	f.service = NewRequestService(f.requests, users, f.messenger, testutil.NewTestLogger())
	return f
}

func (f *requestFixture) register(t *testing.T, username string, chatID int64) {
	t.Helper()
	require.NoError(t, f.users.SaveUser(domain.User{Username: username, ChatID: chatID}))
}

func TestRequestService_RecordRequestWithoutAdmin(t *testing.T) {
	f := newRequestFixture(t)
	f.register(t, "bob", 2)

	err := f.service.RecordRequest(domain.RequestSurprise, "bob")
	require.NoError(t, err)

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Equal(t, []domain.PendingRequest{{Kind: domain.RequestSurprise, Requester: "bob"}}, pending)
	f.messenger.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRequestService_RecordRequestNotifiesAdmin(t *testing.T) {
	f := newRequestFixture(t)
	f.register(t, "boss", 100)
	f.register(t, "alice", 1)
	f.messenger.On("Send", int64(100), "📩 @alice запросил список покупок").Return(nil).Once()
	f.messenger.On("Send", int64(100), "📩 пользователь #7 запросил сюрприз").Return(fmt.Errorf("blocked")).Once()

	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "alice"))
	// a failed notification does not fail the request
	require.NoError(t, f.service.RecordRequest(domain.RequestSurprise, "#7"))

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Len(t, pending, 2)
	f.messenger.AssertExpectations(t)
}

func TestRequestService_RecordRequestPersistenceFailure(t *testing.T) {
	mockRepo := new(testutil.MockRequestRepository)
	mockRepo.On("SetPending", domain.RequestShopping, "alice").Return("", fmt.Errorf("db error"))
	messenger := new(testutil.MockMessenger)

	users := NewUserService(new(testutil.MockUserRepository), "boss", testutil.NewTestLogger())
	service := NewRequestService(mockRepo, users, messenger, testutil.NewTestLogger())

	err := service.RecordRequest(domain.RequestShopping, "alice")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	messenger.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestRequestService_LastWriterWins(t *testing.T) {
	f := newRequestFixture(t)
	f.register(t, "alice", 1)
	f.register(t, "bob", 2)
	f.messenger.On("Send", int64(2), "📩 Ответ администратора: купи молоко").Return(nil).Once()

	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "alice"))
	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "bob"))

	report, err := f.service.RouteAdminReply("boss", "купи молоко")
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, report.Delivered)
	f.messenger.AssertNotCalled(t, "Send", int64(1), mock.Anything)
	f.messenger.AssertExpectations(t)

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestService_RouteAdminReplyNotAuthorized(t *testing.T) {
	f := newRequestFixture(t)
	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "alice"))

	_, err := f.service.RouteAdminReply("alice", "hello")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = f.service.RouteAdminReply("", "hello")
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Equal(t, []domain.PendingRequest{{Kind: domain.RequestShopping, Requester: "alice"}}, pending)
	f.messenger.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRequestService_RouteAdminReplyIsolatesFailures(t *testing.T) {
	f := newRequestFixture(t)
	f.register(t, "alice", 1)
	f.register(t, "bob", 2)
	f.messenger.On("Send", int64(1), mock.Anything).Return(fmt.Errorf("bot was blocked by the user")).Once()
	f.messenger.On("Send", int64(2), mock.Anything).Return(nil).Once()

	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "alice"))
	require.NoError(t, f.service.RecordRequest(domain.RequestSurprise, "bob"))

	report, err := f.service.RouteAdminReply("boss", "завтра")
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, report.Delivered)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "alice", report.Failed[0].Recipient)
	f.messenger.AssertExpectations(t)

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestService_RouteAdminReplyResolvesRequesters(t *testing.T) {
	f := newRequestFixture(t)
	f.register(t, "alice", 1)
	f.messenger.On("Send", int64(1), mock.Anything).Return(nil).Once()
	f.messenger.On("Send", int64(42), mock.Anything).Return(nil).Once()

	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "alice"))
	require.NoError(t, f.service.RecordRequest(domain.RequestSurprise, "alice"))
	_, err := f.requests.SetPending(domain.RequestSurprise, "#42")
	require.NoError(t, err)

	_, err = f.service.RouteAdminReply("boss", "ok")
	require.NoError(t, err)
	f.messenger.AssertExpectations(t)

	// same requester under both kinds gets a single reply
	f2 := newRequestFixture(t)
	f2.register(t, "alice", 1)
	f2.messenger.On("Send", int64(1), mock.Anything).Return(nil).Once()
	require.NoError(t, f2.service.RecordRequest(domain.RequestShopping, "alice"))
	require.NoError(t, f2.service.RecordRequest(domain.RequestSurprise, "alice"))

	report, err := f2.service.RouteAdminReply("boss", "ok")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, report.Delivered)
	f2.messenger.AssertNumberOfCalls(t, "Send", 1)
}

func TestRequestService_RouteAdminReplySkipsUnregistered(t *testing.T) {
	f := newRequestFixture(t)
	require.NoError(t, f.service.RecordRequest(domain.RequestShopping, "ghost"))

	report, err := f.service.RouteAdminReply("boss", "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"ghost"}, report.Skipped)
	assert.Empty(t, report.Delivered)
	f.messenger.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	pending, err := f.requests.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestService_RouteAdminReplyClearFailure(t *testing.T) {
	mockRepo := new(testutil.MockRequestRepository)
	mockRepo.On("Pending").Return([]domain.PendingRequest{{Kind: domain.RequestSurprise, Requester: "#5"}}, nil)
	mockRepo.On("ClearPending").Return(fmt.Errorf("db error")).Once()
	messenger := new(testutil.MockMessenger)
	messenger.On("Send", int64(5), mock.Anything).Return(nil).Once()

	users := NewUserService(new(testutil.MockUserRepository), "boss", testutil.NewTestLogger())
	service := NewRequestService(mockRepo, users, messenger, testutil.NewTestLogger())

	report, err := service.RouteAdminReply("boss", "hi")

	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.Equal(t, []string{"#5"}, report.Delivered)
	mockRepo.AssertExpectations(t)
	messenger.AssertExpectations(t)
}

func TestRequestService_SubmitOrder(t *testing.T) {
	t.Run("with administrator", func(t *testing.T) {
		f := newRequestFixture(t)
		f.register(t, "boss", 100)
		f.messenger.On("Send", int64(1), "✅ Ваш заказ отправлен администратору.\n\nВаш заказ:\n• borscht\n• minestrone").Return(nil).Once()
		f.messenger.On("Send", int64(100), "📩 Новый заказ от @alice:\n• borscht\n• minestrone").Return(nil).Once()

		err := f.service.SubmitOrder("alice", 1, []string{"borscht", "minestrone"})

		assert.NoError(t, err)
		f.messenger.AssertExpectations(t)
	})

	t.Run("without administrator", func(t *testing.T) {
		f := newRequestFixture(t)
		f.messenger.On("Send", int64(1), mock.Anything).Return(nil).Once()

		err := f.service.SubmitOrder("alice", 1, []string{"borscht"})

		assert.NoError(t, err)
		f.messenger.AssertNumberOfCalls(t, "Send", 1)
	})

	t.Run("delivery failure", func(t *testing.T) {
		f := newRequestFixture(t)
		f.register(t, "boss", 100)
		f.messenger.On("Send", int64(1), mock.Anything).Return(nil).Once()
		f.messenger.On("Send", int64(100), mock.Anything).Return(fmt.Errorf("timeout")).Once()

		err := f.service.SubmitOrder("alice", 1, []string{"borscht"})

		var derr *domain.DeliveryError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "boss", derr.Recipient)
		f.messenger.AssertExpectations(t)
	})
}
