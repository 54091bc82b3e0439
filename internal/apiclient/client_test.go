package apiclient

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/premiumshare/paytracker/internal/apierrors"
	"github.com/premiumshare/paytracker/internal/config"
	"github.com/premiumshare/paytracker/internal/db"
	"github.com/premiumshare/paytracker/internal/models"
	"github.com/premiumshare/paytracker/internal/tokenstore"
	"github.com/premiumshare/paytracker/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) *testAPIServer {
	server := &testAPIServer{AccessToken: "access-1", RefreshToken: "refresh-1", RefreshedTo: "access-2"}
	server.Start()
	t.Cleanup(server.Server().Close)
	return server
}

func baseURL(t *testing.T, server *testAPIServer) *url.URL {
	parsed, err := url.Parse(server.Server().URL + "/api")
	require.NoError(t, err)
	return parsed
}

// newAuthenticatedClient wires the API client through the token store the same way the
// dashboard does.
func newAuthenticatedClient(t *testing.T, server *testAPIServer, session models.Session) (*Client, *tokenstore.TokenStore) {
	authAPI, err := NewClient(WithBaseURL(baseURL(t, server)))
	require.NoError(t, err)
	repo, err := db.NewMockRedisAdapter()
	require.NoError(t, err)
	store, err := tokenstore.NewTokenStore(
		tokenstore.WithSessionID("operator"),
		tokenstore.WithSessionRepository(repo),
		tokenstore.WithRefresher(NewAuthClient(authAPI)),
	)
	require.NoError(t, err)
	if !session.Empty() {
		require.NoError(t, store.StartSession(context.Background(), session))
	}
	api, err := NewClient(WithBaseURL(baseURL(t, server)), WithTransport(store.Transport(nil)))
	require.NoError(t, err)
	return api, store
}

func TestNewClientOptions(t *testing.T) {
	_, err := NewClient()
	assert.Error(t, err)

	base, err := url.Parse("http://localhost:3000")
	require.NoError(t, err)
	client, err := NewClient(WithConfig(config.APIConfig{BaseURL: base, Timeout: time.Second}))
	require.NoError(t, err)
	assert.Equal(t, time.Second, client.httpClient.Timeout)
	assert.Equal(t, "http://localhost:3000/clients/a%20b", client.endpoint("/clients/"+escape("a b")))
}

func TestLogin(t *testing.T) {
	server := startTestServer(t)
	api, err := NewClient(WithBaseURL(baseURL(t, server)))
	require.NoError(t, err)
	auth := NewAuthClient(api)

	res, err := auth.Login(context.Background(), models.LoginRequest{Email: "ops@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "access-1", res.AccessToken)
	assert.Equal(t, "refresh-1", res.RefreshToken)
	assert.Equal(t, "ops@example.com", res.User.Email)
}

func TestLoginRejected(t *testing.T) {
	server := startTestServer(t)
	api, err := NewClient(WithBaseURL(baseURL(t, server)))
	require.NoError(t, err)

	_, err = NewAuthClient(api).Login(context.Background(), models.LoginRequest{Email: "ops@example.com", Password: "nope"})

	assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, "wrong credentials", apierrors.DisplayMessage(err, "authentication failed"))
}

func TestLoginValidationDoesNotCallServer(t *testing.T) {
	server := startTestServer(t)
	api, err := NewClient(WithBaseURL(baseURL(t, server)))
	require.NoError(t, err)

	_, err = NewAuthClient(api).Login(context.Background(), models.LoginRequest{Email: "not-an-email", Password: "secret"})

	assert.ErrorIs(t, err, apierrors.ErrValidation)
	assert.Empty(t, server.Paths())
}

func TestRefreshErrorField(t *testing.T) {
	server := startTestServer(t)
	api, err := NewClient(WithBaseURL(baseURL(t, server)))
	require.NoError(t, err)

	_, err = NewAuthClient(api).Refresh(context.Background(), "wrong")

	assert.ErrorIs(t, err, apierrors.ErrUnauthorized)
	assert.Equal(t, "refresh token revoked", apierrors.DisplayMessage(err, ""))
}

func TestListClientsWithRequestID(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})
	ctx := utils.WithRequestID(context.Background(), "req-123")

	clients, err := api.ListClients(ctx)

	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "Ana", clients[0].Name)
	assert.Equal(t, 5, clients[0].DayToPay)
	assert.Equal(t, models.ClientActive, clients[0].Status)
	assert.Equal(t, []string{"req-123"}, server.RequestIDs())
}

func TestGeneratedRequestID(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := api.ListClients(context.Background())

	require.NoError(t, err)
	requestIDs := server.RequestIDs()
	require.Len(t, requestIDs, 1)
	_, err = uuid.Parse(requestIDs[0])
	assert.NoError(t, err)
}

func TestClientNotFound(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := api.GetClient(context.Background(), "missing")

	assert.ErrorIs(t, err, apierrors.ErrNotFound)
	assert.Equal(t, "client not found", apierrors.DisplayMessage(err, "error"))
}

func TestServerErrorWithoutMessage(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := api.ListPayments(context.Background())

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "could not load payments", apierrors.DisplayMessage(err, "could not load payments"))
}

func TestDeleteClientNoContent(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})

	err := api.DeleteClient(context.Background(), "c1")

	assert.NoError(t, err)
}

func TestCreateAndPollPayment(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})
	ctx := context.Background()

	created, err := api.CreatePayment(ctx, "c1", 8500)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentProcessing, created.Status)
	assert.Equal(t, 8500.0, created.Amount)

	polled, err := api.GetClientPayment(ctx, "c1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, polled.Status)
	assert.Equal(t, []string{"POST /api/clients/c1/payments", "GET /api/clients/c1/payments/p1"}, server.Paths())
}

func TestExpiredTokenIsRefreshedThroughTheAPI(t *testing.T) {
	server := startTestServer(t)
	api, store := newAuthenticatedClient(t, server, models.Session{AccessToken: "expired", RefreshToken: "refresh-1"})
	ctx := context.Background()

	clients, err := api.ListClients(ctx)

	require.NoError(t, err)
	assert.Len(t, clients, 1)
	assert.Equal(t, 1, server.Refreshes())
	assert.Equal(t, []string{"GET /api/clients", "POST /api/refresh", "GET /api/clients"}, server.Paths())
	session, err := store.Session(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshToken)
}

func TestRevokedRefreshTokenRequiresLogin(t *testing.T) {
	server := startTestServer(t)
	api, store := newAuthenticatedClient(t, server, models.Session{AccessToken: "expired", RefreshToken: "revoked"})
	ctx := context.Background()

	_, err := api.ListClients(ctx)

	assert.ErrorIs(t, err, apierrors.ErrReauthenticate)
	assert.Equal(t, apierrors.ErrReauthenticate.Error(), apierrors.DisplayMessage(err, ""))
	assert.False(t, store.Authenticated(ctx))
}

func TestUnreachableServer(t *testing.T) {
	base, err := url.Parse("http://127.0.0.1:1")
	require.NoError(t, err)
	api, err := NewClient(WithBaseURL(base), WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = NewAuthClient(api).Login(context.Background(), models.LoginRequest{Email: "ops@example.com", Password: "secret"})

	assert.True(t, apierrors.IsTransport(err))
	assert.Equal(t, "cannot reach the server", apierrors.DisplayMessage(err, "authentication failed"))
}

func TestUsers(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})
	ctx := context.Background()

	users, err := api.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "5", users[0].DateToPay)
	assert.True(t, users[0].Paid)

	_, err = api.CreateUser(ctx, models.CreateUserRequest{Name: "Marta", CellPhone: "123"})
	assert.ErrorContains(t, err, "phone")

	created, err := api.CreateUser(ctx, models.CreateUserRequest{Name: "Marta", CellPhone: "3009998877", DateToPay: "3"})
	require.NoError(t, err)
	assert.Equal(t, "u2", created.ID)
	assert.JSONEq(t, `{"name":"Marta","cell_phone":"3009998877","date_to_pay":"3"}`, server.Body("POST /api/users"))

	paid := true
	_, err = api.UpdateUser(ctx, "u1", models.UpdateUserRequest{Paid: &paid})
	require.NoError(t, err)
	assert.JSONEq(t, `{"Paid":true}`, server.Body("PUT /api/users/u1"))

	_, err = api.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	assert.NoError(t, api.DeleteUser(ctx, "u1"))
}

func TestPaymentRecords(t *testing.T) {
	server := startTestServer(t)
	api, _ := newAuthenticatedClient(t, server, models.Session{AccessToken: "access-1", RefreshToken: "refresh-1"})
	ctx := context.Background()

	recorded, err := api.RecordPayment(ctx, models.CreatePaymentRequest{ClientID: "c1", Amount: 9000})
	require.NoError(t, err)
	assert.Equal(t, "p9", recorded.ID)
	assert.Equal(t, "c1", recorded.OwnerID())
	assert.JSONEq(t, `{"client_id":"c1","amount":9000}`, server.Body("POST /api/payments"))

	payment, err := api.GetPayment(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), payment.Date())

	amount := 9500.0
	_, err = api.UpdatePayment(ctx, "p1", models.UpdatePaymentRequest{Amount: &amount})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":9500}`, server.Body("PUT /api/payments/p1"))

	assert.NoError(t, api.DeletePayment(ctx, "p1"))
	assert.Contains(t, server.Paths(), "DELETE /api/payments/p1")
}
