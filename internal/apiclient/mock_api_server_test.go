package apiclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/premiumshare/paytracker/internal/models"
)

// testAPIServer mocks the subset of the payments API used in the tests.
type testAPIServer struct {
	AccessToken  string
	RefreshToken string
	RefreshedTo  string

	lock       sync.Mutex
	requestIDs []string
	paths      []string
	refreshes  int
	bodies     map[string]string
	server     *httptest.Server
}

// Body returns the raw body received by the endpoint, keyed like the recorded paths.
func (t *testAPIServer) Body(key string) string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.bodies[key]
}

func (t *testAPIServer) recordBody(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.bodies == nil {
		t.bodies = map[string]string{}
	}
	t.bodies[c.Request().Method+" "+c.Request().URL.Path] = string(body)
	return nil
}

func (t *testAPIServer) record(c echo.Context) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.requestIDs = append(t.requestIDs, c.Request().Header.Get(echo.HeaderXRequestID))
	t.paths = append(t.paths, c.Request().Method+" "+c.Request().URL.Path)
}

func (t *testAPIServer) Paths() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string{}, t.paths...)
}

func (t *testAPIServer) RequestIDs() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string{}, t.requestIDs...)
}

func (t *testAPIServer) Refreshes() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.refreshes
}

func (t *testAPIServer) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.record(c)
		t.lock.Lock()
		valid := "Bearer " + t.AccessToken
		t.lock.Unlock()
		if c.Request().Header.Get(echo.HeaderAuthorization) != valid {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid token"})
		}
		return next(c)
	}
}

func (t *testAPIServer) loginEndpoint(c echo.Context) error {
	t.record(c)
	req := models.LoginRequest{}
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Password != "secret" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "wrong credentials"})
	}
	return c.JSON(http.StatusOK, models.AuthResponse{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    3600,
		User:         &models.Account{ID: "u1", Email: req.Email},
	})
}

func (t *testAPIServer) refreshEndpoint(c echo.Context) error {
	t.record(c)
	req := models.RefreshRequest{}
	if err := c.Bind(&req); err != nil {
		return err
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	if req.RefreshToken != t.RefreshToken {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "refresh token revoked"})
	}
	t.refreshes++
	t.AccessToken = t.RefreshedTo
	return c.JSON(http.StatusOK, map[string]string{"access_token": t.RefreshedTo})
}

func (t *testAPIServer) listClientsEndpoint(c echo.Context) error {
	return c.JSON(http.StatusOK, []map[string]any{
		{"id": "c1", "name": "Ana", "cell_phone": "3001234567", "day_to_pay": 5, "status": "active"},
	})
}

func (t *testAPIServer) getClientEndpoint(c echo.Context) error {
	if c.Param("id") != "c1" {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "client not found"})
	}
	return t.listClientsEndpoint(c)
}

func (t *testAPIServer) createPaymentEndpoint(c echo.Context) error {
	req := models.CreatePaymentRequest{}
	if err := c.Bind(&req); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"id":        "p1",
		"client_id": c.Param("id"),
		"amount":    req.Amount,
		"status":    "pending",
	})
}

func (t *testAPIServer) getPaymentEndpoint(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"id":        c.Param("paymentID"),
		"client_id": c.Param("id"),
		"amount":    8500,
		"status":    "success",
	})
}

func (t *testAPIServer) listUsersEndpoint(c echo.Context) error {
	return c.JSON(http.StatusOK, []map[string]any{
		{"id": "u1", "name": "Ana", "cell_phone": "3001234567", "date_to_pay": "5", "paid": true, "status": "active"},
	})
}

func (t *testAPIServer) userEndpoint(c echo.Context) error {
	if err := t.recordBody(c); err != nil {
		return err
	}
	if c.Param("id") == "missing" {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "user not found"})
	}
	id := c.Param("id")
	if id == "" {
		id = "u2"
	}
	return c.JSON(http.StatusOK, map[string]any{"id": id, "name": "Ana", "cell_phone": "3001234567", "paid": false})
}

func (t *testAPIServer) paymentEndpoint(c echo.Context) error {
	if err := t.recordBody(c); err != nil {
		return err
	}
	id := c.Param("id")
	if id == "" {
		id = "p9"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":           id,
		"user_id":      "c1",
		"amount":       9000,
		"status":       "success",
		"payment_date": "2024-05-01T10:00:00Z",
	})
}

func (t *testAPIServer) deleteEndpoint(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func (t *testAPIServer) brokenEndpoint(c echo.Context) error {
	return c.String(http.StatusInternalServerError, "<html>oops</html>")
}

func (t *testAPIServer) Server() *httptest.Server {
	if t.server == nil {
		panic("Server has not been started")
	}
	return t.server
}

func (t *testAPIServer) Start() {
	e := echo.New()
	e.POST("/api/login", t.loginEndpoint)
	e.POST("/api/refresh", t.refreshEndpoint)
	api := e.Group("/api", t.authMiddleware)
	api.GET("/clients", t.listClientsEndpoint)
	api.GET("/clients/:id", t.getClientEndpoint)
	api.DELETE("/clients/:id", t.deleteEndpoint)
	api.POST("/clients/:id/payments", t.createPaymentEndpoint)
	api.GET("/clients/:id/payments/:paymentID", t.getPaymentEndpoint)
	api.GET("/payments", t.brokenEndpoint)
	api.POST("/payments", t.paymentEndpoint)
	api.GET("/payments/:id", t.paymentEndpoint)
	api.PUT("/payments/:id", t.paymentEndpoint)
	api.DELETE("/payments/:id", t.deleteEndpoint)
	api.GET("/users", t.listUsersEndpoint)
	api.POST("/users", t.userEndpoint)
	api.GET("/users/:id", t.userEndpoint)
	api.PUT("/users/:id", t.userEndpoint)
	api.DELETE("/users/:id", t.deleteEndpoint)
	t.server = httptest.NewServer(e.Server.Handler)
}
