package tokenstore

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"
)

// testAPIServer is a protected API that only accepts the currently valid access token.
type testAPIServer struct {
	lock         sync.Mutex
	validToken   string
	alwaysReject bool
	status       int
	rejected     atomic.Int32
	accepted     atomic.Int32
	bodies       []string
	server       *httptest.Server
}

func (t *testAPIServer) SetValidToken(token string) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.validToken = token
}

func (t *testAPIServer) Bodies() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string{}, t.bodies...)
}

func (t *testAPIServer) authorized(c echo.Context) bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.alwaysReject {
		return false
	}
	return c.Request().Header.Get(echo.HeaderAuthorization) == "Bearer "+t.validToken
}

func (t *testAPIServer) clientsEndpoint(c echo.Context) error {
	if !t.authorized(c) {
		t.rejected.Add(1)
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "token expired"})
	}
	t.accepted.Add(1)
	if t.status != 0 {
		return c.JSON(t.status, map[string]string{"message": "unavailable"})
	}
	return c.JSON(http.StatusOK, []map[string]string{{"id": "c1", "name": "Ana"}})
}

func (t *testAPIServer) createClientEndpoint(c echo.Context) error {
	body := new(strings.Builder)
	_, err := io.Copy(body, c.Request().Body)
	if err != nil {
		return err
	}
	t.lock.Lock()
	t.bodies = append(t.bodies, body.String())
	t.lock.Unlock()
	if !t.authorized(c) {
		t.rejected.Add(1)
		return c.NoContent(http.StatusUnauthorized)
	}
	t.accepted.Add(1)
	return c.NoContent(http.StatusCreated)
}

func (t *testAPIServer) Server() *httptest.Server {
	if t.server == nil {
		panic("Server has not been started")
	}
	return t.server
}

func (t *testAPIServer) Start() {
	e := echo.New()
	e.GET("/clients", t.clientsEndpoint)
	e.POST("/clients", t.createClientEndpoint)
	t.server = httptest.NewServer(e.Server.Handler)
}
