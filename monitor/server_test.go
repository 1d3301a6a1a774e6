package monitor_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/smilemakc/jobtree/monitor"
	"github.com/smilemakc/jobtree/store"
)

func newMockRepo(t *testing.T) (*store.EventRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	bunDB := bun.NewDB(db, pgdialect.New())
	bunDB.RegisterModel((*store.EventMirror)(nil))
	return store.NewEventRepository(bunDB), mock
}

func TestServer_Healthz_RequiresNoAuth(t *testing.T) {
	repo, _ := newMockRepo(t)
	srv := monitor.New(monitor.Config{JWTSecret: "secret"}, repo, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_ExecutionHistory_RequiresAuth(t *testing.T) {
	repo, _ := newMockRepo(t)
	srv := monitor.New(monitor.Config{JWTSecret: "secret"}, repo, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/executions/wf-1", nil)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_ExecutionHistory_ReturnsMirroredEvents(t *testing.T) {
	repo, mock := newMockRepo(t)
	srv := monitor.New(monitor.Config{JWTSecret: "secret"}, repo, nil)

	rows := sqlmock.NewRows([]string{"id", "workflow_id", "run_id", "event_id", "event_type", "event_timestamp", "attributes", "created_at"}).
		AddRow("11111111-1111-1111-1111-111111111111", "wf-1", "wf-1-run", int64(1), "WorkflowExecutionStarted", time.Unix(0, 0).UTC(), `{}`, time.Unix(0, 0).UTC())
	mock.ExpectQuery(`SELECT (.+) FROM "event_mirror"`).WillReturnRows(rows)

	claims := &monitor.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/executions/wf-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "WorkflowExecutionStarted")
}

func TestServer_WebSocket_PublishesExecutionEvents(t *testing.T) {
	repo, _ := newMockRepo(t)
	srv := monitor.New(monitor.Config{JWTSecret: "secret"}, repo, nil)

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	claims := &monitor.Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?workflow_id=wf-1&token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	srv.Publish(monitor.ExecutionEvent{WorkflowID: "wf-1", EventType: "DecisionCompleted"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var got monitor.ExecutionEvent
	require.NoError(t, json.Unmarshal(data, &got))
	require.Equal(t, "wf-1", got.WorkflowID)
	require.Equal(t, "DecisionCompleted", got.EventType)
}
