package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/RubeldiRubelda/merryweihnachten/internal/config"
	"github.com/RubeldiRubelda/merryweihnachten/internal/models"
	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Participant{}, &models.AdminSession{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AdminPassword: "admin123",
	}

	engine := New(Deps{
		Config:             cfg,
		DB:                 db,
		AuthService:        services.NewAuthService(db, cfg.JWTSecret, cfg.AdminPassword),
		ParticipantService: services.NewParticipantService(db),
		Hub:                ws.NewHub(),
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a request with an optional bearer token and JSON body and
// decodes the JSON response into out when out is non-nil.
func doJSON(t *testing.T, method, url, token string, body, out interface{}) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response of %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func adminLogin(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	var resp struct {
		AdminToken string `json:"adminToken"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/admin-login", "",
		map[string]string{"password": "admin123"}, &resp)
	if status != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d", status)
	}
	if resp.AdminToken == "" {
		t.Fatal("admin login: empty token")
	}
	return resp.AdminToken
}

func fetchLeaderboard(t *testing.T, srv *httptest.Server) []services.LeaderboardEntry {
	t.Helper()

	var entries []services.LeaderboardEntry
	status := doJSON(t, http.MethodGet, srv.URL+"/api/leaderboard", "", nil, &entries)
	if status != http.StatusOK {
		t.Fatalf("leaderboard: expected 200, got %d", status)
	}
	return entries
}

func TestParticipantLifecycle(t *testing.T) {
	srv := setupTestServer(t)
	admin := adminLogin(t, srv)

	// Register Alice.
	var login struct {
		Token string `json:"token"`
	}
	status := doJSON(t, http.MethodPost, srv.URL+"/login", "",
		map[string]string{"phoneNumber": "0000000001", "name": "Alice"}, &login)
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}

	// She appears on the leaderboard with zero points.
	entries := fetchLeaderboard(t, srv)
	if len(entries) != 1 || entries[0].Name != "Alice" || entries[0].Points != 0 {
		t.Fatalf("unexpected leaderboard after registration: %+v", entries)
	}

	// Award 50 points.
	status = doJSON(t, http.MethodPost, srv.URL+"/api/admin/assign-points", admin,
		map[string]interface{}{"phoneNumber": "0000000001", "points": 50, "game": "Quiz"}, nil)
	if status != http.StatusOK {
		t.Fatalf("assign-points: expected 200, got %d", status)
	}
	if entries = fetchLeaderboard(t, srv); entries[0].Points != 50 {
		t.Fatalf("expected 50 points, got %d", entries[0].Points)
	}

	// Overwrite to 10.
	status = doJSON(t, http.MethodPost, srv.URL+"/api/admin/set-points", admin,
		map[string]interface{}{"phoneNumber": "0000000001", "points": 10}, nil)
	if status != http.StatusOK {
		t.Fatalf("set-points: expected 200, got %d", status)
	}
	if entries = fetchLeaderboard(t, srv); entries[0].Points != 10 {
		t.Fatalf("expected 10 points, got %d", entries[0].Points)
	}

	// Her own view matches.
	var me models.Participant
	status = doJSON(t, http.MethodGet, srv.URL+"/api/user", login.Token, nil, &me)
	if status != http.StatusOK {
		t.Fatalf("api/user: expected 200, got %d", status)
	}
	if me.Points != 10 || me.Name != "Alice" {
		t.Fatalf("unexpected own record: %+v", me)
	}

	// Delete Alice; she is gone everywhere.
	status = doJSON(t, http.MethodDelete, srv.URL+"/api/admin/delete-user/0000000001", admin, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("delete-user: expected 200, got %d", status)
	}
	if entries = fetchLeaderboard(t, srv); len(entries) != 0 {
		t.Fatalf("expected empty leaderboard, got %+v", entries)
	}
	status = doJSON(t, http.MethodGet, srv.URL+"/api/admin/search-user/0000000001", admin, nil, nil)
	if status != http.StatusNotFound {
		t.Fatalf("search-user after delete: expected 404, got %d", status)
	}
	status = doJSON(t, http.MethodGet, srv.URL+"/api/user", login.Token, nil, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("api/user after delete: expected 401, got %d", status)
	}
}

func TestReRegistrationKeepsFirstName(t *testing.T) {
	srv := setupTestServer(t)

	doJSON(t, http.MethodPost, srv.URL+"/login", "",
		map[string]string{"phoneNumber": "0790000001", "name": "Alice"}, nil)
	doJSON(t, http.MethodPost, srv.URL+"/login", "",
		map[string]string{"phoneNumber": "0790000001", "name": "Mallory"}, nil)

	entries := fetchLeaderboard(t, srv)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Name != "Alice" {
		t.Errorf("expected first name to stick, got %q", entries[0].Name)
	}
}

func TestAdminAuth(t *testing.T) {
	srv := setupTestServer(t)

	// Wrong password.
	status := doJSON(t, http.MethodPost, srv.URL+"/admin-login", "",
		map[string]string{"password": "letmein"}, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("wrong password: expected 401, got %d", status)
	}

	// Missing header.
	status = doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", "", nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("missing header: expected 401, got %d", status)
	}

	// Garbage token.
	status = doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", "garbage", nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("garbage token: expected 403, got %d", status)
	}

	// Revoked token.
	admin := adminLogin(t, srv)
	status = doJSON(t, http.MethodPost, srv.URL+"/admin/logout", admin, nil, nil)
	if status != http.StatusOK {
		t.Fatalf("admin logout: expected 200, got %d", status)
	}
	status = doJSON(t, http.MethodGet, srv.URL+"/api/admin/users", admin, nil, nil)
	if status != http.StatusForbidden {
		t.Errorf("revoked token: expected 403, got %d", status)
	}
}

func TestAddUserDuplicate(t *testing.T) {
	srv := setupTestServer(t)
	admin := adminLogin(t, srv)

	body := map[string]string{"phoneNumber": "0790000001", "name": "Alice"}
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/admin/add-user", admin, body, nil); status != http.StatusOK {
		t.Fatalf("add-user: expected 200, got %d", status)
	}
	if status := doJSON(t, http.MethodPost, srv.URL+"/api/admin/add-user", admin, body, nil); status != http.StatusBadRequest {
		t.Errorf("duplicate add-user: expected 400, got %d", status)
	}
}

func TestPointsInputCoercion(t *testing.T) {
	srv := setupTestServer(t)
	admin := adminLogin(t, srv)

	doJSON(t, http.MethodPost, srv.URL+"/api/admin/add-user", admin,
		map[string]string{"phoneNumber": "0790000001", "name": "Alice"}, nil)

	// Numeric string counts.
	status := doJSON(t, http.MethodPost, srv.URL+"/api/admin/assign-points", admin,
		map[string]interface{}{"phoneNumber": "0790000001", "points": "25", "game": "Darts"}, nil)
	if status != http.StatusOK {
		t.Fatalf("assign-points string: expected 200, got %d", status)
	}

	// Non-numeric input coerces to 0.
	status = doJSON(t, http.MethodPost, srv.URL+"/api/admin/assign-points", admin,
		map[string]interface{}{"phoneNumber": "0790000001", "points": "lots", "game": "Darts"}, nil)
	if status != http.StatusOK {
		t.Fatalf("assign-points garbage: expected 200, got %d", status)
	}

	entries := fetchLeaderboard(t, srv)
	if entries[0].Points != 25 {
		t.Errorf("expected 25 points, got %d", entries[0].Points)
	}
}

func TestGroupAssignment(t *testing.T) {
	srv := setupTestServer(t)
	admin := adminLogin(t, srv)

	for i, name := range []string{"Alice", "Bob"} {
		doJSON(t, http.MethodPost, srv.URL+"/api/admin/add-user", admin,
			map[string]string{"phoneNumber": fmt.Sprintf("079000000%d", i+1), "name": name}, nil)
	}

	status := doJSON(t, http.MethodPost, srv.URL+"/api/admin/assign-group", admin,
		map[string]string{"phoneNumber": "0790000001", "group": "Team Rot"}, nil)
	if status != http.StatusOK {
		t.Fatalf("assign-group: expected 200, got %d", status)
	}

	status = doJSON(t, http.MethodPost, srv.URL+"/api/admin/assign-group", admin,
		map[string]string{"phoneNumber": "0799999999", "group": "Team Rot"}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("assign-group unknown: expected 400, got %d", status)
	}

	var groups []string
	status = doJSON(t, http.MethodGet, srv.URL+"/api/admin/groups", admin, nil, &groups)
	if status != http.StatusOK {
		t.Fatalf("groups: expected 200, got %d", status)
	}
	if len(groups) != 1 || groups[0] != "Team Rot" {
		t.Errorf("unexpected groups: %v", groups)
	}
}

func TestForgedParticipantToken(t *testing.T) {
	srv := setupTestServer(t)

	// Anyone can mint a syntactically valid token, but without a record
	// behind it the holder is simply not logged in.
	forged := "MDc5OTk5OTk5OQ==" // base64("0799999999")
	status := doJSON(t, http.MethodGet, srv.URL+"/api/user", forged, nil, nil)
	if status != http.StatusUnauthorized {
		t.Errorf("forged token for unknown phone: expected 401, got %d", status)
	}
}

func TestValidation(t *testing.T) {
	srv := setupTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/login", "",
		map[string]string{"phoneNumber": "0790000001"}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("login without name: expected 400, got %d", status)
	}
}

func TestHealthz(t *testing.T) {
	srv := setupTestServer(t)

	if status := doJSON(t, http.MethodGet, srv.URL+"/healthz", "", nil, nil); status != http.StatusOK {
		t.Errorf("healthz: expected 200, got %d", status)
	}
}

func TestLeaderboardWebSocketFeed(t *testing.T) {
	srv := setupTestServer(t)
	admin := adminLogin(t, srv)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/leaderboard"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	// Registration with the hub happens just after the handshake.
	time.Sleep(50 * time.Millisecond)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/admin/add-user", admin,
		map[string]string{"phoneNumber": "0790000001", "name": "Alice"}, nil)
	if status != http.StatusOK {
		t.Fatalf("add-user: expected 200, got %d", status)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Type string                      `json:"type"`
		Data []services.LeaderboardEntry `json:"data"`
	}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read websocket message: %v", err)
	}
	if msg.Type != "leaderboard_updated" {
		t.Errorf("expected leaderboard_updated, got %q", msg.Type)
	}
	if len(msg.Data) != 1 || msg.Data[0].Name != "Alice" {
		t.Errorf("unexpected payload: %+v", msg.Data)
	}
}
