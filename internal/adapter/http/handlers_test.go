package adapthttp_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	adapthttp "mybites/internal/adapter/http"
	"mybites/internal/adapter/memory"
	"mybites/internal/adapter/token"
	"mybites/internal/app"
)

// fixedNow is midday UTC on 2026-06-03; the server default zone is UTC.
var fixedNow = time.Date(2026, 6, 3, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	db      *memory.DB
	auth    *app.AuthService
	metrics *adapthttp.Metrics
	ts      *httptest.Server
}

func newTestEnv(t *testing.T, authOpts []app.AuthOption, opts ...adapthttp.Option) *testEnv {
	t.Helper()

	db := memory.New()
	cal, err := app.NewCalendarResolver(db, "threshold", time.UTC)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	hydration := app.NewHydrationService(db, cal)
	authSvc := app.NewAuthService(db, db.NewSessionRepo(), authOpts...)
	metrics := adapthttp.NewMetrics()

	opts = append([]adapthttp.Option{
		adapthttp.WithClock(func() time.Time { return fixedNow }),
		adapthttp.WithMetrics(metrics),
	}, opts...)

	srv := adapthttp.New(adapthttp.Services{
		Hydration: hydration,
		Meals:     app.NewMealService(db),
		Profiles:  app.NewProfileService(db),
		Badges:    app.NewBadgeService(hydration),
		History:   app.NewHistoryService(db, db, cal),
		Auth:      authSvc,
	}, opts...)

	env := &testEnv{db: db, auth: authSvc, metrics: metrics}
	env.ts = httptest.NewServer(srv.Handler())
	t.Cleanup(env.ts.Close)
	return env
}

// newTestServer returns a server with authentication disabled.
func newTestServer(t *testing.T) *testEnv {
	t.Helper()

	db := memory.New()
	cal, err := app.NewCalendarResolver(db, "threshold", time.UTC)
	if err != nil {
		t.Fatalf("calendar: %v", err)
	}
	hydration := app.NewHydrationService(db, cal)
	authSvc := app.NewAuthService(db, db.NewSessionRepo())
	metrics := adapthttp.NewMetrics()

	srv := adapthttp.New(adapthttp.Services{
		Hydration: hydration,
		Meals:     app.NewMealService(db),
		Profiles:  app.NewProfileService(db),
		Badges:    app.NewBadgeService(hydration),
		History:   app.NewHistoryService(db, db, cal),
		Auth:      authSvc,
	},
		adapthttp.WithClock(func() time.Time { return fixedNow }),
		adapthttp.WithMetrics(metrics),
	).WithoutAuth()

	env := &testEnv{db: db, auth: authSvc, metrics: metrics}
	env.ts = httptest.NewServer(srv.Handler())
	t.Cleanup(env.ts.Close)
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, payload any, headers ...string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return m
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d; body: %s", want, resp.StatusCode, b)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusOK)

	body := decodeBody(t, resp)
	if body["ok"] != true {
		t.Fatalf("expected ok=true, got %v", body["ok"])
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Fatalf("expected no-store, got %q", got)
	}
}

func TestWaterEventUnlocksBadgeAtGoal(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 40})
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["streak"] != float64(0) {
		t.Fatalf("expected streak 0 below goal, got %v", body["streak"])
	}
	if badges, ok := body["newBadges"].([]any); !ok || len(badges) != 0 {
		t.Fatalf("expected empty newBadges array, got %#v", body["newBadges"])
	}

	resp = env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 24})
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["streak"] != float64(1) {
		t.Fatalf("expected streak 1 at goal, got %v", body["streak"])
	}
	badges, _ := body["newBadges"].([]any)
	if len(badges) != 1 || badges[0].(map[string]any)["id"] != "first_sip" {
		t.Fatalf("expected first_sip, got %v", badges)
	}

	resp = env.do(t, http.MethodGet, "/api/water/today", nil)
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["day"] != "2026-06-03" || body["total"] != float64(64) || body["goalMet"] != true {
		t.Fatalf("unexpected today summary: %v", body)
	}
}

func TestWaterStreakAcrossDays(t *testing.T) {
	env := newTestServer(t)
	ctx := context.Background()

	for _, ts := range []time.Time{
		time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC),
	} {
		if _, err := env.db.AddWaterEvent(ctx, "local", 64, ts); err != nil {
			t.Fatal(err)
		}
	}

	resp := env.do(t, http.MethodGet, "/api/water/streak", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["current"] != float64(0) || body["longest"] != float64(2) {
		t.Fatalf("expected current 0 longest 2 before today's log, got %v", body)
	}

	resp = env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 64})
	expectStatus(t, resp, http.StatusOK)
	body = decodeBody(t, resp)
	if body["streak"] != float64(3) {
		t.Fatalf("expected streak 3, got %v", body["streak"])
	}
	badges, _ := body["newBadges"].([]any)
	if len(badges) != 2 || badges[1].(map[string]any)["id"] != "flowing_steady" {
		t.Fatalf("expected first_sip and flowing_steady, got %v", badges)
	}
}

func TestWaterEventValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
	}{
		{name: "zero", payload: map[string]any{"amount": 0}},
		{name: "negative", payload: map[string]any{"amount": -8}},
		{name: "too large", payload: map[string]any{"amount": 1000}},
		{name: "unknown field", payload: map[string]any{"amount": 8, "unit": "oz"}},
	}

	env := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/water/event", tc.payload)
			expectStatus(t, resp, http.StatusBadRequest)
			if _, ok := decodeBody(t, resp)["error"]; !ok {
				t.Fatal("response missing 'error' field")
			}
		})
	}
}

func TestWaterRecentDeleteAndUndo(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/water/undo-last", nil)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["undone"] != false {
		t.Fatalf("expected undone=false with no events, got %v", body)
	}

	var ids []string
	for i := 0; i < 2; i++ {
		resp = env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 8})
		expectStatus(t, resp, http.StatusOK)
		ids = append(ids, decodeBody(t, resp)["id"].(string))
	}

	resp = env.do(t, http.MethodGet, "/api/water/recent?limit=5", nil)
	expectStatus(t, resp, http.StatusOK)
	if items, _ := decodeBody(t, resp)["items"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	resp = env.do(t, http.MethodDelete, "/api/water/event/"+ids[0], nil)
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodDelete, "/api/water/event/"+ids[0], nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = env.do(t, http.MethodPost, "/api/water/undo-last", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["undone"] != true || body["id"] != ids[1] {
		t.Fatalf("expected undo of %s, got %v", ids[1], body)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPut, "/api/water/today", nil)
	expectStatus(t, resp, http.StatusMethodNotAllowed)

	resp = env.do(t, http.MethodGet, "/api/water/event", nil)
	expectStatus(t, resp, http.StatusMethodNotAllowed)
}

func TestMealsAndFavorites(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/meals", map[string]any{"name": "Oatmeal", "type": "breakfast"})
	expectStatus(t, resp, http.StatusCreated)
	entry := decodeBody(t, resp)["entry"].(map[string]any)
	if entry["name"] != "Oatmeal" || entry["type"] != "breakfast" {
		t.Fatalf("unexpected entry: %v", entry)
	}

	resp = env.do(t, http.MethodPost, "/api/meals", map[string]any{"name": "Cake", "type": "brunch"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPost, "/api/meals/favorites", map[string]any{"name": "Salad", "type": "lunch"})
	expectStatus(t, resp, http.StatusCreated)
	favID := decodeBody(t, resp)["favorite"].(map[string]any)["id"].(string)

	resp = env.do(t, http.MethodPost, "/api/meals/favorites/"+favID+"/log", nil)
	expectStatus(t, resp, http.StatusCreated)
	if logged := decodeBody(t, resp)["entry"].(map[string]any); logged["name"] != "Salad" {
		t.Fatalf("expected favorite copied into diary, got %v", logged)
	}

	resp = env.do(t, http.MethodGet, "/api/meals/recent", nil)
	expectStatus(t, resp, http.StatusOK)
	if items, _ := decodeBody(t, resp)["items"].([]any); len(items) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(items))
	}

	resp = env.do(t, http.MethodGet, "/api/meals/favorites", nil)
	expectStatus(t, resp, http.StatusOK)
	if items, _ := decodeBody(t, resp)["items"].([]any); len(items) != 1 {
		t.Fatalf("expected 1 favorite, got %d", len(items))
	}

	resp = env.do(t, http.MethodDelete, "/api/meals/favorites/"+favID, nil)
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodPost, "/api/meals/favorites/"+favID+"/log", nil)
	expectStatus(t, resp, http.StatusNotFound)

	resp = env.do(t, http.MethodDelete, "/api/meals/"+entry["id"].(string), nil)
	expectStatus(t, resp, http.StatusOK)
}

func TestProfileDrivesStreakGoal(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodGet, "/api/profile", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["hydrationTarget"] != float64(64) || body["onboarded"] != false {
		t.Fatalf("unexpected default profile: %v", body)
	}

	resp = env.do(t, http.MethodPut, "/api/profile", map[string]any{
		"name": "Sam", "hydrationTarget": 80, "timezone": "Europe/Berlin",
	})
	expectStatus(t, resp, http.StatusOK)
	if body = decodeBody(t, resp); body["onboarded"] != true {
		t.Fatalf("expected onboarded profile, got %v", body)
	}

	resp = env.do(t, http.MethodPut, "/api/profile", map[string]any{"hydrationTarget": 80, "timezone": "Mars/Olympus"})
	expectStatus(t, resp, http.StatusBadRequest)

	resp = env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 64})
	expectStatus(t, resp, http.StatusOK)
	if body = decodeBody(t, resp); body["streak"] != float64(0) {
		t.Fatalf("64 should not meet an 80 target, got %v", body)
	}

	resp = env.do(t, http.MethodGet, "/api/water/streak", nil)
	expectStatus(t, resp, http.StatusOK)
	if body = decodeBody(t, resp); body["goal"] != float64(80) || body["policy"] != "threshold" {
		t.Fatalf("unexpected streak summary: %v", body)
	}
}

func TestBadgesCollection(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 64})
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/badges", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	badges, _ := body["badges"].([]any)
	if len(badges) != 7 {
		t.Fatalf("expected 7 badges, got %d", len(badges))
	}
	first := badges[0].(map[string]any)
	if first["id"] != "first_sip" || first["unlocked"] != true {
		t.Fatalf("expected first_sip unlocked, got %v", first)
	}
	if second := badges[1].(map[string]any); second["unlocked"] != false {
		t.Fatalf("expected second badge locked, got %v", second)
	}
}

func TestHistoryDaily(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 64})
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/history/daily?days=3&unit=ml", nil)
	expectStatus(t, resp, http.StatusOK)
	days, _ := decodeBody(t, resp)["days"].([]any)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	last := days[2].(map[string]any)
	if last["day"] != "2026-06-03" || last["unit"] != "ml" || last["goalMet"] != true {
		t.Fatalf("unexpected last point: %v", last)
	}

	for _, q := range []string{"days=abc", "days=0", "unit=cup"} {
		resp = env.do(t, http.MethodGet, "/api/history/daily?"+q, nil)
		expectStatus(t, resp, http.StatusBadRequest)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/water/today", nil)
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = env.do(t, http.MethodGet, "/api/water/today", nil, "Cookie", "session=bogus")
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = env.do(t, http.MethodGet, "/api/health", nil)
	expectStatus(t, resp, http.StatusOK)
}

func TestSetupLoginSessionFlow(t *testing.T) {
	env := newTestEnv(t, nil)

	creds := map[string]any{"username": "sam", "password": "correct-horse"}
	resp := env.do(t, http.MethodPost, "/api/auth/setup", creds)
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodPost, "/api/auth/setup", creds)
	expectStatus(t, resp, http.StatusConflict)

	resp = env.do(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "sam", "password": "wrong-pass"})
	expectStatus(t, resp, http.StatusUnauthorized)

	resp = env.do(t, http.MethodPost, "/api/auth/login", creds)
	expectStatus(t, resp, http.StatusOK)

	var session *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "session" {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("login did not set a session cookie")
	}
	if session.MaxAge != int(app.DefaultSessionTTL.Seconds()) {
		t.Fatalf("expected cookie max-age %v, got %d", app.DefaultSessionTTL, session.MaxAge)
	}

	cookie := "session=" + session.Value
	resp = env.do(t, http.MethodGet, "/api/water/today", nil, "Cookie", cookie)
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/water/today", nil, "Cookie", cookie, "User-Agent", "other-browser")
	expectStatus(t, resp, http.StatusUnauthorized)
}

func TestBearerAuth(t *testing.T) {
	verifier, err := token.NewHMACVerifier("test-secret", "", "")
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, []app.AuthOption{app.WithTokenVerifier(verifier)})

	raw, err := verifier.Sign("svc-1", "sam@example.com", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	resp := env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 16}, "Authorization", "Bearer "+raw)
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/api/water/today", nil, "Authorization", "Bearer "+raw)
	expectStatus(t, resp, http.StatusOK)
	if body := decodeBody(t, resp); body["total"] != float64(16) {
		t.Fatalf("expected total 16 for bearer user, got %v", body)
	}

	resp = env.do(t, http.MethodGet, "/api/water/today", nil, "Authorization", "Bearer not-a-jwt")
	expectStatus(t, resp, http.StatusUnauthorized)
}

func TestForwardAuth(t *testing.T) {
	untrusted := newTestEnv(t, nil)
	resp := untrusted.do(t, http.MethodGet, "/api/water/today", nil, "Remote-User", "sam")
	expectStatus(t, resp, http.StatusUnauthorized)

	trusted := newTestEnv(t, nil, adapthttp.WithForwardAuth(true))
	resp = trusted.do(t, http.MethodGet, "/api/water/today", nil, "Remote-User", "sam")
	expectStatus(t, resp, http.StatusOK)

	u, err := trusted.db.GetByUsername(context.Background(), "sam")
	if err != nil || u == nil {
		t.Fatalf("expected forward-auth user to be provisioned, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t, nil, adapthttp.WithLoginLimit(0.001, 2))

	creds := map[string]any{"username": "nobody", "password": "whatever1"}
	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodPost, "/api/auth/login", creds)
		expectStatus(t, resp, http.StatusUnauthorized)
	}
	resp := env.do(t, http.MethodPost, "/api/auth/login", creds)
	expectStatus(t, resp, http.StatusTooManyRequests)
}

func TestConfigEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodGet, "/api/config", nil)
	expectStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	if body["sso_enabled"] != false || body["bearer_enabled"] != false {
		t.Fatalf("unexpected config: %v", body)
	}

	resp = env.do(t, http.MethodGet, "/api/auth/sso/login", nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestServer(t)

	resp := env.do(t, http.MethodPost, "/api/water/event", map[string]any{"amount": 64})
	expectStatus(t, resp, http.StatusOK)

	resp = env.do(t, http.MethodGet, "/metrics", nil)
	expectStatus(t, resp, http.StatusOK)
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	out := string(b)
	for _, want := range []string{
		"mybites_water_events_total 1",
		`mybites_badges_unlocked_total{badge="first_sip"} 1`,
		`route="/api/water/event"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
