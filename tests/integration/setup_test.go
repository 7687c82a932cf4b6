package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge-backend/config"
	"github.com/ideaforge/ideaforge-backend/internal/bootstrap"
)

// testPool connects to the test Postgres (gated on TEST_DB_DSN) and
// applies the embedded migrations.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))
	require.NoError(t, bootstrap.Migrate(ctx, pool))
	return pool
}

// setupStack builds the full HTTP stack against a real Postgres, an
// in-process redis and a stubbed AI provider.
func setupStack(t *testing.T, aiBaseURL string) *gin.Engine {
	t.Helper()
	r, _ := setupStackWithQuota(t, aiBaseURL, 100)
	return r
}

// setupStackWithQuota also hands back the pool so tests can inspect
// rows the API does not expose.
func setupStackWithQuota(t *testing.T, aiBaseURL string, dailyQuota int) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	pool := testPool(t)

	mr := miniredis.RunT(t)
	rdb, err := bootstrap.OpenRedis(ctx, config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "0",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: config.AuthConfig{
			JWTSecret: "integration-test-secret",
			TokenTTL:  time.Hour,
		},
		AI: config.AIConfig{
			BaseURL:        aiBaseURL,
			APIKey:         "test-key",
			Model:          "test-model",
			RequestTimeout: 5 * time.Second,
			DailyQuota:     dailyQuota,
			QuotaWindow:    24 * time.Hour,
			ProviderRPS:    100,
		},
		App: config.AppConfig{
			Environment:   "test",
			Version:       "test",
			AutosaveDelay: 20 * time.Millisecond,
		},
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "ideaforge-test",
		Cfg:         cfg,
		DB:          pool,
		Redis:       rdb,
	})
	return r, pool
}

// stubProvider mimics the chat-completions endpoint. It picks a canned
// JSON answer by matching keywords in the system prompt.
func stubProvider(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		system := req.Messages[0].Content
		var answer string
		switch {
		case strings.Contains(system, "empathy map"):
			answer = `{"says":["I waste my evenings"],"thinks":["there must be a faster way"],"does":["searches recipes nightly"],"feels":["tired"],"insights":["planning happens on Sundays"]}`
		case strings.Contains(system, "user personas"):
			answer = `{"personas":[
				{"name":"Maria","age":38,"occupation":"Nurse","location":"Lisbon","bio":"Works rotating shifts.","pain_points":["no time to plan"],"goals":["eat better"],"frustrations":["decision fatigue"]},
				{"name":"Tom","age":29,"occupation":"Teacher","location":"Leeds","bio":"Cooks daily for two.","pain_points":["repetitive meals"],"goals":["more variety"],"frustrations":["wasted groceries"]},
				{"name":"Aya","age":45,"occupation":"Consultant","location":"Osaka","bio":"Travels weekly.","pain_points":["empty fridge"],"goals":["less takeout"],"frustrations":["spoiled food"]}]}`
		case strings.Contains(system, "solution candidates"):
			answer = `{"solutions":[
				{"title":"Auto-planner","description":"Generates a week from preferences","impact":8,"feasibility":6,"rationale":"High leverage"},
				{"title":"Recipe swap","description":"Community recipe swaps","impact":5,"feasibility":8,"rationale":"Cheap to build"}]}`
		case strings.Contains(system, "problem statement"):
			answer = `{"statement":"Busy parents need a faster way to plan meals because evenings are chaotic.","context":"Planning eats an hour per week.","how_might_we":["How might we plan a week in five minutes?","How might we reuse what is already in the fridge?"]}`
		default:
			// Realistic model sloppiness: fenced block around the JSON.
			answer = "```json\n{\"verdict\":\"Viable\",\"score\":7,\"strengths\":[\"clear need\"],\"risks\":[\"retention\"],\"assumptions\":[\"users plan weekly\"],\"next_steps\":[\"interview ten parents\"]}\n```"
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": answer}},
			},
			"usage": map[string]any{"total_tokens": 321},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON performs one request against the engine and decodes the JSON
// response body.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	}
	return w.Code, out
}

// registerUser creates a fresh account and returns its bearer token.
func registerUser(t *testing.T, r *gin.Engine) (token, email string) {
	t.Helper()
	email = fmt.Sprintf("it-%s@example.com", uuid.NewString()[:8])
	code, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":        email,
		"password":     "integration-pass",
		"display_name": "Integration Tester",
	})
	require.Equal(t, http.StatusCreated, code, "register response: %v", body)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)
	return token, email
}

// createProject makes a project for the token's user and returns its
// public id.
func createProject(t *testing.T, r *gin.Engine, token, title string) string {
	t.Helper()
	code, body := doJSON(t, r, http.MethodPost, "/api/v1/projects", token, map[string]any{
		"title":       title,
		"description": "created by integration tests",
	})
	require.Equal(t, http.StatusCreated, code, "create response: %v", body)
	project, ok := body["project"].(map[string]any)
	require.True(t, ok)
	publicID, _ := project["public_id"].(string)
	require.NotEmpty(t, publicID)
	return publicID
}
