package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth_RegisterAndLogin(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)

	_, email := registerUser(t, r)

	code, body := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "integration-pass",
	})
	require.Equal(t, http.StatusOK, code, "login response: %v", body)
	assert.NotEmpty(t, body["token"])

	code, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAuth_DuplicateEmailRejected(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)

	_, email := registerUser(t, r)
	code, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":        email,
		"password":     "another-pass",
		"display_name": "Copycat",
	})
	assert.Equal(t, http.StatusConflict, code)
}

func TestProjects_OwnershipEnforced(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)

	tokenA, _ := registerUser(t, r)
	tokenB, _ := registerUser(t, r)

	publicID := createProject(t, r, tokenA, "Ownership test")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, tokenA, nil)

	// The owner reads and edits freely.
	code, body := doJSON(t, r, http.MethodGet, "/api/v1/projects/"+publicID, tokenA, nil)
	require.Equal(t, http.StatusOK, code, "owner get: %v", body)

	// Another user is rejected on both read and write.
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/projects/"+publicID, tokenB, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = doJSON(t, r, http.MethodPatch, "/api/v1/projects/"+publicID, tokenB, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, code)

	// And it never leaks through the other project's list.
	code, body = doJSON(t, r, http.MethodGet, "/api/v1/projects", tokenB, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, body["projects"])

	// Unauthenticated requests never reach the handler.
	code, _ = doJSON(t, r, http.MethodGet, "/api/v1/projects/"+publicID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestProjects_PatchWhitelistedFields(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	publicID := createProject(t, r, token, "Patch test")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, token, nil)

	code, body := doJSON(t, r, http.MethodPatch, "/api/v1/projects/"+publicID, token, map[string]any{
		"title":       "Renamed",
		"description": "Updated description",
	})
	require.Equal(t, http.StatusOK, code, "patch: %v", body)
	project := body["project"].(map[string]any)
	assert.Equal(t, "Renamed", project["title"])
	assert.Equal(t, "Updated description", project["description"])

	// Non-whitelisted columns are rejected, not silently dropped.
	code, _ = doJSON(t, r, http.MethodPatch, "/api/v1/projects/"+publicID, token, map[string]any{
		"owner_id": "someone-else",
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGeneration_EmpathyThroughProblem(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	publicID := createProject(t, r, token, "Meal planner")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, token, nil)

	// Empathize.
	code, body := doJSON(t, r, http.MethodPost, "/api/v1/ai/generate-empathy", token, map[string]any{
		"project_id": publicID,
	})
	require.Equal(t, http.StatusOK, code, "empathy: %v", body)
	data := body["data"].(map[string]any)
	em := data["empathy_map"].(map[string]any)
	assert.NotEmpty(t, em["insights"])
	assert.Equal(t, "EMPATHIZE", data["status"])
	assert.EqualValues(t, 321, body["tokens_used"])

	// Personas.
	code, body = doJSON(t, r, http.MethodPost, "/api/v1/ai/generate-personas", token, map[string]any{
		"project_id": publicID,
	})
	require.Equal(t, http.StatusOK, code, "personas: %v", body)
	data = body["data"].(map[string]any)
	personas := data["personas"].([]any)
	require.Len(t, personas, 3)
	firstID := personas[0].(map[string]any)["id"].(string)
	require.NotEmpty(t, firstID)
	assert.Equal(t, "PERSONAS", data["status"])

	// Problem generation before selecting personas is refused.
	code, _ = doJSON(t, r, http.MethodPost, "/api/v1/ai/generate-problem", token, map[string]any{
		"project_id": publicID,
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// Select a persona, then the problem stage unlocks.
	code, body = doJSON(t, r, http.MethodPost, "/api/v1/projects/"+publicID+"/personas/select", token, map[string]any{
		"persona_ids": []string{firstID},
	})
	require.Equal(t, http.StatusOK, code, "select: %v", body)

	code, body = doJSON(t, r, http.MethodPost, "/api/v1/ai/generate-problem", token, map[string]any{
		"project_id": publicID,
	})
	require.Equal(t, http.StatusOK, code, "problem: %v", body)
	data = body["data"].(map[string]any)
	problem := data["problem"].(map[string]any)
	assert.Contains(t, problem["statement"], "Busy parents")
	assert.Equal(t, "DEFINE", data["status"])
}

func TestGeneration_UnknownPersonaSelectionRejected(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	publicID := createProject(t, r, token, "Selection test")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, token, nil)

	code, _ := doJSON(t, r, http.MethodPost, "/api/v1/projects/"+publicID+"/personas/select", token, map[string]any{
		"persona_ids": []string{"not-a-real-id"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGeneration_QuotaVisible(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	publicID := createProject(t, r, token, "Quota test")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, token, nil)

	code, body := doJSON(t, r, http.MethodGet, "/api/v1/ai/quota", token, nil)
	require.Equal(t, http.StatusOK, code)
	before := body["remaining"].(float64)

	code, _ = doJSON(t, r, http.MethodPost, "/api/v1/ai/generate-empathy", token, map[string]any{
		"project_id": publicID,
	})
	require.Equal(t, http.StatusOK, code)

	code, body = doJSON(t, r, http.MethodGet, "/api/v1/ai/quota", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, before-1, body["remaining"].(float64))
}

func TestWizard_NavigationRoundTrip(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	publicID := createProject(t, r, token, "Wizard test")
	defer doJSON(t, r, http.MethodDelete, "/api/v1/projects/"+publicID, token, nil)

	code, body := doJSON(t, r, http.MethodGet, "/api/v1/projects/"+publicID+"/wizard", token, nil)
	require.Equal(t, http.StatusOK, code)
	wiz := body["wizard"].(map[string]any)
	assert.Equal(t, "empathize", wiz["current"])

	code, body = doJSON(t, r, http.MethodPut, "/api/v1/projects/"+publicID+"/wizard", token, map[string]any{
		"current":   "personas",
		"completed": []string{"empathize"},
	})
	require.Equal(t, http.StatusOK, code, "put wizard: %v", body)

	code, body = doJSON(t, r, http.MethodGet, "/api/v1/projects/"+publicID+"/wizard", token, nil)
	require.Equal(t, http.StatusOK, code)
	wiz = body["wizard"].(map[string]any)
	assert.Equal(t, "personas", wiz["current"])

	// A claimed position past the completed set is rejected.
	code, _ = doJSON(t, r, http.MethodPut, "/api/v1/projects/"+publicID+"/wizard", token, map[string]any{
		"current":   "prototype",
		"completed": []string{"empathize"},
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAdmin_RequiresRole(t *testing.T) {
	r := setupStack(t, stubProvider(t).URL)
	token, _ := registerUser(t, r)

	code, _ := doJSON(t, r, http.MethodGet, "/api/v1/admin/users", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
