package unit

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ideaforge/ideaforge-backend/internal/mockup"
	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

func mockupProject() *domain.Project {
	return &domain.Project{
		Title:       "Meal Planner",
		Description: "Weekly meal planning for busy families",
		BusinessModel: &domain.BusinessModelCanvas{
			ValuePropositions: []string{"Plan a week in minutes"},
		},
		Features: &domain.FeatureSet{
			Core: []domain.Feature{{Title: "Weekly plan", Description: "One-tap generation"}},
		},
		Mockup: &domain.MockupData{
			Screens: []domain.Screen{
				{Name: "dashboard", Title: "Your Week", Purpose: "See the current plan", Elements: []string{"Plan grid"}},
				{Name: "recipes", Title: "Recipes", Purpose: "Browse recipes", Elements: []string{"Recipe cards"}},
			},
			Navigation: []domain.NavItem{
				{Label: "Home", Screen: "home"},
				{Label: "Dashboard", Screen: "dashboard"},
				{Label: "Recipes", Screen: "recipes"},
				{Label: "Shopping", Screen: "shopping list"},
			},
			Guidelines: domain.DesignGuidelines{
				PrimaryColor: "#16a34a",
				FontFamily:   "Inter",
			},
		},
	}
}

func TestRender_CoversStandardAndAIScreens(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "login.html", "register.html", "dashboard.html",
		"list.html", "profile.html", "settings.html",
		"recipes.html", "index.html",
	} {
		assert.Contains(t, site.Files, name)
	}
}

func TestRender_NavOnlyScreenGetsFallbackPage(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)

	// "shopping list" appears only in navigation; it still renders via
	// the generic template under the normalized file name.
	page, ok := site.Files["shopping-list.html"]
	require.True(t, ok)
	assert.Contains(t, string(page), "Shopping List")
}

func TestRender_NavLinksTargetGeneratedFiles(t *testing.T) {
	p := mockupProject()
	p.Mockup.Navigation = append(p.Mockup.Navigation, domain.NavItem{Label: "My Plans", Screen: "My Plans"})
	site, err := mockup.Render(p)
	require.NoError(t, err)

	// Every nav href must point at a file the site actually contains,
	// whatever casing or spacing the screen name arrived with.
	home := string(site.Files["home.html"])
	assert.Contains(t, home, `href="shopping-list.html"`)
	assert.Contains(t, home, `href="my-plans.html"`)
	assert.NotContains(t, home, "Shopping List.html")
	assert.NotContains(t, home, "Shopping%20List.html")
	assert.Contains(t, site.Files, "my-plans.html")
}

func TestRender_IndexMirrorsHome(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)
	assert.Equal(t, site.Files["home.html"], site.Files["index.html"])
}

func TestRender_ThemeAndContentInPages(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)

	home := string(site.Files["home.html"])
	assert.Contains(t, home, "Meal Planner")
	assert.Contains(t, home, "Plan a week in minutes")
	assert.Contains(t, home, "#16a34a")

	dash := string(site.Files["dashboard.html"])
	assert.Contains(t, dash, "Weekly plan")
}

func TestRender_Deterministic(t *testing.T) {
	a, err := mockup.Render(mockupProject())
	require.NoError(t, err)
	b, err := mockup.Render(mockupProject())
	require.NoError(t, err)
	require.Equal(t, len(a.Files), len(b.Files))
	for name, content := range a.Files {
		assert.Equal(t, content, b.Files[name], "page %s differs between renders", name)
	}
}

func TestRender_EmptyNavigationGetsDefault(t *testing.T) {
	p := mockupProject()
	p.Mockup.Navigation = nil
	site, err := mockup.Render(p)
	require.NoError(t, err)
	assert.Contains(t, string(site.Files["home.html"]), "Dashboard")
}

func TestRender_MissingMockupData(t *testing.T) {
	_, err := mockup.Render(&domain.Project{Title: "x"})
	require.Error(t, err)
}

func TestArchive_ContainsEveryPage(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)

	data, err := mockup.Archive(site)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	got := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		got[f.Name] = true
	}
	for name := range site.Files {
		assert.True(t, got[name], "archive missing %s", name)
	}
	assert.True(t, got["index.html"])
}

func TestArchive_Deterministic(t *testing.T) {
	site, err := mockup.Render(mockupProject())
	require.NoError(t, err)

	a, err := mockup.Archive(site)
	require.NoError(t, err)
	b, err := mockup.Archive(site)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
