package mockup

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/ideaforge/ideaforge-backend/internal/projects/domain"
)

// standardPages are always part of the generated site. When the AI
// named a screen with one of these names, its data feeds the page;
// otherwise the page renders from the draft context alone.
var standardPages = []string{"home", "login", "register", "dashboard", "list", "profile", "settings"}

// Site is the rendered mockup: file name to page bytes.
type Site struct {
	Files map[string][]byte
}

// Render deterministically expands the mockup templates for a project.
// Every screen referenced in navigation gets a page; screens without a
// bespoke template fall back to the generic one. It requires the
// project's mockup stage payload.
func Render(p *domain.Project) (*Site, error) {
	if p.Mockup == nil {
		return nil, fmt.Errorf("project has no mockup data")
	}

	theme, err := renderTheme(p.Mockup.Guidelines)
	if err != nil {
		return nil, err
	}

	nav := make([]domain.NavItem, 0, len(p.Mockup.Navigation))
	for _, item := range p.Mockup.Navigation {
		// Links must target the normalized file names the pages are
		// generated under, whatever the AI called the screen.
		nav = append(nav, domain.NavItem{Label: item.Label, Screen: normalizeName(item.Screen)})
	}
	if len(nav) == 0 {
		// Minimal navigation so pages still link together.
		nav = []domain.NavItem{{Label: "Home", Screen: "home"}, {Label: "Dashboard", Screen: "dashboard"}}
	}

	screens := make(map[string]domain.Screen, len(p.Mockup.Screens))
	for _, s := range p.Mockup.Screens {
		screens[normalizeName(s.Name)] = s
	}

	// The page set: standard pages, AI screens, and anything navigation
	// references that neither covers.
	names := make(map[string]bool)
	for _, n := range standardPages {
		names[n] = true
	}
	for name := range screens {
		names[name] = true
	}
	for _, item := range nav {
		names[item.Screen] = true
	}

	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	site := &Site{Files: make(map[string][]byte, len(ordered)+1)}
	for _, name := range ordered {
		page, err := renderPage(p, name, screens[name], nav, theme)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		site.Files[name+".html"] = page
	}
	// index.html mirrors home so the archive opens directly.
	if home, ok := site.Files["home.html"]; ok {
		site.Files["index.html"] = home
	}
	return site, nil
}

func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	if name == "" {
		name = "screen"
	}
	return name
}

func renderTheme(g domain.DesignGuidelines) (string, error) {
	if g.PrimaryColor == "" {
		g.PrimaryColor = "#4f46e5"
	}
	if g.SecondaryColor == "" {
		g.SecondaryColor = "#818cf8"
	}
	if g.FontFamily == "" {
		g.FontFamily = "Inter"
	}
	t, err := template.New("theme").Parse(themeTemplate)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, g); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type layoutData struct {
	AppName string
	Title   string
	Nav     []domain.NavItem
	Theme   template.CSS
	Script  template.JS
	Body    template.HTML
}

func renderPage(p *domain.Project, name string, screen domain.Screen, nav []domain.NavItem, theme string) ([]byte, error) {
	body, err := renderBody(p, name, screen)
	if err != nil {
		return nil, err
	}

	layout, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, err
	}

	title := screen.Title
	if title == "" {
		title = titleCase(name)
	}

	var buf bytes.Buffer
	err = layout.Execute(&buf, layoutData{
		AppName: p.Title,
		Title:   title,
		Nav:     nav,
		Theme:   template.CSS(theme),
		Script:  template.JS(routerScript),
		Body:    template.HTML(body),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBody(p *domain.Project, name string, screen domain.Screen) (string, error) {
	var (
		tmpl string
		data any
	)

	features := coreFeatures(p)

	switch name {
	case "home":
		values := []string{}
		if p.BusinessModel != nil {
			values = p.BusinessModel.ValuePropositions
		}
		tagline := p.Description
		if screen.Purpose != "" {
			tagline = screen.Purpose
		}
		tmpl = homeBody
		data = struct {
			AppName  string
			Tagline  string
			Values   []string
			Features []domain.Feature
		}{p.Title, tagline, values, features}
	case "login":
		tmpl = loginBody
		data = struct{ AppName string }{p.Title}
	case "register":
		tmpl = registerBody
		data = struct{ AppName string }{p.Title}
	case "dashboard":
		tmpl = dashboardBody
		data = struct{ Features []domain.Feature }{features}
	case "list":
		s := screenOrDefault(screen, name, "Browse and manage your items.")
		tmpl = listBody
		data = s
	case "profile":
		tmpl = profileBody
		data = struct{ AppName string }{p.Title}
	case "settings":
		tmpl = settingsBody
		data = struct{ AppName string }{p.Title}
	default:
		s := screenOrDefault(screen, name, "Part of "+p.Title+".")
		tmpl = genericBody
		data = s
	}

	t, err := template.New(name).Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func titleCase(name string) string {
	words := strings.Fields(strings.ReplaceAll(name, "-", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func screenOrDefault(screen domain.Screen, name, purpose string) domain.Screen {
	if screen.Title == "" {
		screen.Title = titleCase(name)
	}
	if screen.Purpose == "" {
		screen.Purpose = purpose
	}
	if len(screen.Elements) == 0 {
		screen.Elements = []string{"Example item", "Another item", "One more item"}
	}
	return screen
}

func coreFeatures(p *domain.Project) []domain.Feature {
	if p.Features == nil {
		return nil
	}
	return p.Features.Core
}
