package mockup

// Embedded page templates for the static mockup site. Rendering is
// plain substitution; the shared theme and router script are inlined
// into every page so the archive works from file:// without a server.

const layoutTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.AppName}} - {{.Title}}</title>
<style>{{.Theme}}</style>
</head>
<body>
<header class="topbar">
  <span class="brand">{{.AppName}}</span>
  <nav>
    {{range .Nav}}<a href="{{.Screen}}.html" data-screen="{{.Screen}}">{{.Label}}</a>{{end}}
  </nav>
</header>
<main>
{{.Body}}
</main>
<footer class="footer">{{.AppName}} &middot; mockup preview</footer>
<script>{{.Script}}</script>
</body>
</html>
`

const themeTemplate = `
:root {
  --primary: {{.PrimaryColor}};
  --secondary: {{.SecondaryColor}};
  --font: {{.FontFamily}}, system-ui, sans-serif;
}
* { box-sizing: border-box; margin: 0; }
body { font-family: var(--font); color: #1f2937; background: #f9fafb; }
.topbar { display: flex; align-items: center; gap: 2rem; padding: 1rem 2rem; background: var(--primary); color: #fff; }
.topbar .brand { font-weight: 700; font-size: 1.2rem; }
.topbar nav a { color: #fff; opacity: .85; margin-right: 1rem; text-decoration: none; }
.topbar nav a:hover, .topbar nav a.active { opacity: 1; text-decoration: underline; }
main { max-width: 960px; margin: 2rem auto; padding: 0 1rem; }
h1 { margin-bottom: .5rem; }
.lead { color: #6b7280; margin-bottom: 1.5rem; }
.cards { display: grid; grid-template-columns: repeat(auto-fill, minmax(260px, 1fr)); gap: 1rem; }
.card { background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 1rem; }
.card h3 { margin-bottom: .4rem; color: var(--primary); }
.card ul { padding-left: 1.1rem; color: #4b5563; }
form.auth { max-width: 360px; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 1.5rem; display: grid; gap: .8rem; }
form.auth input { padding: .6rem; border: 1px solid #d1d5db; border-radius: 6px; }
button.primary { background: var(--primary); color: #fff; border: none; border-radius: 6px; padding: .6rem 1.2rem; cursor: pointer; }
button.primary:hover { background: var(--secondary); }
.footer { text-align: center; color: #9ca3af; padding: 2rem 0; }
.list-row { background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: .8rem 1rem; margin-bottom: .6rem; display: flex; justify-content: space-between; }
`

// routerScript keeps a tiny client-side state object and highlights the
// active nav entry. Pages are static files; "routing" is plain links.
const routerScript = `
(function () {
  var state = {};
  try { state = JSON.parse(localStorage.getItem("mockupState") || "{}"); } catch (e) { state = {}; }
  window.mockupState = {
    get: function (k) { return state[k]; },
    set: function (k, v) { state[k] = v; localStorage.setItem("mockupState", JSON.stringify(state)); }
  };
  var here = location.pathname.split("/").pop().replace(".html", "");
  document.querySelectorAll("nav a[data-screen]").forEach(function (a) {
    if (a.getAttribute("data-screen") === here) a.classList.add("active");
  });
})();
`

const homeBody = `<h1>{{.AppName}}</h1>
<p class="lead">{{.Tagline}}</p>
<div class="cards">
{{range .Values}}<div class="card"><h3>{{.}}</h3></div>{{end}}
</div>
<h2 style="margin:2rem 0 1rem">What you can do</h2>
<div class="cards">
{{range .Features}}<div class="card"><h3>{{.Title}}</h3><p>{{.Description}}</p></div>{{end}}
</div>
`

const loginBody = `<h1>Sign in</h1>
<p class="lead">Welcome back to {{.AppName}}.</p>
<form class="auth">
  <input type="email" placeholder="Email">
  <input type="password" placeholder="Password">
  <button class="primary" type="button" onclick="location.href='dashboard.html'">Sign in</button>
</form>
`

const registerBody = `<h1>Create account</h1>
<p class="lead">Start using {{.AppName}} in minutes.</p>
<form class="auth">
  <input type="text" placeholder="Name">
  <input type="email" placeholder="Email">
  <input type="password" placeholder="Password">
  <button class="primary" type="button" onclick="location.href='dashboard.html'">Register</button>
</form>
`

const dashboardBody = `<h1>Dashboard</h1>
<p class="lead">Everything at a glance.</p>
<div class="cards">
{{range .Features}}<div class="card"><h3>{{.Title}}</h3><p>{{.Description}}</p></div>{{end}}
</div>
`

const listBody = `<h1>{{.Title}}</h1>
<p class="lead">{{.Purpose}}</p>
{{range .Elements}}<div class="list-row"><span>{{.}}</span><button class="primary" type="button">Open</button></div>{{end}}
`

const profileBody = `<h1>Profile</h1>
<p class="lead">Your account details.</p>
<form class="auth">
  <input type="text" placeholder="Display name">
  <input type="email" placeholder="Email">
  <button class="primary" type="button">Save changes</button>
</form>
`

const settingsBody = `<h1>Settings</h1>
<p class="lead">Preferences and account options.</p>
<div class="cards">
  <div class="card"><h3>Notifications</h3><p>Choose how {{.AppName}} reaches you.</p></div>
  <div class="card"><h3>Privacy</h3><p>Control what is shared.</p></div>
  <div class="card"><h3>Danger zone</h3><p>Delete your account and data.</p></div>
</div>
`

// genericBody renders any AI-named screen that has no bespoke template.
const genericBody = `<h1>{{.Title}}</h1>
<p class="lead">{{.Purpose}}</p>
<div class="cards">
{{range .Elements}}<div class="card"><h3>{{.}}</h3></div>{{end}}
</div>
`
