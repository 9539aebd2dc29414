package site

// libraryTemplate is the Go html/template for the root story listing.
const libraryTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.SiteTitle}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <main class="library">
    <header class="site-header">
      <h1>{{.SiteTitle}}</h1>
      <input type="text" id="search-input" placeholder="Search chapters..." autocomplete="off">
    </header>
    <div class="search-results" id="search-results"></div>
    <ul class="story-list">
      {{range .Stories}}
      <li class="story-card">
        <a href="{{.Href}}">
          <h2>{{.Title}}</h2>
          {{if .CreatedBy}}<p class="byline">A story by {{.CreatedBy}}</p>{{end}}
          {{if .Description}}<p class="description">{{.Description}}</p>{{end}}
          <span class="chapter-count">{{.Chapters}} chapters</span>
        </a>
      </li>
      {{end}}
    </ul>
  </main>
  <script src="script.js"></script>
</body>
</html>`

// storyTemplate is the Go html/template for a story's intro page.
const storyTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} &middot; {{.SiteTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <main class="story">
    <p class="crumb"><a href="{{.BasePath}}index.html">{{.SiteTitle}}</a></p>
    <header class="story-header">
      <h1>{{.Title}}</h1>
      {{if .CreatedBy}}<p class="byline">A story by {{.CreatedBy}}</p>{{end}}
      {{if .Date}}<p class="story-date">{{.Date}}</p>{{end}}
      <input type="text" id="search-input" placeholder="Search chapters..." autocomplete="off">
    </header>
    <div class="search-results" id="search-results"></div>
    {{if .Description}}<div class="story-description">{{.Description}}</div>{{end}}
    <ol class="chapter-list">
      {{range .Chapters}}
      <li>
        <a href="{{.Href}}">
          <span class="chapter-number">{{.Number}}</span>
          <span class="chapter-link-title">{{.Title}}</span>
          {{if .Place}}<span class="chapter-link-place">{{.Place}}</span>{{end}}
          {{if .Date}}<span class="chapter-link-date">{{.Date}}</span>{{end}}
        </a>
      </li>
      {{end}}
    </ol>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// chapterTemplate is the Go html/template for a single chapter page.
const chapterTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} &middot; {{.StoryTitle}}</title>
  <link rel="stylesheet" href="{{.BasePath}}style.css">
</head>
<body>
  <main class="chapter">
    <p class="crumb"><a href="{{.StoryHref}}">{{.StoryTitle}}</a> &middot; {{.Position}}</p>
    <article class="page-content">
      <h1>{{.Title}}</h1>
      <p class="chapter-meta">
        {{if .Date}}<span>{{.Date}}</span>{{end}}
        {{if .Place}}<span>{{.Place}}</span>{{end}}
        {{if .MapURL}}<a href="{{.MapURL}}" target="_blank" rel="noopener">View on map</a>{{end}}
      </p>
      {{if .ImageURL}}
      <figure>
        <img src="{{.ImageURL}}" alt="{{.Title}}">
        {{if .ImageCredit}}<figcaption>Image: {{.ImageCredit}}</figcaption>{{end}}
      </figure>
      {{end}}
      <div class="chapter-body">{{.Content}}</div>
    </article>
    <nav class="chapter-footer-nav">
      {{if .Prev}}<a class="prev" rel="prev" href="{{.Prev.Href}}">&larr; {{.Prev.Title}}</a>{{else}}<span></span>{{end}}
      {{if .Next}}<a class="next" rel="next" href="{{.Next.Href}}">{{.Next.Title}} &rarr;</a>{{else}}<span></span>{{end}}
    </nav>
  </main>
  <script src="{{.BasePath}}script.js"></script>
</body>
</html>`

// cssContent is the full CSS for the reading site.
const cssContent = `/* ============ CSS Variables ============ */
:root {
  --bg: #ffffff;
  --bg-card: #f8f9fa;
  --text: #212529;
  --text-secondary: #495057;
  --text-muted: #868e96;
  --border: #dee2e6;
  --accent: #228be6;
  --accent-hover: #1c7ed6;
  --content-max-width: 720px;
  --shadow: 0 1px 3px rgba(0,0,0,0.08);
}

/* ============ Reset & Base ============ */
*, *::before, *::after {
  box-sizing: border-box;
  margin: 0;
  padding: 0;
}

html {
  font-size: 17px;
  scroll-behavior: smooth;
}

body {
  font-family: Georgia, "Times New Roman", serif;
  color: var(--text);
  background: var(--bg);
  line-height: 1.7;
}

main {
  max-width: var(--content-max-width);
  margin: 0 auto;
  padding: 40px 20px 80px;
}

h1 {
  font-size: 2rem;
  line-height: 1.25;
  margin-bottom: 8px;
}

a {
  color: var(--accent);
  text-decoration: none;
}

a:hover {
  color: var(--accent-hover);
  text-decoration: underline;
}

img {
  max-width: 100%;
}

/* ============ Shared chrome ============ */
.crumb {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.85rem;
  color: var(--text-muted);
  margin-bottom: 24px;
}

.byline {
  color: var(--text-secondary);
  font-style: italic;
}

#search-input {
  width: 100%;
  margin-top: 16px;
  padding: 8px 12px;
  border: 1px solid var(--border);
  border-radius: 6px;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.9rem;
  color: var(--text);
  background: var(--bg);
  outline: none;
}

#search-input:focus {
  border-color: var(--accent);
}

.search-results {
  display: none;
  margin-top: 12px;
  border: 1px solid var(--border);
  border-radius: 8px;
  overflow: hidden;
}

.search-results.visible {
  display: block;
}

.search-result {
  display: block;
  padding: 10px 14px;
  border-bottom: 1px solid var(--border);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.9rem;
}

.search-result:last-child {
  border-bottom: none;
}

.search-result:hover {
  background: var(--bg-card);
  text-decoration: none;
}

.search-result-title {
  color: var(--text);
  font-weight: 600;
}

.search-result-story {
  color: var(--text-muted);
  margin-left: 8px;
  font-size: 0.8rem;
}

.search-result-summary {
  display: block;
  color: var(--text-secondary);
  font-size: 0.8rem;
}

.search-empty {
  padding: 10px 14px;
  color: var(--text-muted);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.9rem;
}

/* ============ Library index ============ */
.site-header {
  margin-bottom: 28px;
}

.story-list {
  list-style: none;
}

.story-card {
  margin-top: 16px;
}

.story-card a {
  display: block;
  padding: 18px 20px;
  border: 1px solid var(--border);
  border-radius: 10px;
  background: var(--bg-card);
  box-shadow: var(--shadow);
  color: var(--text);
}

.story-card a:hover {
  border-color: var(--accent);
  text-decoration: none;
}

.story-card .description {
  color: var(--text-secondary);
  margin-top: 6px;
}

.chapter-count {
  display: inline-block;
  margin-top: 10px;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.8rem;
  color: var(--text-muted);
}

/* ============ Story intro ============ */
.story-header {
  margin-bottom: 24px;
}

.story-date {
  color: var(--text-muted);
  font-size: 0.9rem;
}

.story-description {
  margin-bottom: 28px;
}

.chapter-list {
  list-style: none;
  border-top: 1px solid var(--border);
}

.chapter-list a {
  display: flex;
  align-items: baseline;
  gap: 12px;
  padding: 12px 4px;
  border-bottom: 1px solid var(--border);
  color: var(--text);
}

.chapter-list a:hover {
  background: var(--bg-card);
  text-decoration: none;
}

.chapter-number {
  flex: none;
  width: 28px;
  height: 28px;
  line-height: 28px;
  text-align: center;
  border-radius: 50%;
  background: var(--accent);
  color: #fff;
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.8rem;
  font-weight: 600;
  align-self: center;
}

.chapter-link-title {
  font-weight: 600;
}

.chapter-link-place, .chapter-link-date {
  color: var(--text-muted);
  font-size: 0.85rem;
}

/* ============ Chapter page ============ */
.chapter-meta {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.85rem;
  color: var(--text-muted);
  margin-bottom: 20px;
}

.chapter-meta span {
  margin-right: 12px;
}

figure {
  margin: 20px 0;
}

figure img {
  border-radius: 8px;
}

figcaption {
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.8rem;
  color: var(--text-muted);
  margin-top: 6px;
}

.chapter-body p {
  margin-bottom: 16px;
}

.chapter-body h2, .chapter-body h3 {
  margin: 24px 0 12px;
}

.chapter-body blockquote {
  border-left: 3px solid var(--border);
  padding-left: 16px;
  color: var(--text-secondary);
  margin-bottom: 16px;
}

.chapter-body pre {
  background: var(--bg-card);
  border: 1px solid var(--border);
  border-radius: 8px;
  padding: 12px;
  overflow-x: auto;
  margin-bottom: 16px;
  font-size: 0.85rem;
}

.chapter-footer-nav {
  display: flex;
  justify-content: space-between;
  gap: 16px;
  margin-top: 48px;
  padding-top: 16px;
  border-top: 1px solid var(--border);
  font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif;
  font-size: 0.9rem;
}

.chapter-footer-nav .next {
  text-align: right;
}

/* ============ Responsive ============ */
@media (max-width: 600px) {
  html {
    font-size: 16px;
  }
  main {
    padding: 24px 16px 60px;
  }
}
`

// jsContent is the client-side script: chapter search on the index pages
// and arrow-key navigation between chapter pages.
const jsContent = `(function() {
  "use strict";

  // ===== Keyboard navigation between chapters =====
  document.addEventListener("keydown", function(e) {
    if (e.target.tagName === "INPUT" || e.target.tagName === "TEXTAREA") return;
    var link = null;
    if (e.key === "ArrowRight") link = document.querySelector("a[rel=next]");
    if (e.key === "ArrowLeft") link = document.querySelector("a[rel=prev]");
    if (link) window.location.href = link.getAttribute("href");
  });

  // ===== Search over the library (with search-index.json) =====
  var searchInput = document.getElementById("search-input");
  var resultsPanel = document.getElementById("search-results");
  if (!searchInput || !resultsPanel) return;

  var searchIndex = null;

  function getBasePath() {
    var link = document.querySelector("link[rel=stylesheet]");
    if (link) return link.getAttribute("href").replace("style.css", "");
    return "";
  }

  fetch(getBasePath() + "search-index.json")
    .then(function(r) { return r.json(); })
    .then(function(data) { searchIndex = data; })
    .catch(function() { searchIndex = null; });

  function escapeHtml(str) {
    var div = document.createElement("div");
    div.textContent = str;
    return div.innerHTML;
  }

  searchInput.addEventListener("input", function() {
    var query = this.value.toLowerCase().trim();
    if (query === "" || !searchIndex) {
      resultsPanel.innerHTML = "";
      resultsPanel.classList.remove("visible");
      return;
    }

    var base = getBasePath();
    var html = "";
    var shown = 0;
    searchIndex.forEach(function(entry) {
      if (shown >= 8) return;
      var haystack = (entry.title + " " + entry.summary + " " + entry.content).toLowerCase();
      if (haystack.indexOf(query) === -1) return;
      shown++;
      html += '<a class="search-result" href="' + escapeHtml(base + entry.path) + '">';
      html += '<span class="search-result-title">' + escapeHtml(entry.title) + '</span>';
      html += '<span class="search-result-story">' + escapeHtml(entry.story) + '</span>';
      if (entry.summary) {
        html += '<span class="search-result-summary">' + escapeHtml(entry.summary) + '</span>';
      }
      html += '</a>';
    });

    if (html === "") {
      html = '<div class="search-empty">No matching chapters.</div>';
    }
    resultsPanel.innerHTML = html;
    resultsPanel.classList.add("visible");
  });
})();
`
