package api

import "html/template"

// pageTemplate is the server-rendered channel page. Styling stays
// deliberately minimal: visual layout belongs to whoever embeds the page.
// Image-load fallback (CDN swap, then placeholder) is the renderer's
// concern and handled client-side by the onerror hook below.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Channel}}</title>
</head>
<body>
<header class="header">
{{if .Avatar}}<img id="channel-avatar" src="{{.Avatar}}" alt="{{.Channel}}">{{end}}
<h1>@{{.Channel}}</h1>
</header>
<main id="posts-container">
{{range .Posts}}
<a class="post-circle post-{{.MediaType}}" data-type="{{.MediaType}}" href="{{.Link}}" target="_blank" rel="noopener">
{{if .Image}}<img class="post-preview-image" src="{{.Image}}" alt="{{.Title}}" onerror="this.style.display='none'">{{end}}
<span class="post-icon">{{.Icon}}</span>
<h3>{{.Title}}</h3>
<p>{{.Text}}</p>
</a>
{{else}}
<p class="empty">No posts yet. The channel may be temporarily unavailable — try again in a minute.</p>
{{end}}
</main>
<footer>Last update: {{.UpdatedAt}}</footer>
</body>
</html>
`))
