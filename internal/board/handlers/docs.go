package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// API Docs
// ============================================================

//go:embed docs/openapi.yaml
var openAPISpec []byte

// docsPage lists the board routes with schemas collapsed. Try-it-out only
// issues GET requests.
const docsPage = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>Moodboard API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
  <style>
    .board-banner { font-family: sans-serif; background: #faf8f5; color: #2d2a26; padding: 12px 20px; border-bottom: 1px solid #e8e4de; }
    .board-banner code { background: #e8e4de; padding: 1px 4px; border-radius: 4px; }
  </style>
</head>
<body>
<div class="board-banner">
  Boards are addressed by owner id (<code>[A-Za-z0-9_-]{1,64}</code>).
  Items are listed back-to-front; the last item paints on top.
  Export: <code>GET /boards/{owner}/export</code> (PNG), <code>GET /boards/{owner}/svg</code>.
</div>
<div id="board-api"></div>
<script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.yaml',
      dom_id: '#board-api',
      docExpansion: 'list',
      defaultModelsExpandDepth: 0,
      supportedSubmitMethods: ['get'],
    });
  };
</script>
</body>
</html>`

// OpenAPIDocument serves the board API description.
func OpenAPIDocument(c fiber.Ctx) error {
	c.Type("yaml")
	return c.Send(openAPISpec)
}

// DocsPage serves an interactive view of the board API.
func DocsPage(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(docsPage)
}
