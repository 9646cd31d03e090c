package reporting

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlShell wraps the rendered body in a minimal standalone document.
const htmlShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>
</head>
<body>
%s</body>
</html>
`

// RenderHTML converts a markdown report into a standalone HTML document.
// Tables require the GFM extension, matching the markdown the formatter
// emits.
func RenderHTML(title, markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body strings.Builder
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return "", fmt.Errorf("rendering report HTML: %w", err)
	}

	return fmt.Sprintf(htmlShell, title, body.String()), nil
}
