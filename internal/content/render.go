package content

import "github.com/microcosm-cc/bluemonday"

// renderPolicy is the allow-list applied to any stored HTML before it is
// handed to a browser. UGCPolicy is a bounded, well-known allow-list; we do
// not maintain custom sanitization logic at this boundary.
var renderPolicy = bluemonday.UGCPolicy()

// RenderSafeHTML strips every tag and attribute not on the allow-list,
// including inline event handlers and script-bearing constructs.
func RenderSafeHTML(html string) string {
	return renderPolicy.Sanitize(html)
}
