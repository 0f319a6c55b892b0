// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render provides HTML sanitization for page content entering
// the registry.
package render

import "github.com/microcosm-cc/bluemonday"

// htmlSanitizer is the policy applied to hand-authored page bodies
// entering the registry. It starts from bluemonday's UGCPolicy, which
// strips dangerous elements like <script> and event handlers, and is
// widened to keep presentation classes, div height styles and
// site-relative links without an injected rel attribute. Sanitization
// is idempotent, so re-saving a page body is stable.
var htmlSanitizer = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowStyles("height").OnElements("div")
	p.AllowRelativeURLs(true)
	p.RequireNoFollowOnLinks(false)
	return p
}()

// SanitizeHTML returns content with disallowed markup stripped.
func SanitizeHTML(content string) string {
	return htmlSanitizer.Sanitize(content)
}
