// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/cloudhost/hostcms/internal/model"
)

// headingClasses maps a heading size to its presentation classes.
var headingClasses = map[string]string{
	"h1": "text-4xl font-bold mb-6",
	"h2": "text-3xl font-bold mb-4",
	"h3": "text-2xl font-bold mb-3",
	"h4": "text-xl font-bold mb-2",
	"h5": "text-lg font-bold mb-2",
	"h6": "text-base font-bold mb-2",
}

// buttonClasses maps a button variant to its presentation classes.
var buttonClasses = map[string]string{
	"default": "inline-block px-6 py-2 bg-blue-600 text-white rounded hover:bg-blue-700 mb-4",
	"outline": "inline-block px-6 py-2 border border-blue-600 text-blue-600 rounded hover:bg-blue-50 mb-4",
	"ghost":   "inline-block px-6 py-2 text-blue-600 hover:bg-blue-50 rounded mb-4",
}

// cssLength accepts the spacer heights the editor produces.
var cssLength = regexp.MustCompile(`^\d+(px|em|rem|%)$`)

// defaultSpacerHeight is used when a spacer carries no usable height.
const defaultSpacerHeight = "20px"

// Compile renders an ordered element sequence to static markup, one
// block per line in input order. It is pure and total: the same
// sequence always yields byte-identical output, and an unrecognized
// block type emits nothing rather than failing.
func Compile(elements []model.Element) string {
	parts := make([]string, 0, len(elements))
	for _, el := range elements {
		parts = append(parts, compileElement(el))
	}
	return strings.Join(parts, "\n")
}

func compileElement(el model.Element) string {
	switch el.Type {
	case model.ElementHeading:
		size := "h2"
		if p, ok := el.Props.(model.HeadingProps); ok {
			if _, known := headingClasses[p.Size]; known {
				size = p.Size
			}
		}
		return fmt.Sprintf("<%s class=%q>%s</%s>",
			size, headingClasses[size], html.EscapeString(el.Content), size)

	case model.ElementParagraph:
		return fmt.Sprintf("<p class=\"mb-4\">%s</p>", html.EscapeString(el.Content))

	case model.ElementImage:
		alt := ""
		if p, ok := el.Props.(model.ImageProps); ok {
			alt = p.Alt
		}
		return fmt.Sprintf("<img src=%q alt=%q class=\"max-w-full h-auto rounded mb-4\" />",
			html.EscapeString(el.Content), html.EscapeString(alt))

	case model.ElementButton:
		url := "#"
		variant := "default"
		if p, ok := el.Props.(model.ButtonProps); ok {
			if p.URL != "" {
				url = p.URL
			}
			if _, known := buttonClasses[p.Variant]; known {
				variant = p.Variant
			}
		}
		return fmt.Sprintf("<a href=%q class=%q>%s</a>",
			html.EscapeString(url), buttonClasses[variant], html.EscapeString(el.Content))

	case model.ElementDivider:
		return `<hr class="my-6 border-t border-gray-200" />`

	case model.ElementSpacer:
		height := defaultSpacerHeight
		if p, ok := el.Props.(model.SpacerProps); ok && cssLength.MatchString(p.Height) {
			height = p.Height
		}
		return fmt.Sprintf("<div style=\"height: %s\"></div>", height)
	}
	return ""
}
