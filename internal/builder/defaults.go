// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import "github.com/cloudhost/hostcms/internal/model"

// defaultContent returns the fixed starting content for a new block of
// the given type.
func defaultContent(t model.ElementType) string {
	switch t {
	case model.ElementHeading:
		return "New Heading"
	case model.ElementParagraph:
		return "Enter text here..."
	case model.ElementImage:
		return "https://placehold.co/600x400"
	case model.ElementButton:
		return "Click Me"
	}
	return ""
}

// defaultProps returns the fixed starting properties for a new block of
// the given type; types without properties return nil.
func defaultProps(t model.ElementType) model.ElementProps {
	switch t {
	case model.ElementHeading:
		return model.HeadingProps{Size: "h2"}
	case model.ElementImage:
		return model.ImageProps{Alt: "Image description"}
	case model.ElementButton:
		return model.ButtonProps{URL: "#", Variant: "default"}
	case model.ElementSpacer:
		return model.SpacerProps{Height: "30px"}
	}
	return nil
}
