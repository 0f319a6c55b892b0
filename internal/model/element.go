// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// ElementType identifies the kind of a content block.
type ElementType string

// Content block types
const (
	ElementHeading   ElementType = "heading"
	ElementParagraph ElementType = "paragraph"
	ElementImage     ElementType = "image"
	ElementButton    ElementType = "button"
	ElementDivider   ElementType = "divider"
	ElementSpacer    ElementType = "spacer"
)

// ValidElementType reports whether t is one of the defined block types.
func ValidElementType(t ElementType) bool {
	switch t {
	case ElementHeading, ElementParagraph, ElementImage, ElementButton,
		ElementDivider, ElementSpacer:
		return true
	}
	return false
}

// ElementProps is the closed set of per-type property variants. Each
// block type carries only its own strongly typed property set; paragraph
// and divider blocks carry none.
type ElementProps interface {
	elementProps()
}

// HeadingProps are the properties of a heading block.
type HeadingProps struct {
	// Size is one of h1..h6.
	Size string `json:"size"`
}

// ImageProps are the properties of an image block.
type ImageProps struct {
	Alt string `json:"alt"`
}

// ButtonProps are the properties of a button block.
type ButtonProps struct {
	URL     string `json:"url"`
	Variant string `json:"variant"`
}

// SpacerProps are the properties of a spacer block.
type SpacerProps struct {
	// Height is a CSS length such as "30px".
	Height string `json:"height"`
}

func (HeadingProps) elementProps() {}
func (ImageProps) elementProps()   {}
func (ButtonProps) elementProps()  {}
func (SpacerProps) elementProps()  {}

// Element is a single typed content block within a builder page.
type Element struct {
	ID      string
	Type    ElementType
	Content string
	Props   ElementProps
}

// PropsMatch reports whether props is the variant expected for t.
// Paragraph and divider expect nil props.
func PropsMatch(t ElementType, props ElementProps) bool {
	switch t {
	case ElementHeading:
		_, ok := props.(HeadingProps)
		return ok
	case ElementImage:
		_, ok := props.(ImageProps)
		return ok
	case ElementButton:
		_, ok := props.(ButtonProps)
		return ok
	case ElementSpacer:
		_, ok := props.(SpacerProps)
		return ok
	case ElementParagraph, ElementDivider:
		return props == nil
	}
	return false
}

// elementJSON is the wire shape for Element serialization.
type elementJSON struct {
	ID      string          `json:"id"`
	Type    ElementType     `json:"type"`
	Content string          `json:"content"`
	Props   json.RawMessage `json:"props,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Element) MarshalJSON() ([]byte, error) {
	out := elementJSON{ID: e.ID, Type: e.Type, Content: e.Content}
	if e.Props != nil {
		raw, err := json.Marshal(e.Props)
		if err != nil {
			return nil, fmt.Errorf("marshaling %s props: %w", e.Type, err)
		}
		out.Props = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. The props payload is decoded
// into the variant matching the element type; props for types that carry
// none are ignored.
func (e *Element) UnmarshalJSON(data []byte) error {
	var in elementJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	e.ID = in.ID
	e.Type = in.Type
	e.Content = in.Content
	e.Props = nil

	if len(in.Props) == 0 {
		return nil
	}

	switch in.Type {
	case ElementHeading:
		var p HeadingProps
		if err := json.Unmarshal(in.Props, &p); err != nil {
			return fmt.Errorf("decoding heading props: %w", err)
		}
		e.Props = p
	case ElementImage:
		var p ImageProps
		if err := json.Unmarshal(in.Props, &p); err != nil {
			return fmt.Errorf("decoding image props: %w", err)
		}
		e.Props = p
	case ElementButton:
		var p ButtonProps
		if err := json.Unmarshal(in.Props, &p); err != nil {
			return fmt.Errorf("decoding button props: %w", err)
		}
		e.Props = p
	case ElementSpacer:
		var p SpacerProps
		if err := json.Unmarshal(in.Props, &p); err != nil {
			return fmt.Errorf("decoding spacer props: %w", err)
		}
		e.Props = p
	}
	return nil
}
