// Copyright 2026 The Dockbot Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

// Message is the outbound message representation: a plain-text
// fallback plus an ordered list of layout blocks.
type Message struct {
	Text   string  `json:"text"`
	Blocks []Block `json:"blocks,omitempty"`
}

// Block is one layout block. The platform's block model is
// polymorphic on Type; a single struct with optional fields keeps
// construction and JSON encoding simple, and the constructors below
// produce only valid shapes.
// Elements is []any because the platform overloads the "elements"
// key: actions blocks carry interactive Element values, context
// blocks carry bare TextObject values. The constructors below are the
// only writers.
type Block struct {
	Type           string       `json:"type"`
	BlockID        string       `json:"block_id,omitempty"`
	Text           *TextObject  `json:"text,omitempty"`
	Fields         []TextObject `json:"fields,omitempty"`
	Elements       []any        `json:"elements,omitempty"`
	Label          *TextObject  `json:"label,omitempty"`
	Element        *Element     `json:"element,omitempty"`
	Optional       bool         `json:"optional,omitempty"`
	DispatchAction bool         `json:"dispatch_action,omitempty"`
}

// TextObject is a text fragment, either "mrkdwn" or "plain_text".
type TextObject struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Element is an interactive element inside an actions or input block.
type Element struct {
	Type           string      `json:"type"`
	ActionID       string      `json:"action_id,omitempty"`
	Text           *TextObject `json:"text,omitempty"`
	Style          string      `json:"style,omitempty"`
	Value          string      `json:"value,omitempty"`
	Placeholder    *TextObject `json:"placeholder,omitempty"`
	Options        []Option    `json:"options,omitempty"`
	InitialOption  *Option     `json:"initial_option,omitempty"`
	InitialOptions []Option    `json:"initial_options,omitempty"`
}

// Option is one selectable entry of a select, radio, or checkbox
// element.
type Option struct {
	Text  TextObject `json:"text"`
	Value string     `json:"value"`
}

// View is a modal view definition.
type View struct {
	Type            string      `json:"type"`
	CallbackID      string      `json:"callback_id,omitempty"`
	Title           *TextObject `json:"title,omitempty"`
	Submit          *TextObject `json:"submit,omitempty"`
	Close           *TextObject `json:"close,omitempty"`
	PrivateMetadata string      `json:"private_metadata,omitempty"`
	Blocks          []Block     `json:"blocks"`
}

// Markdown returns a mrkdwn text object.
func Markdown(text string) TextObject {
	return TextObject{Type: "mrkdwn", Text: text}
}

// PlainText returns a plain_text text object with emoji rendering.
func PlainText(text string) TextObject {
	return TextObject{Type: "plain_text", Text: text, Emoji: true}
}

// Section returns a section block with mrkdwn body text.
func Section(markdown string) Block {
	text := Markdown(markdown)
	return Block{Type: "section", Text: &text}
}

// FieldsSection returns a section block with a two-column field grid.
func FieldsSection(fields []TextObject) Block {
	return Block{Type: "section", Fields: fields}
}

// Header returns a header block.
func Header(text string) Block {
	title := TextObject{Type: "plain_text", Text: text}
	return Block{Type: "header", Text: &title}
}

// Divider returns a divider block.
func Divider() Block {
	return Block{Type: "divider"}
}

// Actions returns an actions block holding interactive elements.
func Actions(blockID string, elements ...Element) Block {
	block := Block{Type: "actions", BlockID: blockID}
	for _, element := range elements {
		block.Elements = append(block.Elements, element)
	}
	return block
}

// ContextNote returns a context block with one mrkdwn note.
func ContextNote(markdown string) Block {
	return Block{Type: "context", Elements: []any{Markdown(markdown)}}
}

// Button returns a button element carrying an opaque value payload.
func Button(actionID, label, style, value string) Element {
	text := PlainText(label)
	return Element{Type: "button", ActionID: actionID, Text: &text, Style: style, Value: value}
}
