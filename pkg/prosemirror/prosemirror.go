// Package prosemirror converts ProseMirror documents, the format Granola
// stores note panels in, to Markdown.
package prosemirror

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Node is a ProseMirror document node.
type Node struct {
	Type    string         `json:"type" mapstructure:"type"`
	Text    string         `json:"text,omitempty" mapstructure:"text"`
	Attrs   map[string]any `json:"attrs,omitempty" mapstructure:"attrs"`
	Marks   []Mark         `json:"marks,omitempty" mapstructure:"marks"`
	Content []Node         `json:"content,omitempty" mapstructure:"content"`
}

// Mark is inline formatting applied to a text node.
type Mark struct {
	Type  string         `json:"type" mapstructure:"type"`
	Attrs map[string]any `json:"attrs,omitempty" mapstructure:"attrs"`
}

// Decode builds a Node from a generic value: a map decoded from JSON, raw
// JSON bytes or a Node.
func Decode(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("empty document")
	case *Node:
		return t, nil
	case Node:
		return &t, nil
	case json.RawMessage:
		return decodeJSON(t)
	case []byte:
		return decodeJSON(t)
	case string:
		return nil, fmt.Errorf("document content is a string, not a node")
	}

	var n Node
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &n,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(v); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return &n, nil
}

func decodeJSON(b []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(b, &n); err != nil {
		return nil, fmt.Errorf("error decoding document: %w", err)
	}
	return &n, nil
}

// ToMarkdown renders a document as Markdown. Unknown node types render their
// children. The result has no leading or trailing whitespace.
func ToMarkdown(n *Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(render(*n, 0, 0))
}

// Convert decodes v and renders it as Markdown.
func Convert(v any) (string, error) {
	n, err := Decode(v)
	if err != nil {
		return "", err
	}
	return ToMarkdown(n), nil
}

// render returns the Markdown for n. order is the 1-based position of a list
// item inside an ordered list, or 0.
func render(n Node, depth, order int) string {
	if n.Type == "text" || n.Text != "" {
		return applyMarks(n.Text, n.Marks)
	}

	var b strings.Builder
	switch n.Type {
	case "paragraph":
		if s := renderChildren(n.Content, depth); s != "" {
			b.WriteString(s + "\n")
		}

	case "heading":
		level := intAttr(n.Attrs, "level", 1)
		b.WriteString(strings.Repeat("#", level) + " " + renderChildren(n.Content, depth) + "\n")

	case "bulletList":
		for _, item := range n.Content {
			b.WriteString(render(item, depth, 0))
		}

	case "orderedList":
		for i, item := range n.Content {
			b.WriteString(render(item, depth, i+1))
		}

	case "listItem":
		prefix := "- "
		if order > 0 {
			prefix = strconv.Itoa(order) + ". "
		}
		body := strings.TrimSpace(renderChildren(n.Content, depth+1))
		b.WriteString(strings.Repeat("  ", depth) + prefix + body + "\n")

	case "codeBlock":
		lang, _ := n.Attrs["language"].(string)
		b.WriteString("```" + lang + "\n" + renderChildren(n.Content, depth) + "\n```\n")

	case "blockquote":
		quoted := strings.TrimSpace(renderChildren(n.Content, depth))
		lines := strings.Split(quoted, "\n")
		for i, line := range lines {
			lines[i] = "> " + line
		}
		b.WriteString(strings.Join(lines, "\n") + "\n")

	case "horizontalRule":
		b.WriteString("---\n")

	case "hardBreak":
		b.WriteString("  \n")

	default:
		b.WriteString(renderChildren(n.Content, depth))
	}
	return b.String()
}

func renderChildren(children []Node, depth int) string {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(render(c, depth, 0))
	}
	return b.String()
}

func applyMarks(text string, marks []Mark) string {
	for _, m := range marks {
		switch m.Type {
		case "bold":
			text = "**" + text + "**"
		case "italic":
			text = "*" + text + "*"
		case "code":
			text = "`" + text + "`"
		case "strike":
			text = "~~" + text + "~~"
		case "link":
			href, _ := m.Attrs["href"].(string)
			text = "[" + text + "](" + href + ")"
		}
	}
	return text
}

func intAttr(attrs map[string]any, key string, def int) int {
	switch v := attrs[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
