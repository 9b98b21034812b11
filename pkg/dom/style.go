package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type declaration struct {
	property string
	value    string
}

func parseStyle(style string) []declaration {
	var out []declaration
	for _, part := range strings.Split(style, ";") {
		property, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		property = strings.ToLower(strings.TrimSpace(property))
		if property == "" {
			continue
		}
		out = append(out, declaration{property: property, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl.property+": "+decl.value)
	}
	return strings.Join(parts, "; ")
}

func styleValue(style, property string) string {
	for _, decl := range parseStyle(style) {
		if decl.property == property {
			return decl.value
		}
	}
	return ""
}

// setStyle replaces property in the inline style of every element in sel,
// appending it when absent. An empty value removes the property.
func setStyle(sel *goquery.Selection, property, value string) {
	sel.Each(func(_ int, node *goquery.Selection) {
		style, _ := node.Attr("style")
		decls := parseStyle(style)
		out := decls[:0]
		replaced := false
		for _, decl := range decls {
			if decl.property != property {
				out = append(out, decl)
				continue
			}
			if value != "" && !replaced {
				out = append(out, declaration{property: property, value: value})
				replaced = true
			}
		}
		if value != "" && !replaced {
			out = append(out, declaration{property: property, value: value})
		}
		if len(out) == 0 {
			node.RemoveAttr("style")
			return
		}
		node.SetAttr("style", formatStyle(out))
	})
}
