package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

const htmlHead = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Character co-occurrence report</title>
<style>body{font-family:sans-serif;max-width:60em;margin:2em auto}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:2px 8px}</style>
</head><body>
`

// HTML converts a markdown report into a standalone HTML page.
func HTML(markdown string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(htmlHead)
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	buf.WriteString("</body></html>\n")
	return buf.Bytes(), nil
}
