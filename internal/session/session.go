// Package session reads regex test sessions written as Markdown: a
// ```regex fence holds a pattern, each following ```text fence holds a
// sample for it, and the nearest heading names the case.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// ErrOrphanText 在任何 regex 代码块之前出现了 text 代码块
var ErrOrphanText = errors.New("text block before any regex block")

// StandardOptions goldmark 扩展配置
var StandardOptions = []goldmark.Option{
	goldmark.WithExtensions(extension.GFM),
}

// Case 一个正则及其测试文本
type Case struct {
	Title   string
	Pattern string
	// Engine 来自 info 字符串的第二个字段，例如 ```regex regexp2；为空时使用默认引擎
	Engine string
	Texts  []string
}

// ParseAST 仅解析为 AST，不遍历
func ParseAST(source []byte) ast.Node {
	md := goldmark.New(StandardOptions...)
	return md.Parser().Parse(text.NewReader(source))
}

// Parse extracts the cases of a session document in order.
func Parse(markdown string) ([]Case, error) {
	source := []byte(markdown)
	doc := ParseAST(source)

	var cases []Case
	title := ""
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			title = inlineText(n, source)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			fields := strings.Fields(infoString(n, source))
			if len(fields) == 0 {
				return ast.WalkSkipChildren, nil
			}
			body := blockText(n, source)
			switch fields[0] {
			case "regex", "regexp":
				c := Case{
					Title:   title,
					Pattern: strings.TrimRight(body, "\r\n"),
				}
				if c.Title == "" {
					c.Title = fmt.Sprintf("case %d", len(cases)+1)
				}
				if len(fields) > 1 {
					c.Engine = fields[1]
				}
				cases = append(cases, c)
			case "text":
				if len(cases) == 0 {
					return ast.WalkStop, ErrOrphanText
				}
				last := &cases[len(cases)-1]
				last.Texts = append(last.Texts, strings.TrimSuffix(body, "\n"))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func infoString(n *ast.FencedCodeBlock, source []byte) string {
	if n.Info == nil {
		return ""
	}
	return string(n.Info.Segment.Value(source))
}

func blockText(n ast.Node, source []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(source))
	}
	return b.String()
}

// inlineText 拼接标题中的所有文本节点（包括强调等嵌套内容）
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			b.Write(c.Segment.Value(source))
		case *ast.CodeSpan:
			for t := c.FirstChild(); t != nil; t = t.NextSibling() {
				if txt, ok := t.(*ast.Text); ok {
					b.Write(txt.Segment.Value(source))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
