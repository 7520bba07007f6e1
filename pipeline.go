package regexhl

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/riverfjs/regexhl-go/internal/render"
	"github.com/riverfjs/regexhl-go/internal/session"
	"github.com/riverfjs/regexhl-go/internal/util"
)

// ProcessSession 完整管道：Markdown 会话 → 可输出的内容列表
//
// 步骤：
//  1. 解析会话文档，得到 (标题, 正则, 样本...) 用例
//  2. 每个用例编译正则；失败时输出 PatternError 并继续下一个用例
//  3. 每个样本高亮后输出 Text；开启 WithImages 时再输出 PNG Photo
//
// 每个用例之间检查 ctx，取消时返回 ctx.Err() 且不返回部分结果。
func ProcessSession(ctx context.Context, markdown string, opts ...Option) ([]Content, error) {
	options := applyOptions(opts...)

	cases, err := session.Parse(markdown)
	if err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	term := newSessionTerminal(options)
	var img *render.Image
	if options.Images {
		img = options.Config.image()
	}

	result := make([]Content, 0)
	for i, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		caseOptions := *options
		if c.Engine != "" {
			caseOptions.Engine = Engine(c.Engine)
		}
		trace := ContentTrace{Case: c.Title, Pattern: c.Pattern}

		src, err := compileWith(c.Pattern, &caseOptions)
		if err != nil {
			Logger.Printf("case %q: %v", c.Title, err)
			result = append(result, &PatternError{Err: err, ContentTrace: trace})
			continue
		}

		for j, sample := range c.Texts {
			res := HighlightSource(src, sample)
			result = append(result, &Text{
				Sample:       sample,
				Rendered:     term.Render(sample, res.Segments),
				Segments:     res.Segments,
				Spans:        UTF16Spans(sample, res.Segments, options.Config),
				Err:          res.Err,
				ContentTrace: trace,
			})
			if img != nil {
				handleImage(&result, img, c, i, j, res, trace)
			}
		}
	}
	return result, nil
}

func newSessionTerminal(options *HighlightOptions) *render.Terminal {
	term := options.Config.terminal(os.Stdout)
	if options.hasProfile {
		term.SetColorProfile(options.profile)
	}
	return term
}

// handleImage 将样本渲染为 PNG，失败时只记录日志
func handleImage(result *[]Content, img *render.Image, c session.Case, caseIndex, sampleIndex int, res *Result, trace ContentTrace) {
	var buf bytes.Buffer
	if err := img.EncodePNG(&buf, res.Text, res.Segments); err != nil {
		Logger.Printf("case %q: PNG rendering failed: %v", c.Title, err)
		return
	}
	title := c.Title
	if len(c.Texts) > 1 {
		title = fmt.Sprintf("%s %d", c.Title, sampleIndex+1)
	}
	*result = append(*result, &Photo{
		FileName:     util.GetFilename(title, caseIndex+1, "png"),
		FileData:     buf.Bytes(),
		Caption:      fmt.Sprintf("%s: /%s/", c.Title, c.Pattern),
		ContentTrace: trace,
	})
}
