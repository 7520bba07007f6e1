package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	regexhl "github.com/riverfjs/regexhl-go"
)

// Following the grep tool convention.
const (
	exitMatched    = 0
	exitNotMatched = 1
	exitError      = 2
)

func main() {
	exitCode, err := mainNoExit()
	if err != nil {
		log.Printf("error: %+v", err)
		os.Exit(exitError)
	}
	os.Exit(exitCode)
}

func mainNoExit() (int, error) {
	log.SetFlags(0)

	var args arguments
	parseFlags(&args)

	p := &program{
		args:   args,
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"validate flags", p.validateFlags},
		{"load config", p.loadConfig},
		{"read input", p.readInput},
		{"highlight", p.highlight},
		{"print results", p.printResults},
	}

	for _, step := range steps {
		if args.verbose {
			log.Printf("debug: starting %q step", step.name)
		}
		if err := step.fn(); err != nil {
			return exitError, fmt.Errorf("%s: %v", step.name, err)
		}
	}

	if p.numMatches == 0 {
		return exitNotMatched, nil
	}
	return exitMatched, nil
}

type arguments struct {
	verbose   bool
	multiline bool
	noColor   bool
	jsonMode  bool
	limit     int

	engine     string
	configFile string
	pngFile    string
	session    string
	outDir     string

	pattern string
	text    string
	hasText bool
}

func parseFlags(args *arguments) {
	flag.Usage = func() {
		const usage = `Usage: regexhl [flags...] pattern [text]
       regexhl [flags...] -session file.md
Where:
  pattern is the regular expression to test
  text is the subject; standard input is read when it is omitted
Examples:
  # Colour the words and the separators.
  regexhl '(\w+)\s' 'Three words panic'
  # Use the backtracking engine for lookbehind.
  regexhl -engine regexp2 '(?<=a)(b)' abab
  # Write the highlight as an image.
  regexhl -png out.png '((s)au)er(k)ra(u(t))' < words.txt
  # Run every case of a Markdown session and save images.
  regexhl -session cases.md -outdir images/

Exit status:
  0 if something is matched
  1 if nothing is matched
  2 if error occurred

Supported command-line flags:
`
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}

	flag.BoolVar(&args.verbose, "v", false,
		`verbose mode: turn on additional debug logging`)
	flag.IntVar(&args.limit, "limit", 0,
		`stop after this many occurrences, 0 for unlimited`)
	flag.StringVar(&args.engine, "engine", "",
		`regex engine: "re2" or "regexp2", overrides the config file`)
	flag.StringVar(&args.configFile, "config", "",
		`load render settings from a TOML file`)
	flag.StringVar(&args.pngFile, "png", "",
		`also write the highlight as a PNG image to the specified file`)
	flag.BoolVar(&args.jsonMode, "json", false,
		`print segments and UTF-16 spans as JSON instead of coloured text`)
	flag.BoolVar(&args.noColor, "no-color", false,
		`disable colored output`)
	flag.BoolVar(&args.multiline, "m", false,
		`multiline mode: print text without escaping newlines to \n`)
	flag.StringVar(&args.session, "session", "",
		`run the cases of a Markdown session document`)
	flag.StringVar(&args.outDir, "outdir", "",
		`with -session, render every sample as a PNG into this directory`)

	flag.Parse()

	argv := flag.Args()
	if len(argv) != 0 {
		args.pattern = argv[0]
	}
	if len(argv) >= 2 {
		args.text = argv[1]
		args.hasText = true
	}

	if args.verbose {
		log.Printf("debug: pattern: %s", args.pattern)
		log.Printf("debug: session: %s", args.session)
	}
}

type program struct {
	args arguments

	stdin  io.Reader
	stdout io.Writer

	config *regexhl.RenderConfig
	opts   []regexhl.Option

	result   *regexhl.Result
	contents []regexhl.Content

	numMatches int
}

func (p *program) validateFlags() error {
	if p.args.session == "" && p.args.pattern == "" {
		return fmt.Errorf("pattern can't be empty")
	}
	if p.args.session != "" && p.args.pattern != "" {
		return fmt.Errorf("-session and a pattern argument are mutually exclusive")
	}
	if p.args.outDir != "" && p.args.session == "" {
		return fmt.Errorf("-outdir requires -session")
	}
	if p.args.limit < 0 {
		return fmt.Errorf("limit: negative value %d", p.args.limit)
	}
	switch regexhl.Engine(p.args.engine) {
	case "", regexhl.EngineRE2, regexhl.EngineRegexp2:
		// OK.
	default:
		return fmt.Errorf("engine: unexpected engine %q", p.args.engine)
	}
	return nil
}

func (p *program) loadConfig() error {
	p.config = regexhl.DefaultRenderConfig()
	if p.args.configFile != "" {
		cfg, err := regexhl.LoadConfig(p.args.configFile)
		if err != nil {
			return err
		}
		p.config = cfg
	}
	if p.args.multiline {
		p.config.Multiline = true
	}

	p.opts = []regexhl.Option{regexhl.WithConfig(p.config)}
	if p.args.engine != "" {
		p.opts = append(p.opts, regexhl.WithEngine(regexhl.Engine(p.args.engine)))
	}
	if p.args.limit != 0 {
		p.opts = append(p.opts, regexhl.WithLimit(p.args.limit))
	}
	if p.args.noColor {
		p.opts = append(p.opts, regexhl.WithColorProfile(termenv.Ascii))
	}
	if p.args.outDir != "" {
		p.opts = append(p.opts, regexhl.WithImages(true))
	}
	if !p.args.verbose {
		regexhl.SetLogger(log.New(io.Discard, "", 0))
	}
	return nil
}

func (p *program) readInput() error {
	if p.args.session != "" {
		data, err := os.ReadFile(p.args.session)
		if err != nil {
			return err
		}
		p.args.text = string(data)
		return nil
	}
	if p.args.hasText {
		return nil
	}
	data, err := io.ReadAll(p.stdin)
	if err != nil {
		return err
	}
	p.args.text = strings.TrimSuffix(string(data), "\n")
	return nil
}

func (p *program) highlight() error {
	if p.args.session != "" {
		contents, err := regexhl.ProcessSession(context.Background(), p.args.text, p.opts...)
		if err != nil {
			return err
		}
		p.contents = contents
		return nil
	}

	res, err := regexhl.Highlight(p.args.pattern, p.args.text, p.opts...)
	if err != nil {
		return err
	}
	if res.Fallback() {
		log.Printf("warning: text left unhighlighted: %v", res.Err)
	}
	p.result = res
	p.numMatches = countOccurrences(res.Records)
	return nil
}

func (p *program) printResults() error {
	if p.args.session != "" {
		return p.printSession()
	}

	if p.args.pngFile != "" {
		if err := writeFile(p.args.pngFile, func(w io.Writer) error {
			return p.result.EncodePNG(w, p.opts...)
		}); err != nil {
			return err
		}
	}

	if p.args.jsonMode {
		return p.printJSON(jsonResult{
			Pattern:  p.result.Pattern,
			Text:     p.result.Text,
			Segments: p.result.Segments,
			Spans:    p.result.Spans(p.opts...),
			Error:    errString(p.result.Err),
		})
	}
	fmt.Fprintln(p.stdout, p.result.Render(p.stdout, p.opts...))
	return nil
}

func (p *program) printSession() error {
	var results []jsonResult
	for _, c := range p.contents {
		trace := c.GetContentTrace()
		switch c := c.(type) {
		case *regexhl.Text:
			if hasTagged(c.Segments) {
				p.numMatches++
			}
			if p.args.jsonMode {
				results = append(results, jsonResult{
					Case:     trace.Case,
					Pattern:  trace.Pattern,
					Text:     c.Sample,
					Segments: c.Segments,
					Spans:    c.Spans,
					Error:    errString(c.Err),
				})
				continue
			}
			fmt.Fprintf(p.stdout, "%s: %s\n", trace.Case, c.Rendered)

		case *regexhl.PatternError:
			if p.args.jsonMode {
				results = append(results, jsonResult{
					Case:    trace.Case,
					Pattern: trace.Pattern,
					Error:   c.Err.Error(),
				})
				continue
			}
			fmt.Fprintf(p.stdout, "%s: invalid pattern: %v\n", trace.Case, c.Err)

		case *regexhl.Photo:
			filename := filepath.Join(p.args.outDir, c.FileName)
			if err := os.MkdirAll(p.args.outDir, 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(filename, c.FileData, 0o644); err != nil {
				return err
			}
			if p.args.verbose {
				log.Printf("debug: wrote %s", filename)
			}
		}
	}
	if p.args.jsonMode {
		return p.printJSON(results)
	}
	return nil
}

type jsonResult struct {
	Case     string            `json:"case,omitempty"`
	Pattern  string            `json:"pattern"`
	Text     string            `json:"text"`
	Segments []regexhl.Segment `json:"segments,omitempty"`
	Spans    []regexhl.Span    `json:"spans,omitempty"`
	Error    string            `json:"error,omitempty"`
}

func (p *program) printJSON(v interface{}) error {
	enc := json.NewEncoder(p.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
