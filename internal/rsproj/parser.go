package rsproj

import (
	"fmt"
	"os"
)

// settingsBlock is the reserved top-level name of the settings block.
const settingsBlock = "settings"

// Parser turns project file text into a ParseResult. A Parser holds no
// state between calls and may be reused.
type Parser struct {
	// BaseDir is the working directory steps start from before a `cwd`
	// option is applied. Defaults to ".".
	BaseDir string
}

// NewParser creates a parser whose steps are relative to the project
// directory.
func NewParser() *Parser {
	return &Parser{BaseDir: "."}
}

// Parse parses a complete project file with a default Parser.
func Parse(text string) (*ParseResult, error) {
	return NewParser().Parse(text)
}

// ParseFile reads and parses the project file at path.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}
	return p.Parse(string(data))
}

// Parse parses a complete project file. Top-level blocks are either the
// settings block or named jobs; a job may only use jobs declared above it.
// Any failure is returned as an *Error and no partial result is produced.
func (p *Parser) Parse(text string) (*ParseResult, error) {
	src := []rune(text)
	result := &ParseResult{
		Jobs:     map[string]Job{},
		Settings: ConfigMap{},
		Modules:  []string{},
		Order:    []string{},
	}

	s := newScanner(src, 0, len(src))
	for {
		s.skipSpace()
		if s.eof() {
			break
		}

		start := s.pos
		name := s.word()
		s.skipSpace()

		if name == "" {
			r, ok := s.peek()
			return nil, newError(src, KindLexical, start, "expected a job name, but found %s", printable(r, ok))
		}
		if _, exists := result.Jobs[name]; exists {
			return nil, newError(src, KindSemantic, start, "a job with this name is already defined")
		}

		lo, hi, err := s.block()
		if err != nil {
			return nil, err
		}

		if name == settingsBlock {
			settings, err := parseBlock(src, lo, hi)
			if err != nil {
				return nil, err
			}
			result.Settings = settings
			continue
		}

		job, err := p.parseJob(src, lo, hi, result.Jobs)
		if err != nil {
			return nil, err
		}
		result.Jobs[name] = job
		result.Order = append(result.Order, name)
	}

	result.Modules = modules(result)
	return result, nil
}

// modules collects distinct step types in the order they first appear.
func modules(result *ParseResult) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, name := range result.Order {
		for _, step := range result.Jobs[name] {
			if !seen[step.Type] {
				seen[step.Type] = true
				out = append(out, step.Type)
			}
		}
	}
	return out
}

func (p *Parser) baseDir() string {
	if p.BaseDir == "" {
		return "."
	}
	return p.BaseDir
}
