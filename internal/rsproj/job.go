package rsproj

import (
	"maps"
	"path/filepath"
)

// cwdKey is the step option that overrides the step's working directory.
const cwdKey = "cwd"

// parseJob parses the body of a job into its steps. `use <name>` splices in
// the steps of a job that was declared earlier; any other word starts a step
// of that type followed by a brace-delimited option block.
func (p *Parser) parseJob(src []rune, lo, hi int, jobs map[string]Job) (Job, error) {
	job := Job{}
	s := newScanner(src, lo, hi)

	for {
		s.skipSpace()
		if s.eof() {
			break
		}

		start := s.pos
		name := s.word()
		s.skipSpace()

		if name == "use" {
			refStart := s.pos
			ref := s.word()
			steps, ok := jobs[ref]
			if !ok {
				return nil, newError(src, KindSemantic, refStart, "no job with the name %s found", ref)
			}
			for _, step := range steps {
				step.Options = maps.Clone(step.Options)
				job = append(job, step)
			}
			continue
		}
		if name == "" {
			r, ok := s.peek()
			return nil, newError(src, KindLexical, start, "expected a module name, but found %s", printable(r, ok))
		}

		bodyLo, bodyHi, err := s.block()
		if err != nil {
			return nil, err
		}
		options, err := parseBlock(src, bodyLo, bodyHi)
		if err != nil {
			return nil, err
		}

		job = append(job, Step{
			Type:    name,
			Cwd:     p.stepDir(options),
			Options: options,
		})
	}

	return job, nil
}

// stepDir resolves the working directory of a step and removes the cwd
// option so modules never see it. Absolute paths replace the base
// directory; relative ones are joined onto it.
func (p *Parser) stepDir(options ConfigMap) string {
	dir := p.baseDir()
	v, ok := options[cwdKey]
	if !ok {
		return dir
	}
	delete(options, cwdKey)

	override := v.String()
	if filepath.IsAbs(override) {
		return filepath.Clean(override)
	}
	return filepath.Join(dir, override)
}
