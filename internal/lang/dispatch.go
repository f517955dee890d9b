package lang

import (
	"context"
	"fmt"
	"log"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/archdrift/internal/graph"
)

// File is one source file queued for scanning.
type File struct {
	Path    string
	Content []byte
}

// session holds the per-language machinery a Scanner reuses across files.
type session struct {
	parser    *tree_sitter.Parser
	backend   Backend
	extractor extractor
}

// Scanner dispatches files to language extractors by extension. Parsers are
// created lazily per language and reused; a Scanner is not safe for
// concurrent use, ScanAllParallel runs one Scanner per worker instead.
type Scanner struct {
	allowed     map[Language]bool // nil allows every registered language
	sessions    map[Language]*session
	unavailable map[Language]bool
}

// NewScanner returns a scanner restricted to the given languages, or to all
// registered languages when none are named.
func NewScanner(langs ...Language) *Scanner {
	s := &Scanner{
		sessions:    make(map[Language]*session),
		unavailable: make(map[Language]bool),
	}
	if len(langs) > 0 {
		s.allowed = make(map[Language]bool, len(langs))
		for _, l := range langs {
			s.allowed[l] = true
		}
	}
	return s
}

// Close releases the tree-sitter parsers held by this scanner.
func (s *Scanner) Close() error {
	for _, sess := range s.sessions {
		sess.parser.Close()
	}
	s.sessions = make(map[Language]*session)
	return nil
}

// ScanAll scans files in input order, one fragment per successfully scanned
// file. Files with no registered language are skipped silently; parse and
// extraction failures become diagnostics. The only returned error is
// context cancellation, checked between files so a cancelled scan stops
// promptly.
func (s *Scanner) ScanAll(ctx context.Context, files []File) ([]graph.Fragment, []Diagnostic, error) {
	var frags []graph.Fragment
	var diags []Diagnostic

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return frags, diags, err
		}
		frag, diag := s.scanFile(file)
		if diag != nil {
			log.Printf("skipping %s: %s: %s", diag.File, diag.Stage, diag.Err)
			diags = append(diags, *diag)
			continue
		}
		if frag != nil {
			frags = append(frags, *frag)
		}
	}
	return frags, diags, nil
}

// scanFile parses and extracts one file. A nil fragment with nil diagnostic
// means the file was skipped.
func (s *Scanner) scanFile(file File) (*graph.Fragment, *Diagnostic) {
	id, ok := LanguageForPath(file.Path)
	if !ok || (s.allowed != nil && !s.allowed[id]) {
		return nil, nil
	}
	if s.unavailable[id] {
		return nil, nil
	}

	sess, err := s.sessionFor(id)
	if err != nil {
		// Report a missing grammar once, then skip that language's files.
		s.unavailable[id] = true
		return nil, &Diagnostic{File: file.Path, Stage: StageGrammar, Err: err.Error()}
	}

	frag, err := extractSafe(sess, file)
	if err != nil {
		return nil, &Diagnostic{File: file.Path, Stage: StageExtract, Err: err.Error()}
	}
	return frag, nil
}

// extractSafe parses and extracts with panic isolation: a grammar or
// extractor fault in one file must not take down the whole scan.
func extractSafe(sess *session, file File) (frag *graph.Fragment, err error) {
	defer func() {
		if r := recover(); r != nil {
			frag = nil
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()

	tree := sess.parser.Parse(file.Content, nil)
	if tree == nil {
		return nil, fmt.Errorf("parser returned no tree")
	}
	defer tree.Close()

	f := sess.extractor.Extract(tree.RootNode(), file.Content, file.Path)
	return &f, nil
}

func (s *Scanner) sessionFor(id Language) (*session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	spec := specFor(id)
	if spec == nil {
		return nil, fmt.Errorf("lang: unsupported language %q", id)
	}
	lang, backend, err := LoadGrammar(id)
	if err != nil {
		return nil, err
	}
	parser, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	sess := &session{parser: parser, backend: backend, extractor: spec.newExtractor()}
	s.sessions[id] = sess
	return sess, nil
}

// ScanAllParallel scans files across workers goroutines, each with its own
// Scanner because tree-sitter parsers are single-threaded. Fragments and
// diagnostics come back in input file order, so parallel and sequential
// scans of the same tree assemble into identical graphs.
func (s *Scanner) ScanAllParallel(ctx context.Context, files []File, workers int) ([]graph.Fragment, []Diagnostic, error) {
	if workers <= 1 || len(files) <= 1 {
		return s.ScanAll(ctx, files)
	}
	if workers > len(files) {
		workers = len(files)
	}

	var langs []Language
	if s.allowed != nil {
		for _, l := range Supported {
			if s.allowed[l] {
				langs = append(langs, l)
			}
		}
	}

	fragByFile := make([]*graph.Fragment, len(files))
	diagByFile := make([]*Diagnostic, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			worker := NewScanner(langs...)
			defer worker.Close()

			for i := w; i < len(files); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				fragByFile[i], diagByFile[i] = worker.scanFile(files[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var frags []graph.Fragment
	var diags []Diagnostic
	seenGrammar := make(map[string]bool)
	for i := range files {
		if frag := fragByFile[i]; frag != nil {
			frags = append(frags, *frag)
		}
		if diag := diagByFile[i]; diag != nil {
			// Each worker reports a missing grammar independently.
			if diag.Stage == StageGrammar {
				if seenGrammar[diag.Err] {
					continue
				}
				seenGrammar[diag.Err] = true
			}
			log.Printf("skipping %s: %s: %s", diag.File, diag.Stage, diag.Err)
			diags = append(diags, *diag)
		}
	}
	return frags, diags, nil
}
