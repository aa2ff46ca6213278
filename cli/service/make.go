package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/tonkit/tonkit/cli/printer"
	"github.com/tonkit/tonkit/common"
	"github.com/tonkit/tonkit/common/logging"
	"golang.org/x/sync/errgroup"
)

const (
	solExtension = ".sol"
	abiExtension = ".abi.json"
	tvcExtension = ".tvc"
)

type MakeParams struct {
	// Command is the compiler front end executable.
	Command string
	// Root is the directory the entries are relative to.
	Root string
	// Compile lists sources, without extension, to compile and wrap.
	Compile []string
	// Wrap lists compiled artifacts, without extension, to wrap only.
	Wrap     []string
	Compiler string
	Linker   string
	Stdlib   string
	// Package is the Go package of the generated wrappers.
	Package string
	Jobs    int
}

const wrapperTemplate = `// Code generated by tonkit make. DO NOT EDIT.

package {{ .Package }}

import _ "embed"

//go:embed {{ .Name }}.abi.json
var {{ .Ident }}Abi []byte
{{ if .HasTvc }}
//go:embed {{ .Name }}.tvc
var {{ .Ident }}Tvc []byte
{{ end -}}
`

// Make compiles the configured sources and generates Go files embedding the artifacts.
// Finished entries are printed in the configured order.
func (s *Service) Make(ctx context.Context, p MakeParams) error {
	set := []string{"sol", "set"}
	for _, opt := range [][2]string{{"--compiler", p.Compiler}, {"--linker", p.Linker}, {"--stdlib", p.Stdlib}} {
		if opt[1] != "" {
			set = append(set, opt[0], opt[1])
		}
	}
	if len(set) > 2 {
		if _, err := s.exec.Run(ctx, p.Command, set...); err != nil {
			return err
		}
	}

	entries := make([]string, 0, len(p.Compile)+len(p.Wrap))
	entries = append(entries, p.Compile...)
	entries = append(entries, p.Wrap...)
	done := make([]bool, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	jobs := p.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	g.SetLimit(jobs)
	for i, entry := range entries {
		i, entry := i, entry
		compile := i < len(p.Compile)
		g.Go(func() error {
			if compile {
				if err := s.compile(gctx, p, entry); err != nil {
					return err
				}
			}
			if err := s.wrap(p, entry); err != nil {
				return err
			}
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	for i, entry := range entries {
		if done[i] {
			s.printer.Print(printer.Green(entry))
		}
	}
	return err
}

func (s *Service) compile(ctx context.Context, p MakeParams, entry string) error {
	file := filepath.Join(p.Root, entry+solExtension)
	out := filepath.Dir(file)
	s.logger.Debug().Str(logging.FieldFile, file).Msg("Compiling")
	if _, err := s.exec.Run(ctx, p.Command, "sol", "compile", file, "-o", out); err != nil {
		return err
	}
	return nil
}

func (s *Service) wrap(p MakeParams, entry string) error {
	base := filepath.Join(p.Root, entry)
	name := filepath.Base(base)
	if _, err := os.Stat(base + abiExtension); err != nil {
		return fmt.Errorf("cannot wrap %s: %w", entry, err)
	}
	_, err := os.Stat(base + tvcExtension)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	hasTvc := err == nil

	pkg := p.Package
	if pkg == "" {
		pkg = goIdent(filepath.Base(filepath.Dir(base)), false)
	}
	src, err := common.ParseTemplate(wrapperTemplate, map[string]any{
		"Package": pkg,
		"Name":    name,
		"Ident":   goIdent(name, true),
		"HasTvc":  hasTvc,
	})
	if err != nil {
		return err
	}

	target := base + ".go"
	s.logger.Debug().Str(logging.FieldFile, target).Msg("Writing wrapper")
	return os.WriteFile(target, []byte(src), 0o644)
}

// goIdent turns a file name into a Go identifier, optionally exported.
func goIdent(name string, exported bool) string {
	var b strings.Builder
	upper := exported
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = exported
			continue
		}
		if b.Len() == 0 && unicode.IsDigit(r) {
			if exported {
				b.WriteRune('X')
			} else {
				b.WriteRune('x')
			}
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		} else if !exported {
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "contracts"
	}
	return b.String()
}
