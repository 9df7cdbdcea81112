package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"ploy/internal/diag"
	"ploy/internal/project"
	"ploy/internal/source"
	"ploy/internal/symbols"
)

// Current schema version - increment when Artifact format changes.
const artifactSchema uint16 = 1

// Artifact is the serialisable summary of one checked file: what `ploy
// build` writes and what the module cache stores. Spans are byte offsets
// without a file id; Replay rebinds them.
type Artifact struct {
	Schema uint16
	Path   string
	Hash   project.Digest

	Tokens int
	Nodes  int
	Broken bool

	Scopes      []ArtifactScope
	Symbols     []ArtifactSymbol
	Diagnostics []ArtifactDiag
}

type ArtifactScope struct {
	ID     uint32
	Parent uint32
	FQN    string
}

type ArtifactSymbol struct {
	FQN   string
	Scope uint32
	Decl  uint32
	Value string // "" when no compile-time value is known
}

type ArtifactDiag struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []ArtifactNote
}

type ArtifactNote struct {
	Start, End uint32
	Message    string
}

// NewArtifact summarises res. Symbols and scopes are present only when
// lowering succeeded.
func NewArtifact(res *CheckResult) *Artifact {
	a := &Artifact{
		Schema: artifactSchema,
		Path:   res.Path,
		Hash:   res.Hash,
		Tokens: len(res.Tokens),
		Broken: res.Failed(),
	}
	if res.Tree != nil {
		a.Nodes = res.Tree.Len()
	}
	if res.Module != nil {
		syms := res.Module.Symbols
		syms.Walk(func(s *symbols.Table, _ int) bool {
			a.Scopes = append(a.Scopes, ArtifactScope{ID: uint32(s.ID), Parent: uint32(s.Parent), FQN: s.FQN})
			for _, id := range s.Symbols() {
				info, ok := syms.SymbolInfo(symbols.Ref{Scope: s.ID, Symbol: id})
				if !ok {
					continue
				}
				sym := ArtifactSymbol{FQN: info.FQN, Scope: uint32(s.ID), Decl: info.Decl}
				if info.Value != nil {
					sym.Value = info.Value.String()
				}
				a.Symbols = append(a.Symbols, sym)
			}
			return true
		})
	}
	for _, d := range res.Bag.Items() {
		ad := ArtifactDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			ad.Notes = append(ad.Notes, ArtifactNote{Start: n.Span.Start, End: n.Span.End, Message: n.Msg})
		}
		a.Diagnostics = append(a.Diagnostics, ad)
	}
	return a
}

// Replay re-reports the stored diagnostics against file.
func (a *Artifact) Replay(file source.FileID, r diag.Reporter) {
	for _, d := range a.Diagnostics {
		notes := make([]diag.Note, 0, len(d.Notes))
		for _, n := range d.Notes {
			notes = append(notes, diag.Note{Span: source.Span{File: file, Start: n.Start, End: n.End}, Msg: n.Message})
		}
		r.Report(diag.Code(d.Code), diag.Severity(d.Severity),
			source.Span{File: file, Start: d.Start, End: d.End}, d.Message, notes)
	}
}

// Encode writes a as msgpack.
func (a *Artifact) Encode(w io.Writer) error {
	return msgpack.NewEncoder(w).Encode(a)
}

// DecodeArtifact reads one artifact and checks its schema.
func DecodeArtifact(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := msgpack.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Schema != artifactSchema {
		return nil, fmt.Errorf("decode artifact: %w: schema %d, want %d", ErrStaleArtifact, a.Schema, artifactSchema)
	}
	return &a, nil
}

// WriteArtifact atomically writes a to path.
func WriteArtifact(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := a.Encode(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadArtifact loads an artifact written by WriteArtifact.
func ReadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeArtifact(f)
}
