// Package batch applies root note edits and template renames to many WAV
// files, one file at a time.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"golang.org/x/text/unicode/norm"

	"github.com/ankit-chaubey/smplinfo/core"
	"github.com/ankit-chaubey/smplinfo/core/audio"
	"github.com/ankit-chaubey/smplinfo/core/midi"
	"github.com/ankit-chaubey/smplinfo/core/wav"
)

// Errors.
var (
	ErrTargetExists = errors.New("batch: rename target already exists")
	ErrBadName      = errors.New("batch: rendered name is not a plain file name")
)

// Processor runs a batch edit. It holds no per-file state and processes
// files sequentially.
type Processor struct {
	fs   afero.Fs
	opts core.EditOptions
}

// New returns a Processor operating on fs.
func New(fs afero.Fs, opts core.EditOptions) *Processor {
	if len(opts.Extensions) == 0 {
		opts.Extensions = core.DefaultExtensions
	}
	return &Processor{fs: fs, opts: opts}
}

// Run expands every input and processes the resulting files, passing each
// result to report. Failures do not stop the run; they are combined into
// the returned error.
func (p *Processor) Run(inputs []string, report func(*core.Result)) error {
	var errs error
	for _, in := range inputs {
		files, err := p.expand(in)
		if err != nil {
			r := core.Result{Path: in, Err: err}
			report(&r)
			errs = multierr.Append(errs, err)
			continue
		}
		for _, path := range files {
			r := p.Process(path)
			report(&r)
			errs = multierr.Append(errs, r.Err)
		}
	}
	return errs
}

// Expand resolves inputs to the list of files a run would process.
func (p *Processor) Expand(inputs []string) ([]string, error) {
	var (
		files []string
		errs  error
	)
	for _, in := range inputs {
		found, err := p.expand(in)
		errs = multierr.Append(errs, err)
		files = append(files, found...)
	}
	return files, errs
}

// expand returns path itself for files, and the WAV files below path for
// directories.
func (p *Processor) expand(path string) ([]string, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = afero.Walk(p.fs, path, func(sub string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if sub != path && !p.opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if p.isSample(sub) {
			files = append(files, sub)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return files, nil
}

func (p *Processor) isSample(path string) bool {
	if core.HasExtension(path, p.opts.Extensions) {
		return true
	}
	id, err := core.DetectFormat(p.fs, path)
	return err == nil && id == core.FmtWAV
}

// Process inspects one file and applies the configured edits.
func (p *Processor) Process(path string) core.Result {
	r := core.Result{Path: path, DryRun: p.opts.DryRun}
	if err := p.process(path, &r); err != nil {
		r.Err = fmt.Errorf("%s: %w", path, err)
	}
	return r
}

func (p *Processor) process(path string, r *core.Result) error {
	if err := p.inspectAndUpdate(path, r); err != nil {
		return err
	}
	// The file is closed at this point.
	return p.rename(path, r)
}

// targetNote decides the note to write, if any.
func (p *Processor) targetNote(path string, r *core.Result) (*midi.Note, core.NoteSource) {
	if p.opts.Note != nil {
		n := *p.opts.Note
		return &n, core.SourceArgument
	}
	if p.opts.NoteFromFilename {
		if n, ok := midi.FromFilename(path); ok {
			return &n, core.SourceFilename
		}
		r.Notes = append(r.Notes, "no unambiguous note in file name")
	}
	return nil, core.SourceNone
}

func (p *Processor) inspectAndUpdate(path string, r *core.Result) (err error) {
	target, source := p.targetNote(path, r)
	writeInPlace := target != nil && !p.opts.DryRun && !p.opts.Atomic

	flag := os.O_RDONLY
	if writeInPlace {
		flag = os.O_RDWR
	}
	f, err := p.fs.OpenFile(path, flag, 0)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			err = multierr.Append(err, f.Close())
		}
	}()

	w, err := wav.New(f)
	if err != nil {
		return err
	}

	chunk, err := w.SamplerChunk()
	if err != nil {
		return err
	}
	if chunk != nil {
		n := chunk.UnityNote()
		r.OldNote = &n
		r.Notes = append(r.Notes, fmt.Sprintf("smpl: manufacturer %#08x, product %#x, period %dns, %d loops",
			chunk.Manufacturer(), chunk.Product(), chunk.SamplePeriod(), chunk.NumLoops()))
	}

	if tags, err := audio.ReadTags(w.Container()); err != nil {
		r.Notes = append(r.Notes, "tags: "+err.Error())
	} else if len(tags.Fields) > 0 {
		r.Tags = tags
	}

	if target == nil {
		return nil
	}
	if r.OldNote != nil && *r.OldNote == *target {
		r.Notes = append(r.Notes, "root note already "+target.String())
		return nil
	}

	r.NewNote = target
	r.Source = source
	if p.opts.DryRun {
		r.Updated = true
		return nil
	}

	set := func(c *wav.SamplerChunk) { c.SetUnityNote(*target) }
	if p.opts.Atomic {
		closed = true
		if err := f.Close(); err != nil {
			return err
		}
		err = p.updateAtomic(path, set)
	} else {
		err = w.UpdateSamplerChunk(set)
	}
	if err != nil {
		return err
	}
	r.Updated = true
	return nil
}

// updateAtomic edits a temporary copy of path in the same directory and
// renames it over the original.
func (p *Processor) updateAtomic(path string, fn func(*wav.SamplerChunk)) (err error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := afero.TempFile(p.fs, filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = p.fs.Remove(tmpName)
		}
	}()

	src, err := p.fs.Open(path)
	if err != nil {
		return err
	}
	_, err = io.Copy(tmp, src)
	src.Close()
	if err != nil {
		return fmt.Errorf("copy to %s: %w", tmpName, err)
	}

	w, err := wav.New(tmp)
	if err != nil {
		return err
	}
	if err = w.UpdateSamplerChunk(fn); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = p.fs.Chmod(tmpName, info.Mode().Perm()); err != nil {
		return err
	}
	return p.fs.Rename(tmpName, path)
}

// rename moves path to the name rendered from the template, keeping the
// directory and extension.
func (p *Processor) rename(path string, r *core.Result) error {
	if p.opts.Template == nil {
		return nil
	}

	stem := p.opts.Template.Render(r.Note())
	if stem == "" {
		r.Notes = append(r.Notes, "template rendered an empty name, not renamed")
		return nil
	}
	if strings.ContainsAny(stem, `/\`) || stem == "." || stem == ".." {
		return fmt.Errorf("%w: %q", ErrBadName, stem)
	}

	base := filepath.Base(path)
	newBase := stem + filepath.Ext(base)
	if norm.NFC.String(newBase) == norm.NFC.String(base) {
		return nil
	}

	newPath := filepath.Join(filepath.Dir(path), newBase)
	exists, err := afero.Exists(p.fs, newPath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTargetExists, newPath)
	}

	r.NewPath = newPath
	r.Renamed = true
	if p.opts.DryRun {
		return nil
	}
	if err := p.fs.Rename(path, newPath); err != nil {
		r.Renamed = false
		return err
	}
	return nil
}
