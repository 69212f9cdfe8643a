// Package streams provides IOStreams adapters for the layerconf Loader. The
// Loader writes one line per notice ("config: loaded from ...") to Out and
// warnings to ErrOut; the adapters here route those lines to the terminal,
// memory buffers, io.Discard, or a structured logger (slog or zerolog).
package streams

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"
)

// IOStreams is the contract the Loader depends on. Any type with these
// methods can be passed to layerconf.WithStreams.
type IOStreams interface {
	In() io.Reader
	Out() io.Writer
	ErrOut() io.Writer
}

// BasicIOStreams forwards writes to the supplied io.Writer targets. Use the
// helpers DefaultIOStreams, Writers, Discard, Slog and Zerolog to construct values.
type BasicIOStreams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func (s BasicIOStreams) In() io.Reader     { return s.in }
func (s BasicIOStreams) Out() io.Writer    { return s.out }
func (s BasicIOStreams) ErrOut() io.Writer { return s.errOut }

// DefaultIOStreams returns a BasicIOStreams backed by os.Stdin, os.Stdout and os.Stderr.
func DefaultIOStreams() BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// Writers returns a BasicIOStreams that writes Out to `out` and ErrOut to `err`.
// In is set to os.Stdin.
func Writers(out, err io.Writer) BasicIOStreams {
	return BasicIOStreams{in: os.Stdin, out: out, errOut: err}
}

// Discard returns a BasicIOStreams that drops all output.
func Discard() BasicIOStreams {
	return Writers(io.Discard, io.Discard)
}

// BuffersStreams captures output into bytes.Buffers so notices can be
// inspected after Load returns. Not safe for concurrent writers.
type BuffersStreams struct {
	InR    io.Reader
	OutBuf *bytes.Buffer
	ErrBuf *bytes.Buffer
}

// Buffers creates a new BuffersStreams with fresh buffers for Out and ErrOut.
func Buffers() *BuffersStreams {
	return &BuffersStreams{
		InR:    os.Stdin,
		OutBuf: &bytes.Buffer{},
		ErrBuf: &bytes.Buffer{},
	}
}
func (b *BuffersStreams) In() io.Reader     { return b.InR }
func (b *BuffersStreams) Out() io.Writer    { return b.OutBuf }
func (b *BuffersStreams) ErrOut() io.Writer { return b.ErrBuf }

// Strings returns the current contents of the Out and ErrOut buffers as strings.
func (b *BuffersStreams) Strings() (out, err string) {
	return b.OutBuf.String(), b.ErrBuf.String()
}

// Reset clears both Out and ErrOut buffers.
func (b *BuffersStreams) Reset() {
	b.OutBuf.Reset()
	b.ErrBuf.Reset()
}

// trimNewline drops one trailing newline so each Write becomes one record.
func trimNewline(p []byte) string {
	if n := len(p); n > 0 && p[n-1] == '\n' {
		p = p[:n-1]
	}
	return string(p)
}

type slogWriter struct {
	l     *slog.Logger
	level slog.Level
}

func (w slogWriter) Write(p []byte) (int, error) {
	w.l.Log(context.Background(), w.level, trimNewline(p))
	return len(p), nil
}

// Slog returns a BasicIOStreams that writes Loader messages to a slog.Logger.
// Info-level messages are written at `info`, warnings at `err`.
func Slog(l *slog.Logger, info, err slog.Level) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    slogWriter{l: l, level: info},
		errOut: slogWriter{l: l, level: err},
	}
}

type zerologWriter struct {
	l     zerolog.Logger
	level zerolog.Level
}

func (w zerologWriter) Write(p []byte) (int, error) {
	w.l.WithLevel(w.level).Msg(trimNewline(p))
	return len(p), nil
}

// Zerolog returns a BasicIOStreams that writes Loader messages as zerolog
// events, Out at level `info` and ErrOut at level `err`.
func Zerolog(l zerolog.Logger, info, err zerolog.Level) BasicIOStreams {
	return BasicIOStreams{
		in:     os.Stdin,
		out:    zerologWriter{l: l, level: info},
		errOut: zerologWriter{l: l, level: err},
	}
}
