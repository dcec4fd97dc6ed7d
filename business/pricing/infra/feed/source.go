// Package feed replays scan ticks from JSON lines or multi-document YAML.
package feed

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fd1az/arbscan/business/pricing/app"
	"github.com/fd1az/arbscan/business/pricing/domain"
	"github.com/fd1az/arbscan/business/pricing/infra/aggregator"
	"github.com/fd1az/arbscan/internal/apperror"
	"github.com/fd1az/arbscan/internal/logger"
)

// Formats
const (
	FormatAuto  = ""
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
)

const maxLineBytes = 4 << 20

// Config configures a Source.
type Config struct {
	Path     string        // file path, "-" for stdin
	Format   string        // FormatAuto picks by extension
	Interval time.Duration // pause between ticks, 0 for none
}

// Source is a TickSource backed by a file or stdin.
type Source struct {
	cfg        Config
	normalizer *aggregator.Normalizer
	logger     logger.LoggerInterface
	stdin      io.Reader
	now        func() time.Time

	ok      atomic.Int64
	skipped atomic.Int64
}

var (
	_ app.TickSource = (*Source)(nil)
	_ app.Progress   = (*Source)(nil)
)

// NewSource creates a Source.
func NewSource(cfg Config, normalizer *aggregator.Normalizer, log logger.LoggerInterface) *Source {
	return &Source{
		cfg:        cfg,
		normalizer: normalizer,
		logger:     log,
		stdin:      os.Stdin,
		now:        time.Now,
	}
}

// Processed returns how many ticks were emitted and skipped so far.
func (s *Source) Processed() (ok, skipped int64) {
	return s.ok.Load(), s.skipped.Load()
}

// Stream decodes the feed and sends ticks on out. Malformed entries are logged
// and skipped; only I/O failures end the stream with an error.
func (s *Source) Stream(ctx context.Context, out chan<- domain.Tick) error {
	r, closeFn, err := s.open()
	if err != nil {
		return err
	}
	defer closeFn()

	emit := s.emitter(ctx, out)

	switch s.format() {
	case FormatYAML:
		return s.streamYAML(ctx, r, emit)
	default:
		return s.streamJSONL(ctx, r, emit)
	}
}

func (s *Source) open() (io.Reader, func(), error) {
	if s.cfg.Path == "" {
		return nil, nil, apperror.New(apperror.CodeFeedOpenFailed, apperror.WithContext("no feed path configured"))
	}
	if s.cfg.Path == "-" {
		return s.stdin, func() {}, nil
	}
	f, err := os.Open(s.cfg.Path)
	if err != nil {
		return nil, nil, apperror.New(apperror.CodeFeedOpenFailed, apperror.WithContext(s.cfg.Path), apperror.WithCause(err))
	}
	return f, func() { _ = f.Close() }, nil
}

func (s *Source) format() string {
	if s.cfg.Format != FormatAuto {
		return strings.ToLower(s.cfg.Format)
	}
	switch strings.ToLower(filepath.Ext(s.cfg.Path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONL
	}
}

type emitFn func(w wireTick, pos string) error

func (s *Source) emitter(ctx context.Context, out chan<- domain.Tick) emitFn {
	first := true
	return func(w wireTick, pos string) error {
		tick, err := w.toDomain(s.normalizer, s.now())
		if err != nil {
			s.skip(ctx, pos, err)
			return nil
		}
		if tick.ID == "" {
			tick.ID = pos
		}

		if !first && s.cfg.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.cfg.Interval):
			}
		}
		first = false

		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- tick:
			s.ok.Add(1)
			return nil
		}
	}
}

func (s *Source) skip(ctx context.Context, pos string, err error) {
	s.skipped.Add(1)
	s.logger.Warn(ctx, "skipping feed entry", "position", pos,
		"error", apperror.New(apperror.CodeFeedDecodeFailed, apperror.WithCause(err)))
}

func (s *Source) streamJSONL(ctx context.Context, r io.Reader, emit emitFn) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}
		pos := fmt.Sprintf("line-%d", line)

		var w wireTick
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&w); err != nil {
			s.skip(ctx, pos, err)
			continue
		}
		if err := emit(w, pos); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return apperror.New(apperror.CodeFeedDecodeFailed, apperror.WithContext(s.cfg.Path), apperror.WithCause(err))
	}
	return nil
}

func (s *Source) streamYAML(ctx context.Context, r io.Reader, emit emitFn) error {
	dec := yaml.NewDecoder(r)
	for doc := 1; ; doc++ {
		var w wireTick
		err := dec.Decode(&w)
		if errors.Is(err, io.EOF) {
			return nil
		}
		pos := fmt.Sprintf("doc-%d", doc)
		if err != nil {
			// a syntax error leaves the decoder unusable
			var typeErr *yaml.TypeError
			if errors.As(err, &typeErr) {
				s.skip(ctx, pos, err)
				continue
			}
			return apperror.New(apperror.CodeFeedDecodeFailed, apperror.WithContext(pos), apperror.WithCause(err))
		}
		if err := emit(w, pos); err != nil {
			return err
		}
	}
}
