package ecsv

import (
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/stellarkit/ecsv/internal/logging"
)

// Option configures a read.
type Option func(*options)

type options struct {
	missing          string
	alloc            memory.Allocator
	maxParallel      int
	warnHandler      func(Warning)
	warnCh           chan<- Warning
	comment          rune
	lazyQuotes       bool
	trimLeadingSpace bool
}

func newOptions(opts []Option) *options {
	o := &options{comment: '#'}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// warn delivers a warning to the configured channel (non-blocking) and
// handler. Without a handler, warnings are logged.
func (o *options) warn(w Warning) {
	if o.warnCh != nil {
		select {
		case o.warnCh <- w:
		default:
		}
	}
	if o.warnHandler != nil {
		o.warnHandler(w)
		return
	}
	logging.UnitWarning(w.Column, w.Unit, w.Message)
}

// WithWarningHandler sets a callback invoked for every recovered unit
// warning, replacing the default log output.
func WithWarningHandler(fn func(Warning)) Option {
	return func(o *options) { o.warnHandler = fn }
}

// WithWarningChannel delivers warnings to ch with a non-blocking send;
// warnings are dropped if the channel is full.
func WithWarningChannel(ch chan<- Warning) Option {
	return func(o *options) { o.warnCh = ch }
}

// WithMissingMarker overrides the token that marks a missing value. The
// default is the empty string.
func WithMissingMarker(marker string) Option {
	return func(o *options) { o.missing = marker }
}

// WithAllocator sets the Arrow allocator used for column storage.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) { o.alloc = mem }
}

// WithMaxParallel bounds how many columns convert concurrently.
func WithMaxParallel(n int) Option {
	return func(o *options) { o.maxParallel = n }
}

// WithLazyQuotes relaxes the tokenizer's quote handling for producers
// that emit stray quotes inside fields.
func WithLazyQuotes() Option {
	return func(o *options) { o.lazyQuotes = true }
}

// WithTrimLeadingSpace makes the tokenizer ignore leading whitespace in
// fields.
func WithTrimLeadingSpace() Option {
	return func(o *options) { o.trimLeadingSpace = true }
}
