package tap

import (
	"fmt"

	"github.com/reqtap/reqtap/pkg/correlation"
	"github.com/reqtap/reqtap/pkg/diag"
	"github.com/reqtap/reqtap/pkg/mask"
	"github.com/reqtap/reqtap/pkg/severity"
	"github.com/reqtap/reqtap/pkg/sink"
)

// Mode controls whether a facet of the exchange is captured.
type Mode int

const (
	// LogAll captures the facet on every request.
	LogAll Mode = iota

	// LogFailures captures the facet only when the exchange failed
	// (status >= 400 or a fault).
	LogFailures

	// LogNone never captures the facet.
	LogNone
)

// String returns the config-file name of the mode.
func (m Mode) String() string {
	switch m {
	case LogFailures:
		return "failures"
	case LogNone:
		return "none"
	default:
		return "all"
	}
}

// ParseMode maps a config-file name to a Mode. The empty string means
// LogAll.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "all":
		return LogAll, nil
	case "failures":
		return LogFailures, nil
	case "none":
		return LogNone, nil
	default:
		return LogAll, fmt.Errorf("tap: unknown logging mode %q", s)
	}
}

func (m Mode) valid() bool {
	return m >= LogAll && m <= LogNone
}

// captures reports whether the facet is included for an exchange with the
// given outcome.
func (m Mode) captures(succeeded bool) bool {
	switch m {
	case LogAll:
		return true
	case LogFailures:
		return !succeeded
	default:
		return false
	}
}

// MessageBuilder renders the summary line of a record and may contribute
// extra top-level fields.
type MessageBuilder func(rc *RequestContext) (message string, extra map[string]any)

// Enricher adds properties to a record's diagnostics bag from the live
// request context. Enrichers run in registration order; a panicking enricher
// is reported to diagnostics and skipped without affecting the others.
type Enricher func(props map[string]any, rc *RequestContext)

// Options configures the interceptor. The struct is validated once by New
// and must not be mutated afterwards.
type Options struct {
	// LogMode gates the record as a whole.
	LogMode Mode

	// Per-facet capture modes, additionally gated by the exchange outcome.
	RequestHeaderMode  Mode
	RequestBodyMode    Mode
	ResponseHeaderMode Mode
	ResponseBodyMode   Mode

	// MaskedFields are wildcard patterns matched case-insensitively against
	// field keys; `*` matches any run of characters.
	MaskedFields []string

	// MaskToken replaces masked values. Defaults to mask.DefaultToken.
	MaskToken string

	// Body text limits in characters; zero or less means unlimited.
	// Masking is applied before truncation.
	RequestBodyLimit  int
	ResponseBodyLimit int

	// Structured*Body attempts to parse the captured body as JSON so masking
	// applies field by field and the record carries a structured attachment.
	StructuredRequestBody  bool
	StructuredResponseBody bool

	// IncludeQueryInPath appends the query string to the logged path.
	IncludeQueryInPath bool

	// MaskQuery applies the mask patterns to query values, matching header
	// treatment.
	MaskQuery bool

	// CorrelationHeader is the inbound header carrying an existing
	// correlation id. Defaults to correlation.DefaultHeader.
	CorrelationHeader string

	// EchoCorrelationHeader writes the id back onto the response.
	EchoCorrelationHeader bool

	// Severity decides the record's level. Defaults to severity.Default.
	Severity severity.Policy

	// MessageBuilder renders the summary line. Defaults to DefaultMessage.
	MessageBuilder MessageBuilder

	// Sink receives the records. Required.
	Sink sink.Sink

	// Enrichers add properties to the record's diagnostics bag.
	Enrichers []Enricher

	// Diagnostics receives the subsystem's own failure reports. Defaults to
	// a discarding reporter.
	Diagnostics diag.Reporter
}

// DefaultOptions returns the recommended configuration: capture everything,
// mask the default credential patterns, treat query values like headers, and
// echo the correlation id. The Sink must still be supplied.
func DefaultOptions() Options {
	return Options{
		LogMode:                LogAll,
		RequestHeaderMode:      LogAll,
		RequestBodyMode:        LogAll,
		ResponseHeaderMode:     LogAll,
		ResponseBodyMode:       LogAll,
		MaskedFields:           append([]string(nil), mask.DefaultPatterns...),
		MaskToken:              mask.DefaultToken,
		RequestBodyLimit:       4096,
		ResponseBodyLimit:      4096,
		StructuredRequestBody:  true,
		StructuredResponseBody: true,
		MaskQuery:              true,
		CorrelationHeader:      correlation.DefaultHeader,
		EchoCorrelationHeader:  true,
		Severity:               severity.Default,
	}
}

func (o *Options) validate() error {
	if o.Sink == nil {
		return fmt.Errorf("tap: a sink is required")
	}
	for name, m := range map[string]Mode{
		"logMode":            o.LogMode,
		"requestHeaderMode":  o.RequestHeaderMode,
		"requestBodyMode":    o.RequestBodyMode,
		"responseHeaderMode": o.ResponseHeaderMode,
		"responseBodyMode":   o.ResponseBodyMode,
	} {
		if !m.valid() {
			return fmt.Errorf("tap: invalid %s %d", name, m)
		}
	}
	return nil
}
