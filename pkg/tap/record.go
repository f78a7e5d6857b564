package tap

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/reqtap/reqtap/pkg/capture"
	"github.com/reqtap/reqtap/pkg/extract"
	"github.com/reqtap/reqtap/pkg/mask"
)

// buildFields assembles the structured payload of a record: request and
// response snapshots gated per facet, the correlation id, the event
// fingerprint, and the enricher property bag.
func (m *Middleware) buildFields(rc *RequestContext, reqBody, respBody []byte, respHeader http.Header, succeeded bool) map[string]any {
	r := rc.Request

	path := r.URL.Path
	if m.opts.IncludeQueryInPath && r.URL.RawQuery != "" {
		path = path + "?" + r.URL.RawQuery
	}

	req := map[string]any{
		"clientIp": extract.ClientIP(r),
		"method":   r.Method,
		"scheme":   requestScheme(r),
		"host":     r.Host,
		"path":     path,
	}
	if r.URL.RawQuery != "" {
		req["queryString"] = r.URL.RawQuery
		if q := extract.Query(r.URL.RawQuery, m.masks, m.opts.MaskToken, m.opts.MaskQuery); q != nil {
			req["query"] = q
		}
	}
	if m.opts.RequestHeaderMode.captures(succeeded) {
		if h := extract.Flatten(r.Header, m.masks, m.opts.MaskToken); h != nil {
			req["headers"] = h
		}
	}
	if m.opts.RequestBodyMode.captures(succeeded) {
		rc.RequestBodyText = m.attachBody(req, reqBody, m.opts.StructuredRequestBody, m.opts.RequestBodyLimit)
	}
	if raw := r.UserAgent(); raw != "" {
		info, recognized := extract.UserAgent(raw)
		if !recognized {
			m.opts.Diagnostics.Report("unrecognized user agent: %q", raw)
		}
		req["userAgent"] = info
	}

	resp := map[string]any{
		"statusCode":          rc.StatusCode,
		"isSucceeded":         succeeded,
		"elapsedMilliseconds": rc.Elapsed.Milliseconds(),
	}
	if m.opts.ResponseHeaderMode.captures(succeeded) {
		if h := extract.Flatten(respHeader, m.masks, m.opts.MaskToken); h != nil {
			resp["headers"] = h
		}
	}
	if m.opts.ResponseBodyMode.captures(succeeded) {
		rc.ResponseBodyText = m.attachBody(resp, respBody, m.opts.StructuredResponseBody, m.opts.ResponseBodyLimit)
	}

	fields := map[string]any{
		"request":       req,
		"response":      resp,
		"correlationId": rc.CorrelationID,
		"eventId":       fingerprint(r.Method, r.URL.Path, rc.StatusCode),
	}

	if len(m.opts.Enrichers) > 0 {
		props := make(map[string]any)
		for i, enrich := range m.opts.Enrichers {
			m.runEnricher(i, enrich, props, rc)
		}
		if len(props) > 0 {
			fields["diagnostics"] = props
		}
	}
	return fields
}

// attachBody decodes, masks, and truncates one body facet. Structured
// attachment requires a parseable JSON document; on parse failure the record
// falls back to text only, never an unmasked structured attachment. The
// emitted text form is returned for the RequestContext.
func (m *Middleware) attachBody(target map[string]any, data []byte, structured bool, limit int) string {
	text, ok := capture.Text(data)
	if !ok {
		if len(data) > 0 {
			m.opts.Diagnostics.Report("non-text body of %d bytes not captured", len(data))
		}
		return ""
	}
	if structured {
		if doc, parsed := mask.ParseDocument(text); parsed {
			masked := mask.Document(doc, m.masks, m.opts.MaskToken)
			target["body"] = masked
			if rendered, rok := mask.Render(masked); rok {
				text = rendered
			}
		} else {
			m.opts.Diagnostics.Report("body not maskable as structure; keeping text only")
		}
	}
	text = capture.Truncate(text, limit)
	target["bodyString"] = text
	return text
}

func (m *Middleware) runEnricher(i int, enrich Enricher, props map[string]any, rc *RequestContext) {
	defer func() {
		if p := recover(); p != nil {
			m.opts.Diagnostics.Report("enricher %d panicked: %v", i, p)
		}
	}()
	enrich(props, rc)
}

func requestScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// fingerprint produces a stable event id from the request shape and status
// class, so identical endpoints aggregate in downstream queries.
func fingerprint(method, path string, status int) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s %s %d", method, path, status/100)
	return fmt.Sprintf("%016x", h.Sum64())
}
