package soap

import (
	"fmt"
	"sort"
	"strings"
)

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

	// DefaultNamespace is the fixed HRIS service namespace expected by
	// the legacy backend.
	DefaultNamespace = "http://hris.example.com/soap"
)

// escaper rewrites the five XML special characters into entity form.
// Every value interpolated into an envelope must pass through it; an
// unescaped occurrence is a data-integrity defect (malformed XML at best,
// injection at worst).
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Escape entity-escapes a value for interpolation into an envelope.
func Escape(v string) string {
	return escaper.Replace(v)
}

func validMethodName(method string) bool {
	if method == "" {
		return false
	}
	for _, r := range method {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// buildEnvelope renders a method call into the fixed-namespace envelope
// the backend expects. Body and header fields are emitted in sorted key
// order so envelopes are deterministic.
func buildEnvelope(ns, method string, body, headers map[string]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(&b, `<soap:Envelope xmlns:soap=%q xmlns:hris=%q>`, envelopeNS, ns)

	if len(headers) > 0 {
		b.WriteString("<soap:Header>")
		for _, k := range sortedKeys(headers) {
			fmt.Fprintf(&b, "<hris:%s>%s</hris:%s>", k, Escape(headers[k]), k)
		}
		b.WriteString("</soap:Header>")
	}

	b.WriteString("<soap:Body>")
	fmt.Fprintf(&b, "<hris:%s>", method)
	for _, k := range sortedKeys(body) {
		fmt.Fprintf(&b, "<hris:%s>%s</hris:%s>", k, Escape(body[k]), k)
	}
	fmt.Fprintf(&b, "</hris:%s>", method)
	b.WriteString("</soap:Body></soap:Envelope>")

	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
