// Package odata implements the OData v2 access layer for the SAP backend:
// query construction, authenticated requests and envelope unwrapping.
package odata

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Query assembles OData v2 system query options. The zero value is usable.
// Filter clauses keep insertion order so built URLs are stable.
type Query struct {
	clauses  []string
	top      int
	hasTop   bool
	skip     int
	hasSkip  bool
	expand   string
	selects  []string
	countAll bool
}

// Eq appends an exact-match filter clause. Empty values are skipped so absent
// filter fields never reach the wire as empty-string equality.
func (q Query) Eq(field, value string) Query {
	if value == "" {
		return q
	}
	q.clauses = append(q.clauses, fmt.Sprintf("%s eq '%s'", field, escapeValue(value)))
	return q
}

// Top sets $top.
func (q Query) Top(n int) Query {
	q.top = n
	q.hasTop = true
	return q
}

// Skip sets $skip.
func (q Query) Skip(n int) Query {
	q.skip = n
	q.hasSkip = true
	return q
}

// Expand sets $expand to the given navigation property.
func (q Query) Expand(rel string) Query {
	q.expand = rel
	return q
}

// Select restricts the returned fields via $select.
func (q Query) Select(fields ...string) Query {
	q.selects = append(q.selects, fields...)
	return q
}

// CountAll requests $inlinecount=allpages so the envelope carries a total.
func (q Query) CountAll() Query {
	q.countAll = true
	return q
}

// Values renders the query options, always including $format=json and the
// fixed sap-client parameter.
func (q Query) Values(sapClient string) url.Values {
	v := url.Values{}
	if len(q.clauses) > 0 {
		v.Set("$filter", strings.Join(q.clauses, " and "))
	}
	if q.hasTop {
		v.Set("$top", strconv.Itoa(q.top))
	}
	if q.hasSkip {
		v.Set("$skip", strconv.Itoa(q.skip))
	}
	if q.expand != "" {
		v.Set("$expand", q.expand)
	}
	if len(q.selects) > 0 {
		v.Set("$select", strings.Join(q.selects, ","))
	}
	if q.countAll {
		v.Set("$inlinecount", "allpages")
	}
	v.Set("$format", "json")
	if sapClient != "" {
		v.Set("sap-client", sapClient)
	}
	return v
}

// Encode returns the URL-encoded query string.
func (q Query) Encode(sapClient string) string {
	return q.Values(sapClient).Encode()
}

// EntityKey builds a single-entity path segment such as PO_header('4500000045').
func EntityKey(resource, id string) string {
	return fmt.Sprintf("%s('%s')", resource, escapeValue(id))
}

// escapeValue doubles embedded single quotes per the OData v2 literal
// convention, closing the injection gap of naive interpolation.
func escapeValue(v string) string {
	return strings.ReplaceAll(v, "'", "''")
}
