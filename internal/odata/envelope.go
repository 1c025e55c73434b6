package odata

import (
	"context"
	"fmt"
	"strconv"
)

// OData v2 wraps collections as {"d":{"results":[...]}} and single entities as
// {"d":{...}}. __count is present when $inlinecount=allpages was requested and
// arrives as a decimal string.

type listEnvelope[T any] struct {
	D struct {
		Results []T    `json:"results"`
		Count   string `json:"__count"`
	} `json:"d"`
}

type entityEnvelope[T any] struct {
	D T `json:"d"`
}

// List fetches a collection resource and unwraps the envelope. A response
// without a results array yields an empty slice, not an error.
func List[T any](ctx context.Context, c *Client, resource string, q Query) ([]T, error) {
	body, err := c.GetJSON(ctx, resource, q)
	if err != nil {
		return nil, err
	}
	var env listEnvelope[T]
	if err := decode(body, &env); err != nil {
		return nil, err
	}
	if env.D.Results == nil {
		return []T{}, nil
	}
	return env.D.Results, nil
}

// Entity fetches a single-entity path and unwraps the d member.
func Entity[T any](ctx context.Context, c *Client, path string, q Query) (T, error) {
	var env entityEnvelope[T]
	body, err := c.GetJSON(ctx, path, q)
	if err != nil {
		return env.D, err
	}
	if err := decode(body, &env); err != nil {
		return env.D, err
	}
	return env.D, nil
}

// Count runs a $top=0 inline-count query and returns the collection total.
func Count(ctx context.Context, c *Client, resource string, q Query) (int, error) {
	body, err := c.GetJSON(ctx, resource, q.Top(0).CountAll())
	if err != nil {
		return 0, err
	}
	var env listEnvelope[struct{}]
	if err := decode(body, &env); err != nil {
		return 0, err
	}
	if env.D.Count == "" {
		return 0, &ParseError{Err: fmt.Errorf("missing __count in response")}
	}
	n, err := strconv.Atoi(env.D.Count)
	if err != nil {
		return 0, &ParseError{Err: fmt.Errorf("invalid __count %q", env.D.Count)}
	}
	return n, nil
}
