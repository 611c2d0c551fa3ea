package openapi

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/erraggy/restspec/internal/ordered"
)

// MarshalJSON writes the paths as an object in slice order.
func (p Paths) MarshalJSON() ([]byte, error) {
	members := make([]ordered.Member, 0, len(p))
	for _, e := range p {
		members = append(members, ordered.Member{Key: e.Path, Value: e.Item})
	}
	return ordered.MarshalObject(members)
}

// UnmarshalJSON reads the paths keeping their document order.
func (p *Paths) UnmarshalJSON(data []byte) error {
	*p = nil
	return ordered.DecodeObject(data, func(key string, dec *json.Decoder) error {
		item := new(PathItem)
		if err := dec.Decode(item); err != nil {
			return fmt.Errorf("path %s: %w", key, err)
		}
		*p = append(*p, PathEntry{Path: key, Item: item})
		return nil
	})
}

// MarshalJSON writes the responses as an object keyed by status code.
func (r Responses) MarshalJSON() ([]byte, error) {
	members := make([]ordered.Member, 0, len(r))
	for _, e := range r {
		members = append(members, ordered.Member{Key: strconv.Itoa(e.Status), Value: e.Response})
	}
	return ordered.MarshalObject(members)
}

// UnmarshalJSON reads the responses keeping their document order.
func (r *Responses) UnmarshalJSON(data []byte) error {
	*r = nil
	return ordered.DecodeObject(data, func(key string, dec *json.Decoder) error {
		status, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("invalid status code %q", key)
		}
		resp := new(Response)
		if err := dec.Decode(resp); err != nil {
			return fmt.Errorf("response %d: %w", status, err)
		}
		*r = append(*r, ResponseEntry{Status: status, Response: resp})
		return nil
	})
}
