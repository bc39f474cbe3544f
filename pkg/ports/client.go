package ports

import (
	"context"
	"encoding/json"
	"fmt"
)

// Response is the result of a REST call.
type Response struct {
	Status int
	Data   json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Client is the REST collaborator used by thunks. Reducers never see it.
// Implementations return an error for transport failures and non-2xx statuses.
type Client interface {
	Get(ctx context.Context, path string) (*Response, error)
	Post(ctx context.Context, path string, body any) (*Response, error)
	Patch(ctx context.Context, path string, body any) (*Response, error)
}
