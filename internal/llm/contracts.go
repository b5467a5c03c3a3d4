package llm

import "context"

// InvokeRequest is one visual unit sent to the model: a decoded bitmap
// plus a fixed instruction prompt.
type InvokeRequest struct {
	Image    []byte
	MIMEType string
	Prompt   string
}

// Invoker is the interface the extraction pipeline depends on. Failures
// of the underlying call surface as common.ErrTransport so callers can
// apply the per-unit skip policy.
type Invoker interface {
	Invoke(ctx context.Context, req InvokeRequest) (string, error)
}
