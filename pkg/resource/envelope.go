package resource

// Envelope is the wrapper the backend puts around single-resource responses.
type Envelope[T any] struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       *T                `json:"data,omitempty"`
	StatusCode int               `json:"statusCode,omitempty"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Pagination describes the page a PagedEnvelope holds.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// PagedEnvelope is the wrapper around collection responses. Pagination is
// optional; its absence means the total is unknown.
type PagedEnvelope[T any] struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Total returns pagination.total, or 0 when the backend sent no pagination.
func (p *PagedEnvelope[T]) Total() int {
	if p == nil || p.Pagination == nil {
		return 0
	}
	return p.Pagination.Total
}

// Extract unwraps a single-resource envelope. A failed envelope yields an
// *APIError, a successful one without data yields ErrMissingData. The HTTP
// status is never consulted.
func Extract[T any](env *Envelope[T]) (*T, error) {
	if env == nil || !env.Success {
		apiErr := &APIError{Message: defaultFailureMessage}
		if env != nil {
			if env.Message != "" {
				apiErr.Message = env.Message
			}
			apiErr.StatusCode = env.StatusCode
			apiErr.Errors = env.Errors
		}
		return nil, apiErr
	}
	if env.Data == nil {
		return nil, ErrMissingData
	}
	return env.Data, nil
}
