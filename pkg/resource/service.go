package resource

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// ID is the set of identifier types a resource can be addressed by.
type ID interface {
	~string | ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Transport performs the HTTP exchange for a Service. Implementations attach
// credentials, decode the JSON body into out and report network failures and
// non-2xx responses as *TransportError.
type Transport interface {
	Get(ctx context.Context, path string, params NormalizedQuery, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

const (
	// DefaultBatchConcurrency bounds the number of in-flight requests a batch
	// operation issues.
	DefaultBatchConcurrency = 5

	defaultSearchPath = "search"
)

// Service exposes the CRUD and query surface for one entity type served
// under a fixed endpoint. It holds no mutable state and is safe for
// concurrent use.
type Service[T any, K ID] struct {
	transport        Transport
	endpoint         string
	searchPath       string
	batchConcurrency int
	logger           hclog.Logger
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger           hclog.Logger
	batchConcurrency int
	searchPath       string
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(o *serviceOptions) {
		o.logger = logger
	}
}

// WithBatchConcurrency sets how many requests a batch operation runs at
// once. Zero or a negative value removes the limit.
func WithBatchConcurrency(n int) Option {
	return func(o *serviceOptions) {
		o.batchConcurrency = n
	}
}

// WithSearchPath sets the sub-path used by Search, relative to the endpoint.
// An empty path searches the endpoint itself.
func WithSearchPath(path string) Option {
	return func(o *serviceOptions) {
		o.searchPath = strings.Trim(path, "/")
	}
}

// NewService creates a Service for the resources at endpoint, e.g.
// "/addresses".
func NewService[T any, K ID](transport Transport, endpoint string, opts ...Option) *Service[T, K] {
	o := &serviceOptions{
		batchConcurrency: DefaultBatchConcurrency,
		searchPath:       defaultSearchPath,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}

	endpoint = "/" + strings.Trim(endpoint, "/")

	return &Service[T, K]{
		transport:        transport,
		endpoint:         endpoint,
		searchPath:       o.searchPath,
		batchConcurrency: o.batchConcurrency,
		logger:           o.logger.Named("resource").With("endpoint", endpoint),
	}
}

// Endpoint returns the collection path the service is bound to.
func (s *Service[T, K]) Endpoint() string {
	return s.endpoint
}

// Path joins segments onto the endpoint, escaping each one.
func (s *Service[T, K]) Path(segments ...string) string {
	var b strings.Builder
	b.WriteString(s.endpoint)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	return b.String()
}

// Transport returns the transport the service sends requests through, for
// domain services that need endpoints outside the generic surface.
func (s *Service[T, K]) Transport() Transport {
	return s.transport
}

// Logger returns the service's logger.
func (s *Service[T, K]) Logger() hclog.Logger {
	return s.logger
}

func (s *Service[T, K]) itemPath(id K) string {
	return s.Path(fmt.Sprint(id))
}

// GetByID fetches a single resource. Relation directives are optional.
func (s *Service[T, K]) GetByID(ctx context.Context, id K, rels ...Relations) (*T, error) {
	params := NormalizedQuery{}
	for _, r := range rels {
		for k, v := range r.Params() {
			params[k] = v
		}
	}

	var env Envelope[T]
	if err := s.transport.Get(ctx, s.itemPath(id), params, &env); err != nil {
		return nil, err
	}
	return s.extract("GetByID", &env)
}

// GetWithRelations fetches a resource with related sub-resources inlined.
func (s *Service[T, K]) GetWithRelations(ctx context.Context, id K, rels Relations) (*T, error) {
	return s.GetByID(ctx, id, rels)
}

// GetAll lists resources. The envelope is returned as received so callers
// can read the pagination block.
func (s *Service[T, K]) GetAll(ctx context.Context, q Query) (*PagedEnvelope[T], error) {
	return s.list(ctx, s.endpoint, Normalize(q))
}

// Search runs a full-text search. text replaces any "q" key in q.
func (s *Service[T, K]) Search(ctx context.Context, text string, q Query) (*PagedEnvelope[T], error) {
	merged := q.Merge(map[string]any{ParamSearch: text})
	return s.list(ctx, s.Path(s.searchPath), Normalize(merged))
}

// Filter lists resources matching filters. Keys in filters take precedence
// over the same keys in q.
//
//	svc.Filter(ctx, map[string]any{"price_gte": 50000, "discount_ne": 0}, nil)
func (s *Service[T, K]) Filter(ctx context.Context, filters map[string]any, q Query) (*PagedEnvelope[T], error) {
	return s.list(ctx, s.endpoint, Normalize(q.Merge(filters)))
}

func (s *Service[T, K]) list(ctx context.Context, path string, params NormalizedQuery) (*PagedEnvelope[T], error) {
	var env PagedEnvelope[T]
	if err := s.transport.Get(ctx, path, params, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// Create creates a resource and returns the stored representation.
func (s *Service[T, K]) Create(ctx context.Context, body any) (*T, error) {
	var env Envelope[T]
	if err := s.transport.Post(ctx, s.endpoint, body, &env); err != nil {
		return nil, err
	}
	return s.extract("Create", &env)
}

// Update replaces a resource.
func (s *Service[T, K]) Update(ctx context.Context, id K, body any) (*T, error) {
	var env Envelope[T]
	if err := s.transport.Put(ctx, s.itemPath(id), body, &env); err != nil {
		return nil, err
	}
	return s.extract("Update", &env)
}

// Patch applies a partial update to a resource.
func (s *Service[T, K]) Patch(ctx context.Context, id K, body any) (*T, error) {
	var env Envelope[T]
	if err := s.transport.Patch(ctx, s.itemPath(id), body, &env); err != nil {
		return nil, err
	}
	return s.extract("Patch", &env)
}

// Delete removes a resource. The response body is ignored, and transport
// errors are returned as is.
func (s *Service[T, K]) Delete(ctx context.Context, id K) error {
	return s.transport.Delete(ctx, s.itemPath(id))
}

// Exists reports whether GetByID succeeds for id. Every failure, including
// network errors and expired credentials, is reported as false; use Lookup to
// tell those apart from a missing resource.
func (s *Service[T, K]) Exists(ctx context.Context, id K) bool {
	if _, err := s.GetByID(ctx, id); err != nil {
		s.logger.Trace("exists check failed", "id", id, "kind", KindOf(err), "error", err)
		return false
	}
	return true
}

// Lookup reports whether the resource exists. A 404, whether sent as an HTTP
// status or as an envelope statusCode, yields (false, nil); any other failure
// is returned.
func (s *Service[T, K]) Lookup(ctx context.Context, id K) (bool, error) {
	_, err := s.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

// Count returns the number of resources matching q, read from
// pagination.total of a one-item page. It is 0 when the backend does not
// paginate the response.
func (s *Service[T, K]) Count(ctx context.Context, q Query) (int, error) {
	env, err := s.GetAll(ctx, q.Merge(map[string]any{KeyLimit: 1}))
	if err != nil {
		return 0, err
	}
	return env.Total(), nil
}

func (s *Service[T, K]) extract(op string, env *Envelope[T]) (*T, error) {
	v, err := Extract(env)
	if apiErr, ok := err.(*APIError); ok {
		apiErr.Op = op
		s.logger.Debug("request rejected by backend",
			"op", op,
			"status", apiErr.StatusCode,
			"message", apiErr.Message)
	}
	return v, err
}
