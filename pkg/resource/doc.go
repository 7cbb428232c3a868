// Package resource provides a generic client for REST collections that follow
// the Sen backend conventions.
//
// # Overview
//
// A Service is bound to one entity type and one collection endpoint. It
// offers the same surface for every entity: fetch by ID, list, search,
// filter, relations, create, update, patch, delete, batch mutations,
// existence checks and counts.
//
//	addresses := resource.NewService[models.Address, int](client, "/addresses")
//
//	page, err := addresses.GetAll(ctx, resource.NewQuery().Page(1).Limit(10))
//	hits, err := addresses.Search(ctx, "hoan kiem", nil)
//	cheap, err := products.Filter(ctx, map[string]any{"price_lte": 50000}, nil)
//	site, err := sites.GetWithRelations(ctx, 7, resource.Relations{
//	    Embed:  []string{"artifacts", "reviews"},
//	    Expand: []string{"category"},
//	})
//
// # Query Parameters
//
// Queries are normalized before they are sent:
//
//	page   -> _page
//	limit  -> _limit
//	sort   -> _sort
//	order  -> _order
//	embed  -> _embed  (comma-joined)
//	expand -> _expand (comma-joined)
//	search -> q
//
// Every other key is forwarded verbatim. Filter operators are field
// suffixes the backend understands: _gte, _lte, _ne, _like and _in.
// Keys with nil values are dropped.
//
// # Envelopes
//
// Single-resource responses are wrapped as
//
//	{"success": true, "message": "...", "data": {...}}
//
// and collections as
//
//	{"success": true, "count": 10, "data": [...], "pagination": {...}}
//
// A failed envelope becomes an *APIError carrying the backend message; a
// successful envelope without data becomes ErrMissingData. Collection
// envelopes are returned as received.
//
// # Errors
//
// Errors fall into three kinds, see KindOf:
//   - *TransportError: network failure, timeout or non-2xx response
//   - *APIError: the backend answered success=false
//   - ErrMissingData: the backend answered success=true without data
//
// Nothing is retried or cached at this layer. Exists folds every error into
// false; Lookup only folds a 404.
//
// # Batches
//
// BatchCreate, BatchUpdate and BatchDelete fan out one call per item on a
// bounded pool (WithBatchConcurrency, default 5). The first failure fails
// the whole batch and partial results are discarded. Mutations already
// applied by the backend are not rolled back.
package resource
