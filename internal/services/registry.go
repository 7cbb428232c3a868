package services

import (
	"sort"
	"strings"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

// Record is an untyped resource as decoded from JSON.
type Record = map[string]any

// RawService addresses any collection by name with string identifiers and
// untyped records.
type RawService = resource.Service[Record, string]

// Registry bundles the domain services sharing one transport.
type Registry struct {
	Addresses *AddressService
	Heritage  *HeritageService
	Artifacts *ArtifactService

	transport resource.Transport
	opts      []resource.Option
}

// NewRegistry creates every domain service on tr. opts apply to each of them.
func NewRegistry(tr resource.Transport, opts ...resource.Option) *Registry {
	return &Registry{
		Addresses: NewAddressService(tr, opts...),
		Heritage:  NewHeritageService(tr, opts...),
		Artifacts: NewArtifactService(tr, opts...),
		transport: tr,
		opts:      opts,
	}
}

// endpointAliases maps the short names accepted on the command line to
// collection paths.
var endpointAliases = map[string]string{
	"address":   AddressEndpoint,
	"addresses": AddressEndpoint,
	"heritage":  HeritageEndpoint,
	"heritages": HeritageEndpoint,
	"sites":     HeritageEndpoint,
	"artifact":  ArtifactEndpoint,
	"artifacts": ArtifactEndpoint,
}

// ResolveEndpoint turns a resource name into a collection path. Known aliases
// map to their endpoint; anything else is used as the path itself.
func ResolveEndpoint(name string) string {
	trimmed := strings.Trim(strings.TrimSpace(name), "/")
	if endpoint, ok := endpointAliases[strings.ToLower(trimmed)]; ok {
		return endpoint
	}
	return "/" + trimmed
}

// KnownResources returns the sorted resource aliases.
func KnownResources() []string {
	names := make([]string, 0, len(endpointAliases))
	for name := range endpointAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Raw returns an untyped service for the named resource.
func (r *Registry) Raw(name string) *RawService {
	return resource.NewService[Record, string](r.transport, ResolveEndpoint(name), r.opts...)
}
