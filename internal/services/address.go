package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Tunhoclaptrinh/Sen-App/pkg/models"
	"github.com/Tunhoclaptrinh/Sen-App/pkg/resource"
)

// AddressEndpoint is the collection path for user addresses.
const AddressEndpoint = "/addresses"

// AddressService manages the current user's delivery addresses.
type AddressService struct {
	*resource.Service[models.Address, int]
}

// NewAddressService creates an address service
func NewAddressService(tr resource.Transport, opts ...resource.Option) *AddressService {
	return &AddressService{
		Service: resource.NewService[models.Address, int](tr, AddressEndpoint, opts...),
	}
}

// ValidationError reports request fields rejected before anything was sent to
// the backend.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Errors[field]))
	}
	return "invalid address: " + strings.Join(parts, "; ")
}

// ValidationResult is the outcome of ValidateAddress.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// MyAddresses lists the current user's addresses.
func (s *AddressService) MyAddresses(ctx context.Context, q resource.Query) (*resource.PagedEnvelope[models.Address], error) {
	return s.GetAll(ctx, q)
}

// DefaultAddress returns the user's default address, or nil when there is
// none. Failures are logged and reported as nil as well.
func (s *AddressService) DefaultAddress(ctx context.Context) *models.Address {
	var env resource.Envelope[models.Address]
	if err := s.Transport().Get(ctx, s.Path("default"), nil, &env); err != nil {
		s.Logger().Debug("no default address", "error", err)
		return nil
	}
	addr, err := resource.Extract(&env)
	if err != nil {
		s.Logger().Debug("no default address", "error", err)
		return nil
	}
	return addr
}

// SetAsDefault marks the address as the user's default.
func (s *AddressService) SetAsDefault(ctx context.Context, id int) (*models.Address, error) {
	var env resource.Envelope[models.Address]
	if err := s.Transport().Patch(ctx, s.Path(fmt.Sprint(id), "default"), nil, &env); err != nil {
		return nil, err
	}
	return resource.Extract(&env)
}

// CreateAddress validates req and creates the address. Invalid requests are
// rejected with a *ValidationError without contacting the backend.
func (s *AddressService) CreateAddress(ctx context.Context, req models.CreateAddressRequest) (*models.Address, error) {
	if err := asValidationError(req.Validate()); err != nil {
		return nil, err
	}
	return s.Create(ctx, req)
}

// UpdateAddress validates the fields present in req and replaces them.
func (s *AddressService) UpdateAddress(ctx context.Context, id int, req models.UpdateAddressRequest) (*models.Address, error) {
	if err := asValidationError(req.Validate()); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, req)
}

// ValidateAddress checks req without submitting it.
func (s *AddressService) ValidateAddress(req models.CreateAddressRequest) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: map[string]string{}}

	var verr *ValidationError
	if errors.As(asValidationError(req.Validate()), &verr) {
		result.IsValid = false
		result.Errors = verr.Errors
	}
	return result
}

// SearchAddresses runs a full-text search over the user's addresses.
func (s *AddressService) SearchAddresses(ctx context.Context, text string) (*resource.PagedEnvelope[models.Address], error) {
	return s.Search(ctx, text, nil)
}

// AddressCount returns how many addresses the user has saved.
func (s *AddressService) AddressCount(ctx context.Context) (int, error) {
	return s.Count(ctx, nil)
}

// asValidationError converts ozzo validation errors into a *ValidationError.
// Other errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for field, fieldErr := range errs {
		fields[field] = fieldErr.Error()
	}
	return &ValidationError{Errors: fields}
}
