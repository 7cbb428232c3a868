package models

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Address is a delivery address saved by a user.
type Address struct {
	Base

	UserID         int      `json:"userId"`
	Label          string   `json:"label"`
	Address        string   `json:"address"`
	RecipientName  string   `json:"recipientName"`
	RecipientPhone string   `json:"recipientPhone"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Note           string   `json:"note,omitempty"`
	IsDefault      bool     `json:"isDefault"`
}

// CreateAddressRequest is the body sent to create an address.
type CreateAddressRequest struct {
	Label          string   `json:"label"`
	Address        string   `json:"address"`
	RecipientName  string   `json:"recipientName"`
	RecipientPhone string   `json:"recipientPhone"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Note           string   `json:"note,omitempty"`
	IsDefault      *bool    `json:"isDefault,omitempty"`
}

// UpdateAddressRequest is a partial address update. Nil fields are left
// unchanged by the backend.
type UpdateAddressRequest struct {
	Label          *string  `json:"label,omitempty"`
	Address        *string  `json:"address,omitempty"`
	RecipientName  *string  `json:"recipientName,omitempty"`
	RecipientPhone *string  `json:"recipientPhone,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	Note           *string  `json:"note,omitempty"`
	IsDefault      *bool    `json:"isDefault,omitempty"`
}

// Vietnamese mobile number: leading 0 or +84 followed by nine digits.
var phonePattern = regexp.MustCompile(`^(0|\+84)[0-9]{9}$`)

// Validate checks the request before it is submitted. The returned error is a
// validation.Errors keyed by JSON field name.
func (r *CreateAddressRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Label, labelRules...),
		validation.Field(&r.Address, addressRules...),
		validation.Field(&r.RecipientName, recipientNameRules...),
		validation.Field(&r.RecipientPhone, recipientPhoneRules...),
		validation.Field(&r.Note, noteRules...),
	)
}

// Validate checks the fields present in the update. Absent fields are not
// validated.
func (r *UpdateAddressRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Label, validation.NilOrNotEmpty.Error("Label is required"), validation.Skip.When(r.Label == nil), validation.By(deref(labelRules))),
		validation.Field(&r.Address, validation.NilOrNotEmpty.Error("Address is required"), validation.Skip.When(r.Address == nil), validation.By(deref(addressRules))),
		validation.Field(&r.RecipientName, validation.NilOrNotEmpty.Error("Recipient name is required"), validation.Skip.When(r.RecipientName == nil), validation.By(deref(recipientNameRules))),
		validation.Field(&r.RecipientPhone, validation.NilOrNotEmpty.Error("Phone number is required"), validation.Skip.When(r.RecipientPhone == nil), validation.By(deref(recipientPhoneRules))),
		validation.Field(&r.Note, validation.Skip.When(r.Note == nil), validation.By(deref(noteRules))),
	)
}

var (
	labelRules = []validation.Rule{
		validation.Required.Error("Label is required"),
		notBlank("Label is required"),
		validation.RuneLength(1, 50).Error("Label must be between 1-50 characters"),
	}
	addressRules = []validation.Rule{
		validation.Required.Error("Address is required"),
		notBlank("Address is required"),
		validation.RuneLength(10, 200).Error("Address must be between 10-200 characters"),
	}
	recipientNameRules = []validation.Rule{
		validation.Required.Error("Recipient name is required"),
		notBlank("Recipient name is required"),
		validation.RuneLength(2, 100).Error("Recipient name must be between 2-100 characters"),
	}
	recipientPhoneRules = []validation.Rule{
		validation.Required.Error("Phone number is required"),
		notBlank("Phone number is required"),
		validation.Match(phonePattern).Error("Invalid phone number format (e.g., 0912345678)"),
	}
	noteRules = []validation.Rule{
		validation.RuneLength(0, 500).Error("Note must not exceed 500 characters"),
	}
)

func notBlank(message string) validation.Rule {
	return validation.NewStringRule(func(s string) bool {
		return strings.TrimSpace(s) != ""
	}, message)
}

// deref applies rules to the string behind a *string field.
func deref(rules []validation.Rule) validation.RuleFunc {
	return func(value any) error {
		s, ok := value.(*string)
		if !ok || s == nil {
			return nil
		}
		return validation.Validate(*s, rules...)
	}
}
