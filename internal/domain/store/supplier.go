package store

import (
	"strings"

	"github.com/erp/lobapi/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPaymentTermsDays is applied when a supplier is created without terms
const DefaultPaymentTermsDays = 30

// Supplier is a vendor the store buys from
type Supplier struct {
	shared.TenantAggregateRoot
	Name             string          `gorm:"type:varchar(256);not null"`
	Code             string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_store_supplier_tenant_code,priority:2"`
	ContactPerson    string          `gorm:"type:varchar(100)"`
	Email            string          `gorm:"type:varchar(256);not null"`
	Phone            string          `gorm:"type:varchar(50)"`
	Address          string          `gorm:"type:varchar(500)"`
	City             string          `gorm:"type:varchar(100)"`
	State            string          `gorm:"type:varchar(100)"`
	Country          string          `gorm:"type:varchar(100)"`
	PostalCode       string          `gorm:"type:varchar(20)"`
	Website          string          `gorm:"type:varchar(256)"`
	CreditLimit      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentTermsDays int             `gorm:"not null"`
	Rating           decimal.Decimal `gorm:"type:decimal(3,2);not null"`
	IsActive         bool            `gorm:"not null"`
	Notes            string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "store_suppliers"
}

// SupplierDetails holds the optional supplier fields; nil means unchanged
type SupplierDetails struct {
	Name             *string
	Code             *string
	ContactPerson    *string
	Email            *string
	Phone            *string
	Address          *string
	City             *string
	State            *string
	Country          *string
	PostalCode       *string
	Website          *string
	CreditLimit      *decimal.Decimal
	PaymentTermsDays *int
	Notes            *string
}

// NewSupplier creates an active supplier with default payment terms
func NewSupplier(tenantID uuid.UUID, code, name, email string) (*Supplier, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if err := validateSupplierCode(code); err != nil {
		return nil, err
	}
	if err := validateSupplierName(name); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Supplier email is required")
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Code:                code,
		Email:               email,
		CreditLimit:         decimal.Zero,
		PaymentTermsDays:    DefaultPaymentTermsDays,
		Rating:              decimal.Zero,
		IsActive:            true,
	}
	s.AddDomainEvent(NewSupplierCreatedEvent(s))
	return s, nil
}

// Update applies changed fields and raises SupplierUpdated when any changed
func (s *Supplier) Update(d SupplierDetails) (bool, error) {
	changed := false

	setString := func(dst *string, v *string, max int, code, msg string) error {
		if v == nil || *v == *dst {
			return nil
		}
		if shared.RuneLen(*v) > max {
			return shared.NewDomainError(code, msg)
		}
		*dst = *v
		changed = true
		return nil
	}

	if d.Name != nil && strings.TrimSpace(*d.Name) != s.Name {
		name := strings.TrimSpace(*d.Name)
		if err := validateSupplierName(name); err != nil {
			return false, err
		}
		s.Name = name
		changed = true
	}
	if d.Code != nil && strings.TrimSpace(*d.Code) != s.Code {
		code := strings.TrimSpace(*d.Code)
		if err := validateSupplierCode(code); err != nil {
			return false, err
		}
		s.Code = code
		changed = true
	}
	if d.Email != nil && strings.TrimSpace(*d.Email) != s.Email {
		email := strings.TrimSpace(*d.Email)
		if email == "" {
			return false, shared.NewDomainError("INVALID_EMAIL", "Supplier email is required")
		}
		if err := validateEmail(email); err != nil {
			return false, err
		}
		s.Email = email
		changed = true
	}

	fields := []struct {
		dst  *string
		v    *string
		max  int
		code string
		msg  string
	}{
		{&s.ContactPerson, d.ContactPerson, 100, "INVALID_CONTACT_PERSON", "Contact person cannot exceed 100 characters"},
		{&s.Phone, d.Phone, 50, "INVALID_PHONE", "Phone cannot exceed 50 characters"},
		{&s.Address, d.Address, 500, "INVALID_ADDRESS", "Address cannot exceed 500 characters"},
		{&s.City, d.City, 100, "INVALID_CITY", "City cannot exceed 100 characters"},
		{&s.State, d.State, 100, "INVALID_STATE_NAME", "State cannot exceed 100 characters"},
		{&s.Country, d.Country, 100, "INVALID_COUNTRY", "Country cannot exceed 100 characters"},
		{&s.PostalCode, d.PostalCode, 20, "INVALID_POSTAL_CODE", "Postal code cannot exceed 20 characters"},
		{&s.Website, d.Website, 256, "INVALID_WEBSITE", "Website cannot exceed 256 characters"},
		{&s.Notes, d.Notes, 4096, "INVALID_NOTES", "Notes cannot exceed 4096 characters"},
	}
	for _, f := range fields {
		if err := setString(f.dst, f.v, f.max, f.code, f.msg); err != nil {
			return false, err
		}
	}

	if d.CreditLimit != nil && !d.CreditLimit.Equal(s.CreditLimit) {
		if d.CreditLimit.IsNegative() {
			return false, shared.NewDomainError("INVALID_CREDIT_LIMIT", "Credit limit cannot be negative")
		}
		s.CreditLimit = *d.CreditLimit
		changed = true
	}
	if d.PaymentTermsDays != nil && *d.PaymentTermsDays != s.PaymentTermsDays {
		if *d.PaymentTermsDays < 0 {
			return false, shared.NewDomainError("INVALID_PAYMENT_TERMS", "Payment terms cannot be negative")
		}
		s.PaymentTermsDays = *d.PaymentTermsDays
		changed = true
	}

	if changed {
		s.Touch()
		s.AddDomainEvent(NewSupplierUpdatedEvent(s))
	}
	return changed, nil
}

// UpdateRating sets the supplier rating on a 0 to 5 scale
func (s *Supplier) UpdateRating(rating decimal.Decimal) error {
	if rating.IsNegative() || rating.GreaterThan(decimal.NewFromInt(5)) {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 0 and 5")
	}
	rating = rating.Round(2)
	if rating.Equal(s.Rating) {
		return nil
	}
	s.Rating = rating
	s.Touch()
	s.AddDomainEvent(NewSupplierUpdatedEvent(s))
	return nil
}

// Activate enables the supplier
func (s *Supplier) Activate() error {
	if s.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Supplier is already active")
	}
	s.IsActive = true
	s.Touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s))
	return nil
}

// Deactivate disables the supplier
func (s *Supplier) Deactivate() error {
	if !s.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Supplier is already inactive")
	}
	s.IsActive = false
	s.Touch()
	s.AddDomainEvent(NewSupplierStatusChangedEvent(s))
	return nil
}

func validateSupplierCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	return nil
}

func validateSupplierName(name string) error {
	n := shared.RuneLen(name)
	if n < 2 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name must be at least 2 characters")
	}
	if n > 256 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 256 characters")
	}
	return nil
}
