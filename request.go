package auth

import validation "github.com/go-ozzo/ozzo-validation"

// AuthRequest payload. The identifier may be sent as "taxId" or "cpf".
type AuthRequest struct {
	TaxID string `form:"taxId" json:"taxId"`
	CPF   string `form:"cpf" json:"cpf,omitempty"`
}

// GetTaxID returns the normalized identifier
func (r AuthRequest) GetTaxID() string {
	if r.TaxID != "" {
		return NormalizeTaxID(r.TaxID)
	}
	return NormalizeTaxID(r.CPF)
}

// Validate will run validation rules. Every failing field is reported.
func (r AuthRequest) Validate() error {
	raw := r.TaxID
	if raw == "" {
		raw = r.CPF
	}

	verrs := validation.Errors{
		"cpf": validation.Validate(raw,
			validation.Required.Error("CPF is required"),
			CPFRule,
		),
	}.Filter()

	if verrs == nil {
		return nil
	}

	ozzoErrs, ok := verrs.(validation.Errors)
	if !ok {
		return NewValidationError(FieldDetail{Field: "cpf", Message: verrs.Error()})
	}

	return NewValidationError(fieldDetailsFromOzzo(ozzoErrs)...)
}
