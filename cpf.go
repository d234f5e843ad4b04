package auth

import (
	"errors"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// CPFLength is the number of digits in a CPF, check digits included
const CPFLength = 11

// ErrInvalidCPF is the validation message for identifiers that fail the
// format or checksum rules
var ErrInvalidCPF = errors.New("Invalid CPF")

// CPFRule is an ozzo-validation rule accepting masked or unmasked CPFs
// whose check digits are valid.
var CPFRule = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return ErrInvalidCPF
	}

	if s == "" {
		// handled by validation.Required
		return nil
	}

	if !IsValidCPF(s) {
		return ErrInvalidCPF
	}
	return nil
})

// NormalizeTaxID strips the usual CPF mask ("529.982.247-25") and
// surrounding whitespace. Any other character is kept so that the
// checksum rule rejects it.
func NormalizeTaxID(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' {
			return -1
		}
		return r
	}, raw)
}

// IsValidCPF reports whether raw, once normalized, is eleven digits with
// both mod 11 check digits matching.
func IsValidCPF(raw string) bool {
	cpf := NormalizeTaxID(raw)
	if len(cpf) != CPFLength {
		return false
	}

	digits := make([]int, CPFLength)
	for i, r := range cpf {
		if r < '0' || r > '9' {
			return false
		}
		digits[i] = int(r - '0')
	}

	return checkDigit(digits[:9]) == digits[9] &&
		checkDigit(digits[:10]) == digits[10]
}

func checkDigit(digits []int) int {
	weight := len(digits) + 1
	sum := 0
	for _, d := range digits {
		sum += d * weight
		weight--
	}

	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}

func fieldDetailsFromOzzo(verrs validation.Errors) []FieldDetail {
	fields := make([]string, 0, len(verrs))
	for field, err := range verrs {
		if err != nil {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	details := make([]FieldDetail, 0, len(fields))
	for _, field := range fields {
		details = append(details, FieldDetail{
			Field:   field,
			Message: verrs[field].Error(),
		})
	}
	return details
}
