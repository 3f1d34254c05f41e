package errors

import (
	"strings"
	"unicode"
)

// maxFieldLength bounds text fields written into DPV records.
const maxFieldLength = 128

// ValidateField checks that s can be written as a single DPV text field.
// The DPV grammar has no quoting, so separators and line breaks would
// shift every following column.
//
// The validation rules:
//   - No commas
//   - No control characters (this includes CR and LF)
//   - Maximum length of 128 bytes
func ValidateField(what, s string) error {
	if len(s) > maxFieldLength {
		return New(ErrCodeEncoding, "%s too long (max %d characters): %q", what, maxFieldLength, s)
	}
	if strings.Contains(s, ",") {
		return New(ErrCodeEncoding, "%s contains a comma: %q", what, s)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return New(ErrCodeEncoding, "%s contains control characters: %q", what, s)
		}
	}
	return nil
}

// ValidatePartName checks a stack catalog part name.
// Part names end up in the DPV station and component tables, so they obey
// the same rules as [ValidateField] and must not be empty.
func ValidatePartName(name string) error {
	if name == "" {
		return New(ErrCodeMalformedCatalogRow, "part name cannot be empty")
	}
	if err := ValidateField("part name", name); err != nil {
		e := err.(*Error)
		e.Code = ErrCodeMalformedCatalogRow
		return e
	}
	return nil
}
