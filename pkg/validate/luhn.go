package validate

import (
	"strings"

	"github.com/ShiraazMoollatjie/goluhn"
)

// IsCardNumber reports whether s is a plausible payment card number.
func IsCardNumber(s string) bool {
	s = strings.ReplaceAll(s, " ", "")
	if len(s) < 12 || len(s) > 19 {
		return false
	}
	err := goluhn.Validate(s)
	return err == nil
}
