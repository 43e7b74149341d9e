package bankformat

import (
	"regexp"
	"strings"

	"finbooks/bankrecon/internal/models"

	"github.com/shopspring/decimal"
)

// labelled "Account Number: 62012345678" style declarations
var labelledAccountPattern = regexp.MustCompile(`(?i)acc(?:oun)?t\s*(?:no|number)[.:]*\s*(\d[\d\s-]{6,18}\d)`)

// bare account number, 9 to 11 digits
var bareAccountPattern = regexp.MustCompile(`\b(\d{9,11})\b`)

var crSuffixPattern = regexp.MustCompile(`(?i)\s*Cr\.?$`)
var drSuffixPattern = regexp.MustCompile(`(?i)\s*Dr\.?$`)

func containsAny(text string, needles ...string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func accountNameMatches(acct *models.AccountInfo, needles ...string) bool {
	if acct == nil || acct.BankName == "" {
		return false
	}
	return containsAny(acct.BankName, needles...)
}

func extractAccountNumber(text string) string {
	if m := labelledAccountPattern.FindStringSubmatch(text); m != nil {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(m[1])
		return cleaned
	}
	if m := bareAccountPattern.FindString(text); m != "" {
		return m
	}
	return ""
}

// partsFromSigned maps a signed value to debit/credit: negative means
// money out, positive means money in.
func partsFromSigned(v decimal.Decimal) models.AmountParts {
	if v.IsNegative() {
		return models.AmountParts{Debit: v.Neg()}
	}
	if v.IsPositive() {
		return models.AmountParts{Credit: v}
	}
	return models.AmountParts{}
}

// FNBHandler covers First National Bank statements. FNB marks credits
// with a trailing "Cr" suffix; a bare positive number is a debit by
// convention. Transaction dates are printed as "21 Nov", without a year.
type FNBHandler struct{}

func (h *FNBHandler) ID() BankID   { return BankFNB }
func (h *FNBHandler) Name() string { return "First National Bank" }

func (h *FNBHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	if accountNameMatches(acct, "fnb", "first national") {
		return true
	}
	return containsAny(rawText, "First National Bank", "FNB Premier", "fnb.co.za")
}

func (h *FNBHandler) ParseAmount(raw string) models.AmountParts {
	s := strings.TrimSpace(raw)
	switch {
	case crSuffixPattern.MatchString(s):
		v := models.ParseDecimal(crSuffixPattern.ReplaceAllString(s, ""))
		return models.AmountParts{Credit: v.Abs()}
	case drSuffixPattern.MatchString(s):
		v := models.ParseDecimal(drSuffixPattern.ReplaceAllString(s, ""))
		return models.AmountParts{Debit: v.Abs()}
	}
	v := models.ParseDecimal(s)
	if v.IsNegative() {
		return models.AmountParts{Debit: v.Neg()}
	}
	if v.IsPositive() {
		// No suffix: FNB prints debits as plain positive numbers.
		return models.AmountParts{Debit: v}
	}
	return models.AmountParts{}
}

func (h *FNBHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *FNBHandler) OmitsYear() bool { return true }

// StandardHandler covers Standard Bank statements, which print debits
// with a leading minus sign.
type StandardHandler struct{}

func (h *StandardHandler) ID() BankID   { return BankStandard }
func (h *StandardHandler) Name() string { return "Standard Bank" }

func (h *StandardHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	if accountNameMatches(acct, "standard bank") {
		return true
	}
	return containsAny(rawText, "Standard Bank", "standardbank.co.za")
}

func (h *StandardHandler) ParseAmount(raw string) models.AmountParts {
	return partsFromSigned(models.ParseDecimal(raw))
}

func (h *StandardHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *StandardHandler) OmitsYear() bool { return false }

// ABSAHandler covers ABSA statements, which print debits with a trailing
// minus ("1,234.56-").
type ABSAHandler struct{}

func (h *ABSAHandler) ID() BankID   { return BankABSA }
func (h *ABSAHandler) Name() string { return "ABSA" }

func (h *ABSAHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	if accountNameMatches(acct, "absa") {
		return true
	}
	return containsAny(rawText, "ABSA Bank", "absa.co.za")
}

func (h *ABSAHandler) ParseAmount(raw string) models.AmountParts {
	// ParseDecimal already folds the trailing minus into the sign.
	return partsFromSigned(models.ParseDecimal(raw))
}

func (h *ABSAHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *ABSAHandler) OmitsYear() bool { return false }

// NedbankHandler covers Nedbank statements: signed amounts, debits
// negative.
type NedbankHandler struct{}

func (h *NedbankHandler) ID() BankID   { return BankNedbank }
func (h *NedbankHandler) Name() string { return "Nedbank" }

func (h *NedbankHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	if accountNameMatches(acct, "nedbank") {
		return true
	}
	return containsAny(rawText, "Nedbank", "nedbank.co.za")
}

func (h *NedbankHandler) ParseAmount(raw string) models.AmountParts {
	return partsFromSigned(models.ParseDecimal(raw))
}

func (h *NedbankHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *NedbankHandler) OmitsYear() bool { return false }

// CapitecHandler covers Capitec statements: signed amounts, debits
// negative.
type CapitecHandler struct{}

func (h *CapitecHandler) ID() BankID   { return BankCapitec }
func (h *CapitecHandler) Name() string { return "Capitec" }

func (h *CapitecHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	if accountNameMatches(acct, "capitec") {
		return true
	}
	return containsAny(rawText, "Capitec Bank", "capitecbank.co.za")
}

func (h *CapitecHandler) ParseAmount(raw string) models.AmountParts {
	return partsFromSigned(models.ParseDecimal(raw))
}

func (h *CapitecHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *CapitecHandler) OmitsYear() bool { return false }

// GenericHandler is the fallback for statements no fingerprint matched.
// It honors Cr/Dr suffixes when present and otherwise reads the sign:
// negative is money out, positive is money in.
type GenericHandler struct{}

func (h *GenericHandler) ID() BankID   { return BankUnknown }
func (h *GenericHandler) Name() string { return "Unknown" }

// Detect always returns true; the generic handler terminates every
// detection walk.
func (h *GenericHandler) Detect(rawText string, acct *models.AccountInfo) bool {
	return true
}

func (h *GenericHandler) ParseAmount(raw string) models.AmountParts {
	s := strings.TrimSpace(raw)
	switch {
	case crSuffixPattern.MatchString(s):
		v := models.ParseDecimal(crSuffixPattern.ReplaceAllString(s, ""))
		return models.AmountParts{Credit: v.Abs()}
	case drSuffixPattern.MatchString(s):
		v := models.ParseDecimal(drSuffixPattern.ReplaceAllString(s, ""))
		return models.AmountParts{Debit: v.Abs()}
	}
	return partsFromSigned(models.ParseDecimal(s))
}

func (h *GenericHandler) ExtractAccountNumber(text string) string {
	return extractAccountNumber(text)
}

func (h *GenericHandler) OmitsYear() bool { return false }
