package numbering

import (
	"fmt"
	"strings"
	"time"
)

// Template placeholders understood in prefix and suffix templates
const (
	PlaceholderFiscalYear = "{FY}"
	PlaceholderYear       = "{YYYY}"
	PlaceholderShortYear  = "{YY}"
	PlaceholderMonth      = "{MM}"
	PlaceholderTenantCode = "{TENANT_CODE}"
	PlaceholderDoc        = "{DOC}"
)

// TemplateContext holds the values substituted into templates.
type TemplateContext struct {
	FiscalYear   FiscalYear
	IssuedAt     time.Time
	TenantCode   string
	DocumentType DocumentType
}

// Render substitutes every placeholder in tmpl. Unknown braces are kept as-is.
func Render(tmpl string, tc TemplateContext) string {
	if !strings.Contains(tmpl, "{") {
		return tmpl
	}
	r := strings.NewReplacer(
		PlaceholderFiscalYear, tc.FiscalYear.String(),
		PlaceholderYear, fmt.Sprintf("%04d", tc.IssuedAt.Year()),
		PlaceholderShortYear, fmt.Sprintf("%02d", tc.IssuedAt.Year()%100),
		PlaceholderMonth, fmt.Sprintf("%02d", int(tc.IssuedAt.Month())),
		PlaceholderTenantCode, tc.TenantCode,
		PlaceholderDoc, tc.DocumentType.Tag(),
	)
	return r.Replace(tmpl)
}

// FormatNumber joins rendered prefix, zero-padded number and rendered suffix
// with sep, skipping empty parts.
func FormatNumber(prefix, suffix, sep string, number int64, padding int, tc TemplateContext) string {
	parts := make([]string, 0, 3)
	if p := Render(prefix, tc); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, fmt.Sprintf("%0*d", padding, number))
	if s := Render(suffix, tc); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, sep)
}
