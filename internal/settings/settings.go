// Package settings holds the school-identity configuration persisted as
// flat key/value pairs alongside the receipt collection.
package settings

// Keys under which settings are persisted. Readers and writers of the
// key/value store must agree on these; boolean values are serialized as the
// literal strings "True" and "False".
const (
	KeySchoolName     = "school_name"
	KeySchoolAddress  = "school_address"
	KeySchoolPhone    = "school_phone"
	KeySchoolEmail    = "school_email"
	KeySchoolMotto    = "school_motto"
	KeySchoolLogo     = "school_logo"
	KeyCurrencySymbol = "currency_symbol"
	KeyCashierPIN     = "cashier_pin"
	KeyCashierMode    = "is_cashier_mode"
)

// Settings is the school-identity configuration.
//
// The cashier PIN gates a reduced "cashier mode" UI. It is a shared-secret
// equality check scoped to one operator session, not an authentication
// mechanism, and must never be treated as a security boundary.
type Settings struct {
	SchoolName     string `json:"school_name"`
	SchoolAddress  string `json:"school_address"`
	SchoolPhone    string `json:"school_phone"`
	SchoolEmail    string `json:"school_email"`
	SchoolMotto    string `json:"school_motto"`
	LogoPath       string `json:"school_logo"`
	CurrencySymbol string `json:"currency_symbol"`
	CashierPIN     string `json:"-"`
	CashierMode    bool   `json:"is_cashier_mode"`
}

// Defaults returns the seeded configuration a fresh install starts from.
func Defaults() Settings {
	return Settings{
		SchoolName:     "TOYA International Academy",
		SchoolAddress:  "123 Education Lane, Knowledge City",
		SchoolPhone:    "+1 234 567 890",
		SchoolEmail:    "admin@toya.edu",
		SchoolMotto:    "Excellence in Education",
		LogoPath:       "/placeholder.svg",
		CurrencySymbol: "$",
		CashierPIN:     "1234",
		CashierMode:    false,
	}
}

// Patch is a closed set of optional field updates. Nil fields leave the
// current value untouched. Keeping the set enumerated (rather than a
// name-keyed dynamic setter) keeps settings updates type-checked.
type Patch struct {
	SchoolName     *string
	SchoolAddress  *string
	SchoolPhone    *string
	SchoolEmail    *string
	SchoolMotto    *string
	LogoPath       *string
	CurrencySymbol *string
	CashierPIN     *string
	CashierMode    *bool
}

// Apply returns a copy of s with every non-nil patch field applied.
func (s Settings) Apply(p Patch) Settings {
	if p.SchoolName != nil {
		s.SchoolName = *p.SchoolName
	}
	if p.SchoolAddress != nil {
		s.SchoolAddress = *p.SchoolAddress
	}
	if p.SchoolPhone != nil {
		s.SchoolPhone = *p.SchoolPhone
	}
	if p.SchoolEmail != nil {
		s.SchoolEmail = *p.SchoolEmail
	}
	if p.SchoolMotto != nil {
		s.SchoolMotto = *p.SchoolMotto
	}
	if p.LogoPath != nil {
		s.LogoPath = *p.LogoPath
	}
	if p.CurrencySymbol != nil {
		s.CurrencySymbol = *p.CurrencySymbol
	}
	if p.CashierPIN != nil {
		s.CashierPIN = *p.CashierPIN
	}
	if p.CashierMode != nil {
		s.CashierMode = *p.CashierMode
	}
	return s
}

// VerifyPIN is the cashier-mode gate: a plain equality check against the
// stored 4-digit value.
func (s Settings) VerifyPIN(pin string) bool {
	return pin != "" && pin == s.CashierPIN
}

// Pairs serializes the settings to the flat key/value layout of the store.
func (s Settings) Pairs() map[string]string {
	return map[string]string{
		KeySchoolName:     s.SchoolName,
		KeySchoolAddress:  s.SchoolAddress,
		KeySchoolPhone:    s.SchoolPhone,
		KeySchoolEmail:    s.SchoolEmail,
		KeySchoolMotto:    s.SchoolMotto,
		KeySchoolLogo:     s.LogoPath,
		KeyCurrencySymbol: s.CurrencySymbol,
		KeyCashierPIN:     s.CashierPIN,
		KeyCashierMode:    formatBool(s.CashierMode),
	}
}

// FromPairs rebuilds settings from stored pairs. Missing keys keep their
// seeded default so partially-written stores still load.
func FromPairs(pairs map[string]string) Settings {
	s := Defaults()
	if v, ok := pairs[KeySchoolName]; ok {
		s.SchoolName = v
	}
	if v, ok := pairs[KeySchoolAddress]; ok {
		s.SchoolAddress = v
	}
	if v, ok := pairs[KeySchoolPhone]; ok {
		s.SchoolPhone = v
	}
	if v, ok := pairs[KeySchoolEmail]; ok {
		s.SchoolEmail = v
	}
	if v, ok := pairs[KeySchoolMotto]; ok {
		s.SchoolMotto = v
	}
	if v, ok := pairs[KeySchoolLogo]; ok {
		s.LogoPath = v
	}
	if v, ok := pairs[KeyCurrencySymbol]; ok {
		s.CurrencySymbol = v
	}
	if v, ok := pairs[KeyCashierPIN]; ok {
		s.CashierPIN = v
	}
	if v, ok := pairs[KeyCashierMode]; ok {
		s.CashierMode = parseBool(v)
	}
	return s
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(v string) bool {
	return v == "True" || v == "true"
}
