package harness

// Check is the outcome of one assertion.
type Check struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
	// Actual is the observed value, rounded to six significant digits for
	// numeric checks so golden files survive last-bit float noise.
	Actual string `json:"actual"`
	Pass   bool   `json:"pass"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// CatalogueVersion identifies the catalogue the scenario resolved.
	CatalogueVersion string `json:"catalogue_version"`

	// Checks holds one entry per assertion, in scenario order.
	Checks []Check `json:"checks"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Checks: []Check{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCheck records an assertion outcome. A failed check also fails the
// result.
func (r *Result) AddCheck(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Pass {
		r.Pass = false
	}
}
