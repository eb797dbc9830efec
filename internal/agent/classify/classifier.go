package classify

import "context"

// SupportedIntents is the closed set of intent labels the agent understands.
// Only a subset has registered handlers; the router reports the rest as
// unsupported.
var SupportedIntents = []string{
	"nulls",
	"distincts",
	"distribution",
	"duplicates",
	"outliers",
	"schema",
	"full_profile",
}

// Result is a classifier verdict. An empty Intent means "uncertain"; the
// router turns that into a guidance question rather than an error.
type Result struct {
	Intent      string `json:"intent"`
	Explanation string `json:"explanation,omitempty"`
}

// Classifier maps free user text to an intent label. Implementations must
// return an empty-intent Result, not an error, when they cannot decide; errors
// are reserved for transport failures.
type Classifier interface {
	Classify(ctx context.Context, combinedText string) (Result, error)
}

// Func adapts a plain function to the Classifier interface.
type Func func(ctx context.Context, combinedText string) (Result, error)

func (f Func) Classify(ctx context.Context, combinedText string) (Result, error) {
	return f(ctx, combinedText)
}
