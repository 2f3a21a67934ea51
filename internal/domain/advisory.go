package domain

// AdvisoryCode classifies non-fatal conditions raised while computing
// or reconciling a trip.
type AdvisoryCode string

const (
	// AdvisoryFieldIgnored reports an input field that had no effect on
	// the computation.
	AdvisoryFieldIgnored AdvisoryCode = "field_ignored"
	// AdvisoryDateUpdated reports a date changed by reconciliation.
	AdvisoryDateUpdated AdvisoryCode = "date_updated"
)

// Advisory is a non-fatal condition observed during compute or date
// reconciliation. Advisories never abort the operation that raised
// them.
type Advisory struct {
	Code    AdvisoryCode
	Field   string
	Message string
}
