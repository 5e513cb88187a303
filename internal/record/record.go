package record

import "strings"

// SignalKindHiringRole marks records whose signal is a concrete open role
// rather than a general business-activity signal.
const SignalKindHiringRole = "HIRING_ROLE"

// SignalMeta carries the classified kind of a record's signal and an
// optional human-readable label used in match explanations.
type SignalMeta struct {
	Kind  string
	Label string
}

// Record is a normalized demand or supply row. All text fields default to
// the empty string; Industry holds one entry for scalar inputs and several
// for multi-valued ones. Metadata is a free-form slot owned by downstream
// consumers (intro generation stashes text there) and is never read or
// written by the matching engine.
type Record struct {
	Domain             string
	Company            string
	FullName           string
	FirstName          string
	LastName           string
	Email              string
	Title              string
	Industry           []string
	Signal             string
	SignalMeta         *SignalMeta
	CompanyDescription string
	CompanyFunding     string
	Size               string
	RecordKey          string
	Metadata           map[string]string
}

// PrimaryIndustry returns the first industry entry, or an empty string.
func (r *Record) PrimaryIndustry() string {
	if len(r.Industry) == 0 {
		return ""
	}
	return r.Industry[0]
}

// IndustryText returns all industry entries joined for free-text analysis.
func (r *Record) IndustryText() string {
	return strings.Join(r.Industry, " ")
}

// SignalLabel returns the signal label when the record carries one.
func (r *Record) SignalLabel() string {
	if r.SignalMeta == nil {
		return ""
	}
	return r.SignalMeta.Label
}

// IsHiringSignal reports whether the record's signal is an open role.
func (r *Record) IsHiringSignal() bool {
	return r.SignalMeta != nil && r.SignalMeta.Kind == SignalKindHiringRole
}

// DemandKey derives the stable identity of a demand record: the ingestion
// record key when present, then the contact name, then company and title.
func DemandKey(r *Record) string {
	if r.RecordKey != "" {
		return r.RecordKey
	}
	if r.FullName != "" {
		return r.FullName
	}
	return r.Company + "-" + r.Title
}

// SupplyKey derives the stable identity of a supply record. Suppliers are
// frequently keyed by domain, so it is preferred over the contact name.
func SupplyKey(r *Record) string {
	if r.RecordKey != "" {
		return r.RecordKey
	}
	if r.Domain != "" {
		return r.Domain
	}
	if r.FullName != "" {
		return r.FullName
	}
	return r.Company + "-" + r.Title
}
