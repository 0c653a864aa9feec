package models

import (
	"strings"

	dErrors "protokollo/pkg/domain-errors"
)

// CreateRequest is the submission payload. Category arrives separately as a
// URL tag and is resolved before validation.
type CreateRequest struct {
	Issuer          string   `json:"issuer"`
	ReferenceNumber string   `json:"referenceNumber"`
	Subject         string   `json:"subject"`
	Recipient       string   `json:"recipient,omitempty"`
	Offices         []string `json:"offices,omitempty"`
	EntryDate       *Date    `json:"entryDate,omitempty"`
}

// Validate checks required-field presence for the given category. The
// incoming/outgoing rule lives here, next to the enumeration, so no caller
// re-implements it: incoming registrations route to offices, outgoing ones
// name a recipient.
func (req *CreateRequest) Validate(c Category) error {
	if strings.TrimSpace(req.Issuer) == "" {
		return dErrors.New(dErrors.CodeValidation, "issuer is required").WithField("issuer")
	}
	if strings.TrimSpace(req.ReferenceNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "referenceNumber is required").WithField("referenceNumber")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return dErrors.New(dErrors.CodeValidation, "subject is required").WithField("subject")
	}
	if c.Outgoing() {
		if strings.TrimSpace(req.Recipient) == "" {
			return dErrors.New(dErrors.CodeValidation, "recipient is required for outgoing categories").WithField("recipient")
		}
		if len(req.Offices) > 0 {
			return dErrors.New(dErrors.CodeValidation, "offices are not accepted for outgoing categories").WithField("offices")
		}
	}
	if c.Incoming() {
		if len(req.Offices) == 0 {
			return dErrors.New(dErrors.CodeValidation, "at least one office is required for incoming categories").WithField("offices")
		}
		if req.Recipient != "" {
			return dErrors.New(dErrors.CodeValidation, "recipient is not accepted for incoming categories").WithField("recipient")
		}
		seen := make(map[string]bool, len(req.Offices))
		for _, code := range req.Offices {
			if strings.TrimSpace(code) == "" {
				return dErrors.New(dErrors.CodeValidation, "office codes must be non-empty").WithField("offices")
			}
			if seen[code] {
				return dErrors.Newf(dErrors.CodeValidation, "duplicate office code %q", code).WithField("offices")
			}
			seen[code] = true
		}
	}
	return nil
}

// SortKey orders listing results.
type SortKey string

const (
	// SortByDate orders by creation time, most recent first.
	SortByDate SortKey = "date"
	// SortByProtocol orders by protocol number, highest first.
	SortByProtocol SortKey = "protocol"
)

// ParseSortKey resolves an external sort value; empty defaults to date.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", string(SortByDate):
		return SortByDate, nil
	case string(SortByProtocol):
		return SortByProtocol, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown sort key %q", s).WithField("sort")
}

// ListQuery selects and orders registrations for one period.
type ListQuery struct {
	Period Period
	Tier   Tier // optional; empty means all tiers
	Sort   SortKey
}

// ListResult carries the ordered page plus the total number of live
// registrations in the period regardless of the tier filter.
type ListResult struct {
	Month Period          `json:"month"`
	Items []*Registration `json:"items"`
	Total int             `json:"total"`
}
