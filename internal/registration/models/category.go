package models

import (
	dErrors "protokollo/pkg/domain-errors"
)

// Category is the six-way classification of a registration: three tiers,
// each split into an incoming and an outgoing book. The set is closed; a
// wrong mapping here misfiles a legal record, so parsing rejects anything
// outside it instead of defaulting.
type Category string

const (
	CommonIncoming       Category = "common_incoming"
	CommonOutgoing       Category = "common_outgoing"
	ConfidentialIncoming Category = "confidential_incoming"
	ConfidentialOutgoing Category = "confidential_outgoing"
	SignalsIncoming      Category = "signals_incoming"
	SignalsOutgoing      Category = "signals_outgoing"
)

// Tier is the classification level shared by an incoming/outgoing pair.
// Listing filters operate on tiers, not on full categories.
type Tier string

const (
	TierCommon       Tier = "common"
	TierConfidential Tier = "confidential"
	TierSignals      Tier = "signals"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CommonIncoming,
	CommonOutgoing,
	ConfidentialIncoming,
	ConfidentialOutgoing,
	SignalsIncoming,
	SignalsOutgoing,
}

// ParseCategory resolves an external category tag. Unknown tags are rejected
// with a validation error.
func ParseCategory(tag string) (Category, error) {
	switch c := Category(tag); c {
	case CommonIncoming, CommonOutgoing,
		ConfidentialIncoming, ConfidentialOutgoing,
		SignalsIncoming, SignalsOutgoing:
		return c, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown category %q", tag).WithField("category")
}

// ParseTier resolves a listing filter value.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierCommon, TierConfidential, TierSignals:
		return t, nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown tier %q", s).WithField("tier")
}

// Tier returns the classification level of the category.
func (c Category) Tier() Tier {
	switch c {
	case CommonIncoming, CommonOutgoing:
		return TierCommon
	case ConfidentialIncoming, ConfidentialOutgoing:
		return TierConfidential
	default:
		return TierSignals
	}
}

// Incoming reports whether the category is an incoming book. Incoming
// registrations carry routing offices; outgoing ones carry a recipient.
func (c Category) Incoming() bool {
	switch c {
	case CommonIncoming, ConfidentialIncoming, SignalsIncoming:
		return true
	}
	return false
}

// Outgoing reports whether the category is an outgoing book. Only outgoing
// registrations receive a draft number.
func (c Category) Outgoing() bool {
	switch c {
	case CommonOutgoing, ConfidentialOutgoing, SignalsOutgoing:
		return true
	}
	return false
}

func (c Category) String() string { return string(c) }

// TierCategories returns the two categories belonging to a tier.
func TierCategories(t Tier) []Category {
	switch t {
	case TierCommon:
		return []Category{CommonIncoming, CommonOutgoing}
	case TierConfidential:
		return []Category{ConfidentialIncoming, ConfidentialOutgoing}
	case TierSignals:
		return []Category{SignalsIncoming, SignalsOutgoing}
	}
	return nil
}
