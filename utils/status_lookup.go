package utils

import (
	"strings"

	"campus-governance-api/models"
)

// EventStatus is a legacy status label split into its governance state and
// its display status.
type EventStatus struct {
	Governance string
	Display    string
}

var (
	// Legacy labels grouped by the governance state they map onto. Labels that
	// only describe registration or visibility also carry a display status.
	eventStatusSynonyms = map[string][]string{
		models.EventStatusCreated: {
			"created",
			"draft",
			"new",
		},
		models.EventStatusPendingApproval: {
			"pending_approval",
			"pending",
			"hod_approval_pending",
			"awaiting_approval",
			"submitted",
		},
		models.EventStatusActive: {
			"active",
			"approved",
			"open",
			"registration_open",
			"registration_closed",
			"live",
			"ongoing",
		},
		models.EventStatusCompleted: {
			"completed",
			"closed",
			"finished",
			"archived",
		},
	}

	displayStatusByAlias = map[string]string{
		"draft":               models.DisplayStatusDraft,
		"open":                models.DisplayStatusRegistrationOpen,
		"registration_open":   models.DisplayStatusRegistrationOpen,
		"registration_closed": models.DisplayStatusRegistrationClosed,
		"live":                models.DisplayStatusLive,
		"ongoing":             models.DisplayStatusLive,
		"archived":            models.DisplayStatusArchived,
	}

	eventStatusAliasToCanonical = buildEventStatusAliasMap()
)

func buildEventStatusAliasMap() map[string]string {
	aliasMap := make(map[string]string)
	for canonical, synonyms := range eventStatusSynonyms {
		aliasMap[normalizeStatusCode(canonical)] = canonical
		for _, alias := range synonyms {
			if normalized := normalizeStatusCode(alias); normalized != "" {
				aliasMap[normalized] = canonical
			}
		}
	}
	return aliasMap
}

// normalizeStatusCode lower-cases and folds spaces and dashes into underscores.
func normalizeStatusCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "_")
	return strings.Join(strings.Fields(code), "_")
}

// CanonicalEventStatus maps a legacy status label onto the governance enum.
// Display is empty when the label says nothing about registration or visibility.
func CanonicalEventStatus(raw string) (EventStatus, bool) {
	normalized := normalizeStatusCode(raw)
	governance, ok := eventStatusAliasToCanonical[normalized]
	if !ok {
		return EventStatus{}, false
	}
	return EventStatus{Governance: governance, Display: displayStatusByAlias[normalized]}, true
}

// IsGovernanceStatus reports whether status is already one of the four canonical states.
func IsGovernanceStatus(status string) bool {
	_, ok := eventStatusSynonyms[status]
	return ok
}
