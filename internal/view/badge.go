// Package view turns backend records into what the dashboard displays:
// status badges, allowed actions, buckets and filters.
package view

// StatusBadge is the label and CSS classes of a status pill.
type StatusBadge struct {
	Label      string `json:"label"`
	ColorClass string `json:"color_class"`
}

const fallbackColor = "bg-slate-100 text-slate-700"

func fallbackBadge(raw string) StatusBadge {
	if raw == "" {
		raw = "Unknown"
	}
	return StatusBadge{Label: raw, ColorClass: fallbackColor}
}
