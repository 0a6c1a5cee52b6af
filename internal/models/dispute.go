package models

import "time"

// DisputeStatus represents the lifecycle of a dispute.
type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "OPEN"
	DisputeStatusResolved DisputeStatus = "RESOLVED"
)

// DisputeReason enumerates why a student escalated a booking.
type DisputeReason string

const (
	DisputeReasonNoShow    DisputeReason = "NO_SHOW"
	DisputeReasonQuality   DisputeReason = "QUALITY"
	DisputeReasonTechnical DisputeReason = "TECHNICAL"
	DisputeReasonBilling   DisputeReason = "BILLING"
	DisputeReasonOther     DisputeReason = "OTHER"
)

// ValidDisputeReason reports whether the reason is one of the known values.
func ValidDisputeReason(r DisputeReason) bool {
	switch r {
	case DisputeReasonNoShow, DisputeReasonQuality, DisputeReasonTechnical, DisputeReasonBilling, DisputeReasonOther:
		return true
	}
	return false
}

// Dispute links an escalation to a booking. RespondentName is a snapshot of
// the booking's teacher name at filing time. Terminal once resolved.
type Dispute struct {
	ID             string        `json:"id"`
	BookingID      string        `json:"booking_id"`
	ReporterID     string        `json:"reporter_id"`
	RespondentName string        `json:"respondent_name"`
	Reason         DisputeReason `json:"reason"`
	Description    string        `json:"description"`
	Status         DisputeStatus `json:"status"`
	Resolution     *string       `json:"resolution,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
}
