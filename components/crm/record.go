// Package crm implements the candidate record workflow: call dispositions,
// activity history, profile field editing, and outbound messaging.
package crm

import "strings"

// Disposition is the outcome recorded after a candidate call.
type Disposition string

// Call dispositions, covering the pipeline from first dial to deployment.
const (
	CallAttemptNoAnswer                 Disposition = "CALL_ATTEMPT_NO_ANSWER"
	CallAttemptNotReachable             Disposition = "CALL_ATTEMPT_NOT_REACHABLE"
	CallAttemptWrongNumber              Disposition = "CALL_ATTEMPT_WRONG_NUMBER"
	CallAttemptBusyDeclined             Disposition = "CALL_ATTEMPT_BUSY_DECLINED"
	VoicemailSent                       Disposition = "VOICEMAIL_SENT"
	FollowUpScheduled                   Disposition = "FOLLOW_UP_SCHEDULED"
	ConnectedScreeningCompleted         Disposition = "CONNECTED_SCREENING_COMPLETED"
	ConnectedInterested                 Disposition = "CONNECTED_INTERESTED"
	ConnectedNotInterested              Disposition = "CONNECTED_NOT_INTERESTED"
	ConnectedRequestedCallback          Disposition = "CONNECTED_REQUESTED_CALLBACK"
	ConnectedNeedsMoreInfo              Disposition = "CONNECTED_NEEDS_MORE_INFO"
	QualifiedMeetsAllCriteria           Disposition = "QUALIFIED_MEETS_ALL_CRITERIA"
	PartiallyQualifiedMissingDocuments  Disposition = "PARTIALLY_QUALIFIED_MISSING_DOCUMENTS"
	PartiallyQualifiedMissingExperience Disposition = "PARTIALLY_QUALIFIED_MISSING_EXPERIENCE"
	NotQualified                        Disposition = "NOT_QUALIFIED"
	UnderReviewVerificationInProgress   Disposition = "UNDER_REVIEW_VERIFICATION_IN_PROGRESS"
	DocumentsSubmittedPendingReview     Disposition = "DOCUMENTS_SUBMITTED_PENDING_REVIEW"
	DocumentsApproved                   Disposition = "DOCUMENTS_APPROVED"
	DocumentsRejectedReuploadRequired   Disposition = "DOCUMENTS_REJECTED_REUPLOAD_REQUIRED"
	VerificationCompleted               Disposition = "VERIFICATION_COMPLETED"
	VerificationFailed                  Disposition = "VERIFICATION_FAILED"
	InterviewScheduled                  Disposition = "INTERVIEW_SCHEDULED"
	InterviewRescheduled                Disposition = "INTERVIEW_RESCHEDULED"
	InterviewCompletedSelected          Disposition = "INTERVIEW_COMPLETED_SELECTED"
	InterviewCompletedOnHold            Disposition = "INTERVIEW_COMPLETED_ON_HOLD"
	InterviewCompletedRejected          Disposition = "INTERVIEW_COMPLETED_REJECTED"
	CandidateNoShowInterview            Disposition = "CANDIDATE_NO_SHOW_INTERVIEW"
	OfferExtended                       Disposition = "OFFER_EXTENDED"
	OfferAccepted                       Disposition = "OFFER_ACCEPTED"
	OfferDeclined                       Disposition = "OFFER_DECLINED"
	OnboardingInitiated                 Disposition = "ONBOARDING_INITIATED"
	OnboardingCompleted                 Disposition = "ONBOARDING_COMPLETED"
	CandidateUnresponsive               Disposition = "CANDIDATE_UNRESPONSIVE"
	CandidateWithdrewApplication        Disposition = "CANDIDATE_WITHDREW_APPLICATION"
	CandidateJoinedAnotherEmployer      Disposition = "CANDIDATE_JOINED_ANOTHER_EMPLOYER"
	DuplicateApplication                Disposition = "DUPLICATE_APPLICATION"
	ApplicationClosedByEmployer         Disposition = "APPLICATION_CLOSED_BY_EMPLOYER"
	VisaDocumentationStarted            Disposition = "VISA_DOCUMENTATION_STARTED"
	VisaApproved                        Disposition = "VISA_APPROVED"
	TravelScheduled                     Disposition = "TRAVEL_SCHEDULED"
	CandidateDeployed                   Disposition = "CANDIDATE_DEPLOYED"
	DeploymentDelayed                   Disposition = "DEPLOYMENT_DELAYED"
)

// Dispositions lists every valid disposition in pipeline order.
func Dispositions() []Disposition {
	return []Disposition{
		CallAttemptNoAnswer, CallAttemptNotReachable, CallAttemptWrongNumber,
		CallAttemptBusyDeclined, VoicemailSent, FollowUpScheduled,
		ConnectedScreeningCompleted, ConnectedInterested, ConnectedNotInterested,
		ConnectedRequestedCallback, ConnectedNeedsMoreInfo, QualifiedMeetsAllCriteria,
		PartiallyQualifiedMissingDocuments, PartiallyQualifiedMissingExperience,
		NotQualified, UnderReviewVerificationInProgress, DocumentsSubmittedPendingReview,
		DocumentsApproved, DocumentsRejectedReuploadRequired, VerificationCompleted,
		VerificationFailed, InterviewScheduled, InterviewRescheduled,
		InterviewCompletedSelected, InterviewCompletedOnHold, InterviewCompletedRejected,
		CandidateNoShowInterview, OfferExtended, OfferAccepted, OfferDeclined,
		OnboardingInitiated, OnboardingCompleted, CandidateUnresponsive,
		CandidateWithdrewApplication, CandidateJoinedAnotherEmployer, DuplicateApplication,
		ApplicationClosedByEmployer, VisaDocumentationStarted, VisaApproved,
		TravelScheduled, CandidateDeployed, DeploymentDelayed,
	}
}

// ValidDisposition reports whether d is one of the known dispositions.
func ValidDisposition(d Disposition) bool {
	for _, known := range Dispositions() {
		if d == known {
			return true
		}
	}
	return false
}

// Language is a candidate's spoken languages.
type Language struct {
	MotherTongue string   `json:"motherTongue,omitempty"`
	Other        []string `json:"other,omitempty"`
}

// Location is a candidate's current location.
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}

// Salary is the compensation attached to a job snapshot.
type Salary struct {
	Min      float64 `json:"min,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// JobSnapshot is the job the candidate is being worked against.
type JobSnapshot struct {
	Title   string `json:"title,omitempty"`
	Company string `json:"company,omitempty"`
	Salary  Salary `json:"salary,omitempty"`
}

// CandidateRecord is one candidate in the calling workflow.
type CandidateRecord struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId,omitempty"`
	FullName      string      `json:"fullName"`
	PhoneNumber   string      `json:"phoneNumber,omitempty"`
	TargetCountry string      `json:"targetCountry,omitempty"`
	TargetJobRole string      `json:"targetJobRole,omitempty"`
	Skills        []string    `json:"skills,omitempty"`
	Language      Language    `json:"language,omitempty"`
	DOB           string      `json:"dob,omitempty"`
	Gender        string      `json:"gender,omitempty"`
	Location      Location    `json:"location,omitempty"`
	Education     string      `json:"education,omitempty"`
	Experience    string      `json:"experience,omitempty"`
	JobSnapshot   JobSnapshot `json:"jobSnapshot,omitempty"`
}

// FormatLanguages renders a Language as the editable "mother | a, b" form.
func FormatLanguages(l Language) string {
	return l.MotherTongue + " | " + strings.Join(l.Other, ", ")
}

// ParseLanguages parses the editable form back into a Language. Everything
// before the first pipe is the mother tongue; the rest is a comma list.
func ParseLanguages(s string) Language {
	mother, rest, _ := strings.Cut(s, "|")
	return Language{
		MotherTongue: strings.TrimSpace(mother),
		Other:        splitTrim(rest, ","),
	}
}

// FormatLocation renders a Location as "city, state, country", skipping
// empty parts.
func FormatLocation(l Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseLocation parses "city, state, country" positionally.
func ParseLocation(s string) Location {
	parts := strings.SplitN(s, ",", 3)
	var loc Location
	if len(parts) > 0 {
		loc.City = strings.TrimSpace(parts[0])
	}
	if len(parts) > 1 {
		loc.State = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		loc.Country = strings.TrimSpace(parts[2])
	}
	return loc
}

// ParseSkills splits a comma-separated skill list, dropping empties.
func ParseSkills(s string) []string {
	return splitTrim(s, ",")
}

// FormatSkills joins skills for editing.
func FormatSkills(skills []string) string {
	return strings.Join(skills, ", ")
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
