// Package notification defines the outbound notification port. Delivery
// itself (mail, chat) is an external collaborator; the default
// implementation only records the event in the structured log.
package notification

import (
	"github.com/campushr/hr-management-api/internal/system/log"
)

// Notifier receives submission lifecycle events.
type Notifier interface {
	SubmissionDecided(submissionID, requesterID, status string)
	SubmissionFulfilled(submissionID, requesterID, fulfillerID string)
	TrainingDecided(applicationID, applicantID, status string)
}

// LogNotifier writes events to the structured log.
type LogNotifier struct{}

// NewLogNotifier creates the default log-backed notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) SubmissionDecided(submissionID, requesterID, status string) {
	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Notifier")).Info(
		"Submission decided",
		log.String("submission_id", submissionID),
		log.String("requester_id", requesterID),
		log.String("status", status),
	)
}

func (n *LogNotifier) SubmissionFulfilled(submissionID, requesterID, fulfillerID string) {
	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Notifier")).Info(
		"Submission fulfilled",
		log.String("submission_id", submissionID),
		log.String("requester_id", requesterID),
		log.String("fulfiller_id", fulfillerID),
	)
}

func (n *LogNotifier) TrainingDecided(applicationID, applicantID, status string) {
	log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Notifier")).Info(
		"Training application decided",
		log.String("application_id", applicationID),
		log.String("applicant_id", applicantID),
		log.String("status", status),
	)
}
