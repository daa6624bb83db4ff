package domain

const (
	MailTypeEventCreated         = "event_created"
	MailTypeParticipantResponded = "participant_responded"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type EventCreatedMailData struct {
	EventName      string `json:"eventName"`
	ShareURL       string `json:"shareURL"`
	OrganizerToken string `json:"organizerToken"`
}

type ParticipantRespondedMailData struct {
	EventName         string      `json:"eventName"`
	ParticipantName   string      `json:"participantName"`
	TotalParticipants int         `json:"totalParticipants"`
	BestBlocks        []TimeBlock `json:"bestBlocks"`
	ResultsURL        string      `json:"resultsURL"`
}
