package transcription

// Status is a recording's position in the transcription lifecycle.
type Status string

const (
	StatusUntranscribed Status = "UNTRANSCRIBED"
	StatusTranscribing  Status = "TRANSCRIBING"
	StatusDone          Status = "DONE"
	StatusFailed        Status = "FAILED"
)

var transitions = map[Status][]Status{
	StatusUntranscribed: {StatusTranscribing},
	StatusTranscribing:  {StatusTranscribing, StatusDone, StatusFailed},
	StatusDone:          {StatusTranscribing},
	StatusFailed:        {StatusTranscribing},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s ends a transcription attempt.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// CanTransition reports whether a recording may move from one status to another.
// Writing the same terminal status again is allowed so updates stay idempotent.
func CanTransition(from, to Status) bool {
	if from == "" {
		from = StatusUntranscribed
	}
	if from == to && to != StatusUntranscribed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// MarkTranscribing returns a copy of r entering TRANSCRIBING with stale text cleared.
func MarkTranscribing(r Recording) Recording {
	r.Status = StatusTranscribing
	r.TranscribedText = ""
	return r
}

// MarkDone returns a copy of r in DONE carrying text.
func MarkDone(r Recording, text string) Recording {
	r.Status = StatusDone
	r.TranscribedText = text
	return r
}

// MarkFailed returns a copy of r in FAILED with text cleared.
func MarkFailed(r Recording) Recording {
	r.Status = StatusFailed
	r.TranscribedText = ""
	return r
}
