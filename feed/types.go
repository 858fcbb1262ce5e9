// Package feed supplies the engine's external inputs: participant and message
// lists, and raw bytes for image URLs.
package feed

// Participant is one entrant of the draw.
type Participant struct {
	ID         string `json:"id" csv:"id"`
	Name       string `json:"name" csv:"name"`
	AvatarURL  string `json:"avatar" csv:"avatar"`
	Department string `json:"department,omitempty" csv:"department"`
}

// Message is a chat-style message shown as an orbiting marker.
type Message struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"created_at"`
}

// Snapshot is the latest polled state. Versions increase whenever the
// corresponding list is replaced.
type Snapshot struct {
	Participants        []Participant
	Messages            []Message
	ParticipantsVersion uint64
	MessagesVersion     uint64
}

// FindParticipant returns the participant with the given id.
func FindParticipant(list []Participant, id string) (Participant, bool) {
	for _, p := range list {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}
