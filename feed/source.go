package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gocarina/gocsv"
)

// ParticipantSource lists the current participants.
type ParticipantSource interface {
	Participants(ctx context.Context) ([]Participant, error)
}

// MessageSource lists the most recent messages.
type MessageSource interface {
	Messages(ctx context.Context) ([]Message, error)
}

// HTTPSource reads participants and messages from JSON endpoints.
type HTTPSource struct {
	Fetcher         Fetcher
	ParticipantsURL string
	MessagesURL     string
}

// Participants fetches and decodes the participant list.
// An empty URL yields an empty list.
func (s *HTTPSource) Participants(ctx context.Context) ([]Participant, error) {
	if s.ParticipantsURL == "" {
		return nil, nil
	}
	data, err := s.Fetcher.Fetch(ctx, s.ParticipantsURL)
	if err != nil {
		return nil, err
	}
	var out []Participant
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding participants: %w", err)
	}
	return out, nil
}

// Messages fetches and decodes the message list.
// An empty URL yields an empty list.
func (s *HTTPSource) Messages(ctx context.Context) ([]Message, error) {
	if s.MessagesURL == "" {
		return nil, nil
	}
	data, err := s.Fetcher.Fetch(ctx, s.MessagesURL)
	if err != nil {
		return nil, err
	}
	var out []Message
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding messages: %w", err)
	}
	return out, nil
}

// RosterFile reads participants from a CSV file with an id,name,avatar,department header.
type RosterFile struct {
	Fetcher Fetcher
	Path    string
}

// Participants loads and parses the roster.
func (r *RosterFile) Participants(ctx context.Context) ([]Participant, error) {
	data, err := r.Fetcher.Fetch(ctx, r.Path)
	if err != nil {
		return nil, err
	}
	return ParseRoster(data)
}

// ParseRoster decodes roster CSV bytes. Rows without an id are dropped.
func ParseRoster(data []byte) ([]Participant, error) {
	var rows []Participant
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	out := rows[:0]
	for _, p := range rows {
		if p.ID != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// StaticSource serves fixed lists.
type StaticSource struct {
	People []Participant
	Chat   []Message
}

// Participants returns the fixed participant list.
func (s *StaticSource) Participants(context.Context) ([]Participant, error) {
	return s.People, nil
}

// Messages returns the fixed message list.
func (s *StaticSource) Messages(context.Context) ([]Message, error) {
	return s.Chat, nil
}
