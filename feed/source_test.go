package feed

import (
	"context"
	"testing"
)

func staticFetcher(body string) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(body), nil
	})
}

func TestHTTPSourceParticipants(t *testing.T) {
	src := &HTTPSource{
		Fetcher:         staticFetcher(`[{"id":"u1","name":"Ada","avatar":"http://x/a.png","is_winner":0},{"id":"u2","name":"Lin","avatar":""}]`),
		ParticipantsURL: "http://example/api/get-participants",
	}
	list, err := src.Participants(context.Background())
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ada" || list[0].AvatarURL != "http://x/a.png" {
		t.Errorf("unexpected participants: %+v", list)
	}
}

func TestHTTPSourceMessages(t *testing.T) {
	src := &HTTPSource{
		Fetcher:     staticFetcher(`[{"id":7,"user_id":"u1","name":"Ada","content":"hello","created_at":1700000000}]`),
		MessagesURL: "http://example/api/get-messages",
	}
	list, err := src.Messages(context.Background())
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(list) != 1 || list[0].ID != 7 || list[0].Content != "hello" {
		t.Errorf("unexpected messages: %+v", list)
	}
}

func TestHTTPSourceEmptyURLs(t *testing.T) {
	src := &HTTPSource{Fetcher: staticFetcher("garbage")}
	if list, err := src.Participants(context.Background()); err != nil || list != nil {
		t.Errorf("expected nil list without url, got %v, %v", list, err)
	}
	if list, err := src.Messages(context.Background()); err != nil || list != nil {
		t.Errorf("expected nil list without url, got %v, %v", list, err)
	}
}

func TestHTTPSourceBadJSON(t *testing.T) {
	src := &HTTPSource{Fetcher: staticFetcher("{not json"), ParticipantsURL: "x"}
	if _, err := src.Participants(context.Background()); err == nil {
		t.Error("expected decode error")
	}
}

func TestParseRoster(t *testing.T) {
	data := []byte("id,name,avatar,department\n" +
		"e1,Ada Lovelace,avatars/ada.png,Engineering\n" +
		",Nobody,,\n" +
		"e2,Lin Wei,,Finance\n")

	list, err := ParseRoster(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 rows with ids, got %d", len(list))
	}
	if list[0].Department != "Engineering" || list[1].Name != "Lin Wei" {
		t.Errorf("unexpected rows: %+v", list)
	}
}

func TestFindParticipant(t *testing.T) {
	list := []Participant{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	if p, ok := FindParticipant(list, "b"); !ok || p.Name != "B" {
		t.Errorf("expected to find b, got %+v %v", p, ok)
	}
	if _, ok := FindParticipant(list, "z"); ok {
		t.Error("expected z to be missing")
	}
}
