package entity

import (
	"errors"
	"testing"
)

func TestConversationKeySymmetry(t *testing.T) {
	cases := []struct {
		name string
		a, b Participant
		want string
	}{
		{
			name: "user before company by type",
			a:    Participant{Type: "user", ID: "1"},
			b:    Participant{Type: "company", ID: "5"},
			want: "company_5_user_1",
		},
		{
			name: "same type orders by id",
			a:    Participant{Type: "user", ID: "9"},
			b:    Participant{Type: "user", ID: "10"},
			want: "user_10_user_9",
		},
		{
			name: "self conversation",
			a:    Participant{Type: "user", ID: "1"},
			b:    Participant{Type: "user", ID: "1"},
			want: "user_1_user_1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			forward, err := ConversationKey(tc.a, tc.b)
			if err != nil {
				t.Fatalf("ConversationKey(a, b) returned error: %v", err)
			}
			backward, err := ConversationKey(tc.b, tc.a)
			if err != nil {
				t.Fatalf("ConversationKey(b, a) returned error: %v", err)
			}
			if forward != backward {
				t.Errorf("key is not symmetric: %q vs %q", forward, backward)
			}
			if forward != tc.want {
				t.Errorf("got key %q, want %q", forward, tc.want)
			}
		})
	}
}

func TestConversationKeyInvalid(t *testing.T) {
	valid := Participant{Type: "user", ID: "1"}
	invalid := []Participant{
		{Type: "", ID: "1"},
		{Type: "user", ID: ""},
		{Type: "   ", ID: "1"},
		{},
	}
	for _, p := range invalid {
		if _, err := ConversationKey(valid, p); !errors.Is(err, ErrInvalidParticipant) {
			t.Errorf("ConversationKey(valid, %+v): got %v, want ErrInvalidParticipant", p, err)
		}
		if _, err := ConversationKey(p, valid); !errors.Is(err, ErrInvalidParticipant) {
			t.Errorf("ConversationKey(%+v, valid): got %v, want ErrInvalidParticipant", p, err)
		}
	}
}

func TestOrderParticipantsStable(t *testing.T) {
	a := Participant{Type: "company", ID: "5"}
	b := Participant{Type: "user", ID: "1"}

	first, second := OrderParticipants(a, b)
	if first != a || second != b {
		t.Errorf("OrderParticipants(a, b) = %+v, %+v", first, second)
	}
	first, second = OrderParticipants(b, a)
	if first != a || second != b {
		t.Errorf("OrderParticipants(b, a) = %+v, %+v", first, second)
	}
}

func TestRoom(t *testing.T) {
	p := Participant{Type: "company", ID: "42"}
	if got := p.Room(); got != "company_42" {
		t.Errorf("Room() = %q, want %q", got, "company_42")
	}
}
