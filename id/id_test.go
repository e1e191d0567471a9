package id_test

import (
	"strings"
	"testing"

	"github.com/pawhub/leash/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"UserID", id.NewUserID, "user_"},
		{"ShelterID", id.NewShelterID, "shlt_"},
		{"AnimalID", id.NewAnimalID, "anim_"},
		{"ApplicationID", id.NewApplicationID, "appl_"},
		{"MessageID", id.NewMessageID, "msg_"},
		{"NotificationID", id.NewNotificationID, "ntf_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixAnimal)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixAnimal {
		t.Errorf("expected prefix %q, got %q", id.PrefixAnimal, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := id.NewApplicationID()
	parsed, err := id.ParseApplicationID(orig.String())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", parsed.String(), orig.String())
	}
}

func TestParseWithPrefixRejectsMismatch(t *testing.T) {
	animal := id.NewAnimalID()
	if _, err := id.ParseShelterID(animal.String()); err == nil {
		t.Fatal("expected prefix mismatch error")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "not a typeid", "anim_!!!"} {
		if _, err := id.Parse(s); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", s)
		}
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	orig := id.NewMessageID()
	data, err := orig.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatal(err)
	}
	if decoded.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", decoded.String(), orig.String())
	}

	var zero id.ID
	if err := zero.UnmarshalText(nil); err != nil {
		t.Fatal(err)
	}
	if !zero.IsNil() {
		t.Error("empty text should decode as Nil")
	}
}

func TestScanAndValue(t *testing.T) {
	orig := id.NewUserID()
	v, err := orig.Value()
	if err != nil {
		t.Fatal(err)
	}
	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatal(err)
	}
	if scanned.String() != orig.String() {
		t.Errorf("round trip: got %q, want %q", scanned.String(), orig.String())
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNil.IsNil() {
		t.Error("nil should scan as Nil")
	}

	if err := fromNil.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
}
