package tracker_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/shuffle/internal/tracker"
)

func Test_ParseMode_Accepts_Known_Modes_Case_Insensitively(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]tracker.Mode{
		"unchanged":   tracker.ModeUnchanged,
		"Prefixed":    tracker.ModePrefixed,
		" PREFIXED ":  tracker.ModePrefixed,
		"unchanged\t": tracker.ModeUnchanged,
	} {
		got, err := tracker.ParseMode(input)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q)=(%v,%v), want %v", input, got, err, want)
		}
	}

	if _, err := tracker.ParseMode("shuffled"); !errors.Is(err, tracker.ErrBadMode) {
		t.Fatalf("err=%v, want ErrBadMode", err)
	}
}

func Test_Synthesize_Tracks_Each_Name_Once(t *testing.T) {
	t.Parallel()

	got := tracker.Synthesize([]string{"a.txt", "", "a.txt", "b.txt"})

	want := tracker.Table{
		Mode:    tracker.ModeUnchanged,
		Records: []tracker.Record{{Original: "a.txt", Current: "a.txt"}, {Original: "b.txt", Current: "b.txt"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func Test_SetMode_Leaves_Names_Alone(t *testing.T) {
	t.Parallel()

	table := tracker.Table{Records: []tracker.Record{{Original: "a.txt", Current: "_1a.txt"}}}
	table.SetMode(tracker.ModePrefixed)

	if table.Mode != tracker.ModePrefixed {
		t.Fatalf("mode=%v, want prefixed", table.Mode)
	}

	if table.Records[0] != (tracker.Record{Original: "a.txt", Current: "_1a.txt"}) {
		t.Fatalf("record changed: %+v", table.Records[0])
	}

	if table.Index("a.txt") != 0 || table.Index("_1a.txt") != -1 {
		t.Fatal("Index should match originals only")
	}
}
