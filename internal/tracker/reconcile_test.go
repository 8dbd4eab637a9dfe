package tracker_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/shuffle/internal/tracker"
)

func Test_Reconcile_Adds_One_Record_When_File_Added(t *testing.T) {
	t.Parallel()

	for _, mode := range []tracker.Mode{tracker.ModeUnchanged, tracker.ModePrefixed} {
		t.Run(mode.String(), func(t *testing.T) {
			t.Parallel()

			table := tracker.Table{Mode: mode, Records: []tracker.Record{{Original: "a.txt", Current: "a.txt"}}}
			live := []string{"a.txt", "new.txt"}

			got, delta := tracker.Reconcile(table, live, nil)

			want := []tracker.Record{
				{Original: "a.txt", Current: "a.txt"},
				{Original: "new.txt", Current: "new.txt"},
			}

			if diff := cmp.Diff(want, got.Records); diff != "" {
				t.Fatalf("records mismatch (-want +got):\n%s", diff)
			}

			assert.Equal(t, []string{"new.txt"}, delta.Added)
			assert.Empty(t, delta.Removed)
			assert.Equal(t, mode, got.Mode)
		})
	}
}

func Test_Reconcile_Drops_Record_By_Original_When_Unchanged(t *testing.T) {
	t.Parallel()

	table := tracker.Table{
		Mode: tracker.ModeUnchanged,
		Records: []tracker.Record{
			{Original: "a.txt", Current: "_1a.txt"},
			{Original: "b.txt", Current: "_2b.txt"},
		},
	}

	got, delta := tracker.Reconcile(table, []string{"b.txt"}, nil)

	require.Len(t, got.Records, 1)
	assert.Equal(t, "b.txt", got.Records[0].Original)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "a.txt", delta.Removed[0].Original)
}

func Test_Reconcile_Drops_Record_By_Current_When_Prefixed(t *testing.T) {
	t.Parallel()

	table := tracker.Table{
		Mode: tracker.ModePrefixed,
		Records: []tracker.Record{
			{Original: "a.txt", Current: "_1a.txt"},
			{Original: "b.txt", Current: "_2b.txt"},
		},
	}

	got, delta := tracker.Reconcile(table, []string{"_2b.txt"}, nil)

	want := []tracker.Record{{Original: "b.txt", Current: "_2b.txt"}}
	if diff := cmp.Diff(want, got.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, delta.Added)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "_1a.txt", delta.Removed[0].Current)
}

func Test_Reconcile_Does_Not_Add_Name_Known_As_Current(t *testing.T) {
	t.Parallel()

	// After a restore the table still holds the last prefixed names. A live
	// file with one of those names is not treated as new.
	table := tracker.Table{
		Mode:    tracker.ModeUnchanged,
		Records: []tracker.Record{{Original: "a.txt", Current: "_1a.txt"}},
	}

	got, delta := tracker.Reconcile(table, []string{"a.txt", "_1a.txt"}, nil)

	assert.Equal(t, 1, got.Len())
	assert.True(t, delta.Empty())
}

func Test_Reconcile_Is_Idempotent_When_Directory_Unchanged(t *testing.T) {
	t.Parallel()

	table := tracker.Table{
		Mode: tracker.ModePrefixed,
		Records: []tracker.Record{
			{Original: "a.txt", Current: "_2a.txt"},
			{Original: "gone.txt", Current: "_1gone.txt"},
		},
	}
	live := []string{"_2a.txt", "fresh.txt"}

	first, _ := tracker.Reconcile(table, live, nil)
	second, delta := tracker.Reconcile(first, live, nil)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second reconcile changed table (-first +second):\n%s", diff)
	}

	assert.True(t, delta.Empty())
}

func Test_Reconcile_Excludes_Reserved_Names(t *testing.T) {
	t.Parallel()

	reserved := tracker.NewReserved(tracker.DefaultFileName, "shuffle")
	table := tracker.Table{
		Mode: tracker.ModeUnchanged,
		Records: []tracker.Record{
			{Original: "shuffle", Current: "shuffle"},
			{Original: "a.txt", Current: "a.txt"},
		},
	}

	got, delta := tracker.Reconcile(table, []string{"a.txt", tracker.DefaultFileName, "shuffle"}, reserved)

	want := []tracker.Record{{Original: "a.txt", Current: "a.txt"}}
	if diff := cmp.Diff(want, got.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, delta.Added)
	require.Len(t, delta.Removed, 1)
	assert.Equal(t, "shuffle", delta.Removed[0].Original)
}

func Test_Reconcile_Does_Not_Modify_Input(t *testing.T) {
	t.Parallel()

	table := tracker.Table{
		Mode:    tracker.ModeUnchanged,
		Records: []tracker.Record{{Original: "a.txt", Current: "a.txt"}, {Original: "b.txt", Current: "b.txt"}},
	}
	before := table.Clone()

	_, _ = tracker.Reconcile(table, []string{"b.txt"}, nil)

	if diff := cmp.Diff(before, table); diff != "" {
		t.Fatalf("input table mutated (-before +after):\n%s", diff)
	}
}

func Test_Reconcile_Tracks_Name_Again_When_Its_Record_Was_Dropped(t *testing.T) {
	t.Parallel()

	// Prefixed file vanished while a file with the original name appeared.
	table := tracker.Table{
		Mode:    tracker.ModePrefixed,
		Records: []tracker.Record{{Original: "a.txt", Current: "_1a.txt"}},
	}
	live := []string{"a.txt"}

	first, delta := tracker.Reconcile(table, live, nil)

	want := []tracker.Record{{Original: "a.txt", Current: "a.txt"}}
	if diff := cmp.Diff(want, first.Records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"a.txt"}, delta.Added)
	require.Len(t, delta.Removed, 1)

	_, delta = tracker.Reconcile(first, live, nil)
	assert.True(t, delta.Empty())
}
