package rename_test

import (
	"fmt"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/calvinalkan/shuffle/internal/fs"
	"github.com/calvinalkan/shuffle/internal/prefix"
	"github.com/calvinalkan/shuffle/internal/rename"
	"github.com/calvinalkan/shuffle/internal/tracker"
)

// -----------------------------------------------------------------------------
// FuzzApply_RevertRestoresNames
//
// Property: whatever subset of renames fails during Apply, a clean Revert
// afterwards leaves exactly the original files, each with its own content.
// -----------------------------------------------------------------------------

func FuzzApply_RevertRestoresNames(f *testing.F) {
	f.Add(int64(0), uint8(0))
	f.Add(int64(1), uint8(1))
	f.Add(int64(-1), uint8(7))
	f.Add(int64(math.MaxInt64), uint8(32))
	f.Add(int64(12345), uint8(200))

	f.Fuzz(func(t *testing.T, seed int64, count uint8) {
		n := int(count % 40)
		rng := rand.New(rand.NewSource(seed))

		names := make([]string, 0, n)
		seen := make(map[string]bool, n)

		for len(names) < n {
			// Letters only: names starting with "_<digit>" can collide with
			// prefixed names, which is covered by the collision tests.
			name := fmt.Sprintf("%c%d.txt", 'a'+rune(rng.Intn(26)), rng.Intn(100))
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}

		dir := t.TempDir()
		makeFiles(t, dir, names...)

		chaos := fs.NewChaos(fs.NewReal(), seed, fs.ChaosConfig{RenameFailRate: 0.3})
		chaos.SetMode(fs.ChaosModeInject)

		applied, report := rename.New(chaos, dir).Apply(tracker.Synthesize(names), prefix.Generate(n))
		if got, want := len(report.Outcomes), n; got != want {
			t.Fatalf("outcomes=%d, want=%d", got, want)
		}

		rename.New(fs.NewReal(), dir).Revert(applied)

		want := slices.Clone(names)
		slices.Sort(want)

		got := listDir(t, dir)
		if !slices.Equal(got, want) {
			t.Fatalf("files after revert=%v, want=%v", got, want)
		}

		for _, name := range names {
			if content := fileContent(t, dir, name); content != name {
				t.Fatalf("%s holds %q", name, content)
			}
		}
	})
}
