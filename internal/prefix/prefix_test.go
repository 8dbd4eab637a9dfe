package prefix_test

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/shuffle/internal/prefix"
)

func Test_Generate_Returns_Permutation_Of_One_To_N_When_Count_Positive(t *testing.T) {
	t.Parallel()

	for _, count := range []int{1, 2, 7, 100} {
		labels := prefix.Generate(count)

		if len(labels) != count {
			t.Fatalf("count=%d: got %d labels", count, len(labels))
		}

		seen := make(map[int]bool, count)

		for _, label := range labels {
			n, err := strconv.Atoi(label)
			if err != nil {
				t.Fatalf("label %q is not decimal: %v", label, err)
			}

			if n < 1 || n > count {
				t.Fatalf("label %d outside 1..%d", n, count)
			}

			if seen[n] {
				t.Fatalf("label %d repeated", n)
			}

			seen[n] = true
		}
	}
}

func Test_Generate_Returns_Empty_When_Count_Zero(t *testing.T) {
	t.Parallel()

	labels := prefix.Generate(0)
	if labels == nil || len(labels) != 0 {
		t.Fatalf("Generate(0)=%#v, want empty non-nil slice", labels)
	}

	if got := prefix.Generate(-3); len(got) != 0 {
		t.Fatalf("Generate(-3)=%v, want empty", got)
	}
}

func Test_GenerateWith_Uses_Injected_Permutation(t *testing.T) {
	t.Parallel()

	reverse := func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}

		return out
	}

	got := prefix.GenerateWith(reverse, 3)
	if diff := cmp.Diff([]string{"3", "2", "1"}, got); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func Test_Generate_Produces_Every_Order_When_Sampled(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}

	for range 200 {
		seen[prefix.Generate(2)[0]] = true
	}

	if !seen["1"] || !seen["2"] {
		t.Fatalf("first label never varied across 200 draws: %v", seen)
	}
}

func Test_Apply_Then_Strip_Returns_Original(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"a.txt", "report.pdf", "no-ext", ".hidden"} {
		prefixed := prefix.Apply("12", name)

		if !prefix.Has(prefixed) {
			t.Fatalf("Has(%q)=false", prefixed)
		}

		stripped, ok := prefix.Strip(prefixed)
		if !ok || stripped != name {
			t.Fatalf("Strip(%q)=(%q,%v), want (%q,true)", prefixed, stripped, ok, name)
		}
	}
}

func Test_Strip_Handles_Edge_Names(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{name: "_3report.pdf", want: "report.pdf", wantOK: true},
		{name: "_123", want: "", wantOK: true},
		{name: "_2024_09_notes.txt", want: "_09_notes.txt", wantOK: true},
		{name: "_abc.txt", want: "_abc.txt", wantOK: false},
		{name: "_", want: "_", wantOK: false},
		{name: "3report.pdf", want: "3report.pdf", wantOK: false},
		{name: "a_1.txt", want: "a_1.txt", wantOK: false},
		{name: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := prefix.Strip(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Strip(%q)=(%q,%v), want (%q,%v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}
