package elementpath

import (
	"fmt"
	"sync"
	"testing"
)

func TestLowerCamel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Simple", "simple"},
		{"OakTree", "oakTree"},
		{"already", "already"},
		{"X", "x"},
		{"", ""},
		{"Émile", "émile"},
	}
	for _, tt := range tests {
		if got := LowerCamel(tt.in); got != tt.want {
			t.Errorf("LowerCamel(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		parent, seg, want string
	}{
		{"", "Simple", "Simple"},
		{"Simple", "value", "Simple.value"},
		{"OakTree.nest", "value", "OakTree.nest.value"},
	}
	for _, tt := range tests {
		if got := Join(tt.parent, tt.seg); got != tt.want {
			t.Errorf("Join(%q, %q) = %q; want %q", tt.parent, tt.seg, got, tt.want)
		}
	}
}

func TestBuilder(t *testing.T) {
	b := AcquireBuilder()
	defer b.Release()

	b.AppendSegment("Group")
	b.AppendSegment("simple")
	mark := b.Len()
	b.AppendSuffix(2)

	if got := b.String(); got != "Group.simple2" {
		t.Errorf("String() = %q; want %q", got, "Group.simple2")
	}

	b.Truncate(mark)
	if got := b.String(); got != "Group.simple" {
		t.Errorf("after Truncate String() = %q; want %q", got, "Group.simple")
	}
}

func TestUniquifierClaim(t *testing.T) {
	u := NewUniquifier()
	defer u.Release()

	claims := []struct {
		candidate string
		want      string
	}{
		{"Group", "Group"},
		{"Group.simple", "Group.simple"},
		{"Group.simple", "Group.simple2"},
		{"Group.simple", "Group.simple3"},
		{"Group.simple2", "Group.simple22"},
		{"Group.choice", "Group.choice"},
	}

	for _, c := range claims {
		if got := u.Claim(c.candidate); got != c.want {
			t.Errorf("Claim(%q) = %q; want %q", c.candidate, got, c.want)
		}
	}

	if u.Len() != len(claims) {
		t.Errorf("Len() = %d; want %d", u.Len(), len(claims))
	}
	if !u.Contains("Group.simple3") {
		t.Error("Contains(Group.simple3) = false; want true")
	}
	if u.Contains("Group.simple4") {
		t.Error("Contains(Group.simple4) = true; want false")
	}
}

func TestUniquifierSkipsPreclaimedSuffixes(t *testing.T) {
	u := NewUniquifier()
	defer u.Release()

	u.Claim("a")
	u.Claim("a2")
	u.Claim("a3")

	if got := u.Claim("a"); got != "a4" {
		t.Errorf("Claim(a) = %q; want a4", got)
	}
}

func TestUniquifierNeverRepeats(t *testing.T) {
	u := NewUniquifier()
	defer u.Release()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		candidate := fmt.Sprintf("p%d", i%7)
		got := u.Claim(candidate)
		if seen[got] {
			t.Fatalf("Claim(%q) returned duplicate %q", candidate, got)
		}
		seen[got] = true
	}
}

func TestUniquifierRelease(t *testing.T) {
	u := NewUniquifier()
	u.Claim("x")
	u.Release()

	fresh := NewUniquifier()
	defer fresh.Release()
	if fresh.Len() != 0 {
		t.Errorf("pooled Uniquifier Len() = %d; want 0", fresh.Len())
	}
}

func TestBuilderPoolConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			want := fmt.Sprintf("Root.seg%d", i)
			if got := Join("Root", fmt.Sprintf("seg%d", i)); got != want {
				t.Errorf("Join() = %q; want %q", got, want)
			}
		}(i)
	}
	wg.Wait()
}
