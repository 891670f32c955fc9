package elementpath

import "sync"

var claimedPool = sync.Pool{
	New: func() any {
		return make(map[string]struct{}, 32)
	},
}

// Uniquifier hands out paths that are unique within one document. The first
// claimant of a path keeps it; later claimants get numeric suffixes starting
// at 2. A Uniquifier is not safe for concurrent use.
type Uniquifier struct {
	claimed map[string]struct{}
}

// NewUniquifier returns an empty Uniquifier.
func NewUniquifier() *Uniquifier {
	return &Uniquifier{claimed: claimedPool.Get().(map[string]struct{})}
}

// Claim records and returns candidate if it is free; otherwise it returns the
// first free of candidate2, candidate3, and so on. At most Len()+1 suffixes
// are tried, one of which is always free.
func (u *Uniquifier) Claim(candidate string) string {
	if _, taken := u.claimed[candidate]; !taken {
		u.claimed[candidate] = struct{}{}
		return candidate
	}

	b := AcquireBuilder()
	defer b.Release()
	b.WriteString(candidate)
	base := b.Len()

	limit := len(u.claimed) + 1
	for n := 2; n <= limit+1; n++ {
		b.Truncate(base)
		b.AppendSuffix(n)
		path := b.String()
		if _, taken := u.claimed[path]; !taken {
			u.claimed[path] = struct{}{}
			return path
		}
	}

	// Unreachable: len(claimed) paths cannot occupy len(claimed)+1 candidates.
	panic("elementpath: suffix search exhausted for " + candidate)
}

// Contains reports whether path has been claimed.
func (u *Uniquifier) Contains(path string) bool {
	_, ok := u.claimed[path]
	return ok
}

// Len returns the number of claimed paths.
func (u *Uniquifier) Len() int {
	return len(u.claimed)
}

// Release clears the Uniquifier and returns its storage to the pool. The
// Uniquifier must not be used afterwards.
func (u *Uniquifier) Release() {
	if u == nil || u.claimed == nil {
		return
	}
	if len(u.claimed) <= 1024 {
		clear(u.claimed)
		claimedPool.Put(u.claimed)
	}
	u.claimed = nil
}
