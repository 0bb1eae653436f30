package apprepo

import "context"

// ProbeResult classifies the local metadata of an existing mirror.
type ProbeResult int

const (
	// ProbeOK means the mirror is a readable working repository.
	ProbeOK ProbeResult = iota
	// ProbeCorrupt means local metadata is missing or unreadable. The mirror is rebuilt.
	ProbeCorrupt
	// ProbeFailed is any other failure. It never causes deletion.
	ProbeFailed
)

func (p ProbeResult) String() string {
	switch p {
	case ProbeOK:
		return "ok"
	case ProbeCorrupt:
		return "corrupt"
	case ProbeFailed:
		return "failed"
	}
	return "unknown"
}

// Git is the version-control capability the Manager drives.
// Network-facing calls (Clone, Pull, Fetch) must honour ctx cancellation.
type Git interface {
	// Trust registers path as a trusted directory. Adding an existing entry is a no-op.
	Trust(ctx context.Context, path string) error
	Probe(ctx context.Context, path string) (ProbeResult, error)
	Clone(ctx context.Context, url, path string) error
	Pull(ctx context.Context, path string) error
	Fetch(ctx context.Context, path string) error
	// Checkout switches to branch, which must exist on the remote.
	Checkout(ctx context.Context, path, branch string) error
	FetchRefSpecs(path string) ([]string, error)
	SetFetchRefSpecs(path string, specs []string) error
}

// Owner resets filesystem ownership of a mirror. It is best effort and reports nothing.
type Owner interface {
	TakeOwnership(ctx context.Context, path string)
}
