package controller

// Kind tags the variant of a submission outcome.
type Kind int

const (
	// KindSuccess means the archive service returned a snapshot URL.
	KindSuccess Kind = iota
	// KindCaptchaPending means a captcha challenge was still blocking the
	// submission when its wait allowance lapsed.
	KindCaptchaPending
	// KindTimedOut means no result appeared within the configured budget,
	// after all configured input mechanisms were tried.
	KindTimedOut
	// KindFailure covers everything else: missing elements, browser-layer
	// faults, invalid requests.
	KindFailure
)

// String returns a human-readable name for the outcome kind.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindCaptchaPending:
		return "captcha-pending"
	case KindTimedOut:
		return "timed-out"
	case KindFailure:
		return "failure"
	}
	return "unknown"
}

// Outcome is the single structured result of one Submit call.
// Exactly one Outcome is produced per run; ArchivedURL is set only
// for KindSuccess, Reason only for non-success kinds.
type Outcome struct {
	Kind        Kind   `json:"kind"`
	ArchivedURL string `json:"archived_url,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// OK reports whether the outcome maps to a zero exit status.
func (o Outcome) OK() bool {
	return o.Kind == KindSuccess
}

// Success builds a successful outcome carrying the snapshot URL.
func Success(archivedURL string) Outcome {
	return Outcome{Kind: KindSuccess, ArchivedURL: archivedURL}
}

// CaptchaPending builds the outcome for an unresolved captcha challenge.
func CaptchaPending(reason string) Outcome {
	return Outcome{Kind: KindCaptchaPending, Reason: reason}
}

// TimedOut builds the outcome for an exhausted wait budget.
func TimedOut(reason string) Outcome {
	return Outcome{Kind: KindTimedOut, Reason: reason}
}

// Failure builds the outcome for any non-timeout error condition.
func Failure(reason string) Outcome {
	return Outcome{Kind: KindFailure, Reason: reason}
}
