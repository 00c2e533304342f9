package registration

// Form is the input of one submission. The validate tags only bound the
// size of what a client may post; the registration rules run in Submit.
type Form struct {
	Email           string `json:"email" form:"email" validate:"max=320"`
	Password        string `json:"password" form:"password" validate:"max=1024"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"max=1024"`
}

// State is what the registration view renders.
type State struct {
	IsLoading    bool   `json:"is_loading"`
	ErrorMessage string `json:"error_message"`
	Success      bool   `json:"success"`
}

// Phase is the position of a Submission in the protocol.
type Phase int

const (
	// PhasePending is a submission that has not been stepped yet.
	PhasePending Phase = iota
	// PhaseSubmitting follows the loading emission.
	PhaseSubmitting
	// PhaseFailed is terminal: validation or the provider refused the form.
	PhaseFailed
	// PhaseSucceeded follows a completed signup, before the redirect.
	PhaseSucceeded
	// PhaseRedirected is terminal: the redirect fired and Success was reset.
	PhaseRedirected
	// PhaseAborted is terminal: the context ended during a suspension.
	PhaseAborted
)

var phaseNames = [...]string{"pending", "submitting", "failed", "succeeded", "redirected", "aborted"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// Terminal reports whether no further Step is possible.
func (p Phase) Terminal() bool {
	return p == PhaseFailed || p == PhaseRedirected || p == PhaseAborted
}
