package provision

// Interaction is the port through which the engine talks to whatever host
// embeds it. Confirm surfaces a yes/no decision (interactive installs);
// Notify carries progress and warning text to the host's message sink.
// Implementations must be safe to call from the install goroutine.
type Interaction interface {
	Confirm(prompt string) bool
	Notify(text string)
}

// NopInteraction confirms everything and discards notifications. Suitable
// for non-interactive callers that pass RequireConfirmation=false anyway.
type NopInteraction struct{}

// Confirm always answers yes.
func (NopInteraction) Confirm(string) bool { return true }

// Notify discards text.
func (NopInteraction) Notify(string) {}
