package notify

// Notifier delivers report content to one chat destination. Destinations
// are opaque identifiers owned by the chat platform.
type Notifier interface {
	// SendText delivers a plain-text message.
	SendText(destination, text string) error
	// SendImage delivers an image file with an optional caption.
	SendImage(destination, imagePath, caption string) error
}
