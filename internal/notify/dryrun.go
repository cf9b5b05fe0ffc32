package notify

import (
	"fmt"
)

// DryRunNotifier prints what would be delivered without sending anything.
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// SendText prints the message that would be sent.
func (n *DryRunNotifier) SendText(destination, text string) error {
	fmt.Printf("[DRY RUN] Would send to %s:\n%s\n\n", destination, text)
	return nil
}

// SendImage prints the image delivery that would happen.
func (n *DryRunNotifier) SendImage(destination, imagePath, caption string) error {
	fmt.Printf("[DRY RUN] Would send image %s to %s (caption: %q)\n", imagePath, destination, caption)
	return nil
}
