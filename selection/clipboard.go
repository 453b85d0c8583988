package selection

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copy writes the selected text to the system clipboard. Copying an
// empty selection is a no-op.
func (m *Machine) Copy() error {
	text := m.Selected()
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("selection: copy to clipboard: %w", err)
	}
	return nil
}
