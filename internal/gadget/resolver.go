package gadget

import (
	"fmt"
	"log/slog"
)

// compositionLinker walks a composition string and links each token's
// endpoint at the next sequential slot. One linker lives for the duration of
// a single composition attempt; the slot counter is never reset between
// sub-calls because the host derives interface numbering from link order.
type compositionLinker struct {
	ops     Ops
	catalog *Catalog
	fc      FunctionConfig
	logger  *slog.Logger
	slot    int
}

// linkComposition links every token of comp in order. When includeAdb is
// false the adb token is skipped silently; ADB is only ever appended as the
// terminal function by the orchestrator. Fails fast on the first unknown
// token, leaving already-linked slots for the caller to unlink.
func (l *compositionLinker) linkComposition(comp string, includeAdb bool) error {
	for _, token := range splitComposition(comp) {
		if !includeAdb && token == "adb" {
			continue
		}
		endpoint, err := l.catalog.Endpoint(token, l.fc)
		if err != nil {
			return fmt.Errorf("composition %q: %w", comp, err)
		}
		l.logger.Info("linking function", "token", token, "endpoint", endpoint, "slot", l.slot)
		if err := l.ops.LinkFunction(endpoint, l.slot); err != nil {
			return fmt.Errorf("composition %q: %w", comp, err)
		}
		l.slot++
	}
	return nil
}
