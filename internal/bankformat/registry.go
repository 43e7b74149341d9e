package bankformat

import (
	"finbooks/bankrecon/internal/logging"
	"finbooks/bankrecon/internal/models"
)

// Registry is a priority-ordered list of bank format handlers.
// Detection walks the list and the first match wins; the generic handler
// sits last and always matches, so resolution can never fail.
type Registry struct {
	handlers []Handler
	logger   logging.Logger
}

// NewRegistry builds a registry with the default handler ordering.
// More specific fingerprints come before looser ones.
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Registry{
		handlers: []Handler{
			&FNBHandler{},
			&StandardHandler{},
			&ABSAHandler{},
			&NedbankHandler{},
			&CapitecHandler{},
			&GenericHandler{},
		},
		logger: logger,
	}
}

// Detect returns the first handler recognizing the statement. The generic
// fallback guarantees a non-nil result.
func (r *Registry) Detect(rawText string, acct *models.AccountInfo) Handler {
	for _, h := range r.handlers {
		if h.Detect(rawText, acct) {
			r.logger.WithField(logging.FieldBank, h.Name()).Debug("Detected bank format")
			return h
		}
	}
	// Unreachable as long as the generic handler is registered, but keep
	// the guarantee explicit.
	return &GenericHandler{}
}

// Get resolves a handler by identifier. Unknown identifiers resolve to the
// generic handler rather than failing.
func (r *Registry) Get(id BankID) Handler {
	for _, h := range r.handlers {
		if h.ID() == id {
			return h
		}
	}
	return &GenericHandler{}
}

// Handlers returns the registered handlers in detection order.
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}
