package nms

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Outcome classifies a registry lookup.
type Outcome int

const (
	// OutcomeFound means a provider was constructed for the tag.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means no factory is registered for the tag.
	OutcomeNotFound
	// OutcomeWrongCapability means the factory produced no usable provider
	// without reporting an error.
	OutcomeWrongCapability
	// OutcomeConstructionError means the factory failed.
	OutcomeConstructionError
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeWrongCapability:
		return "wrong_capability"
	case OutcomeConstructionError:
		return "construction_error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result is the outcome of Registry.Lookup.
// Provider is non-nil only for OutcomeFound; Err is set for every other outcome.
type Result struct {
	Tag      string
	Outcome  Outcome
	Provider Provider
	Err      error
}

// Ok reports whether the lookup produced a provider.
func (r Result) Ok() bool {
	return r.Outcome == OutcomeFound && r.Provider != nil
}

// Sentinel errors carried by Result.Err, test with errors.Is.
var (
	ErrAdapterNotFound           = errors.New("no adapter registered")
	ErrAdapterWrongCapability    = errors.New("adapter does not provide native mappings")
	ErrAdapterConstructionFailed = errors.New("adapter construction failed")
)

func found(tag string, p Provider) Result {
	return Result{Tag: tag, Outcome: OutcomeFound, Provider: p}
}

func notFound(tag string) Result {
	return Result{
		Tag:     tag,
		Outcome: OutcomeNotFound,
		Err:     errors.Wrapf(ErrAdapterNotFound, "tag %s", tag),
	}
}

func wrongCapability(tag, detail string) Result {
	return Result{
		Tag:     tag,
		Outcome: OutcomeWrongCapability,
		Err:     errors.Wrapf(ErrAdapterWrongCapability, "tag %s: %s", tag, detail),
	}
}

func constructionError(tag string, cause error) Result {
	return Result{
		Tag:     tag,
		Outcome: OutcomeConstructionError,
		Err:     errors.Mark(errors.Wrapf(cause, "construct adapter for %s", tag), ErrAdapterConstructionFailed),
	}
}
