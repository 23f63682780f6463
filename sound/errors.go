package sound

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateID       = errors.New("duplicate id")
	ErrMetadataInvalid   = errors.New("metadata invalid")
	ErrRemoteUnavailable = errors.New("remote service unavailable")
	ErrNotFoundUpstream  = errors.New("not found upstream")
	ErrInvalidResponse   = errors.New("invalid remote response")
	ErrStoreTransaction  = errors.New("store transaction failed")
	ErrConfiguration     = errors.New("configuration error")
	ErrStorage           = errors.New("storage error")
)

// Wrap builds an error message that includes operation context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above; with a nil marker the detail is
// returned untagged.
func Wrap(marker error, operation, message string, err error) error {
	detail := buildDetail(operation, message)
	if marker == nil {
		if err != nil {
			return fmt.Errorf("%s: %w", detail, err)
		}
		return errors.New(detail)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Retryable reports whether retrying the operation that produced err can
// succeed without caller-side changes. Only remote transport failures and
// store transaction failures qualify; validation and not-found errors never
// do. Retry policy itself belongs to the caller.
func Retryable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable) || errors.Is(err, ErrStoreTransaction)
}

func buildDetail(operation, message string) string {
	parts := make([]string, 0, 2)
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "vault failure"
	}
	return strings.Join(parts, ": ")
}
