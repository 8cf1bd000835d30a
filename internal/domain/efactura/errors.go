package efactura

import "errors"

// ErrValidation groups every invoice-input validation failure. Callers test
// with errors.Is; the wrapped message names the first offending field or the
// 1-based line index.
var ErrValidation = errors.New("efactura: invalid invoice input")
