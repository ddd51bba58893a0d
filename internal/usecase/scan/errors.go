package scan

import "errors"

// ErrNoAdapters is returned by NewService when no source is enabled.
var ErrNoAdapters = errors.New("scan: no source adapters configured")

var errAdapterPanic = errors.New("adapter panic")
