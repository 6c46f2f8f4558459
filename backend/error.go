// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

import "errors"

// ErrUnsupported is returned by a Backend method the concrete backend does
// not implement (e.g. a noop backend asked to read buffer contents back).
var ErrUnsupported = errors.New("backend: operation not supported by this backend")
