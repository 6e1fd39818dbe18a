// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package executor

import "errors"

// ErrStopped is returned by [Executor.Wait] when the batch was abandoned
// before every task ran.
var ErrStopped = errors.New("executor stopped before the batch completed")
