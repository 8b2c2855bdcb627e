package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/logging"
)

// internalError logs err under op and returns the opaque common.ErrorInternal,
// so storage and crypto details never reach callers. An err that already is
// ErrorInternal was logged where it happened.
func internalError(ctx context.Context, log logging.Logger, op string, err error) error {
	if !errors.Is(err, common.ErrorInternal) {
		log.Error(ctx, "operation failed", "op", op, "err", err)
	}
	return common.ErrorInternal
}

// passThrough returns err unchanged when it is one of known, otherwise the
// logged ErrorInternal.
func passThrough(ctx context.Context, log logging.Logger, op string, err error, known ...error) error {
	for _, k := range known {
		if errors.Is(err, k) {
			return k
		}
	}
	return internalError(ctx, log, op, err)
}
