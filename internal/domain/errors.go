package domain

import "errors"

var (
	ErrStatisticLimit      = errors.New("statistic limit reached")
	ErrUnknownTheme        = errors.New("unknown theme")
	ErrSubmissionInFlight  = errors.New("submission already in flight")
	ErrJobNotFound         = errors.New("job not found")
	ErrJobNotCompleted     = errors.New("job not completed")
	ErrInsufficientCredits = errors.New("insufficient credits")
)
