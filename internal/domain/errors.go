package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFetch marks failures to fetch or extract the listing page.
	ErrFetch = errors.New("fetch topics")
	// ErrPersistence marks failures to read or write the seen-set snapshot.
	ErrPersistence = errors.New("persist seen topics")
)

var (
	// ErrDelivery marks a failed attempt to forward a topic downstream.
	ErrDelivery = errors.New("deliver topic")
	// ErrRateLimited is the ErrDelivery variant for 429 responses.
	ErrRateLimited = fmt.Errorf("%w: rate limited", ErrDelivery)
)
