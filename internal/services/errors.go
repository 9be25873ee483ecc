package services

import "errors"

var (
	// ErrQuotaExceeded is returned when the user's daily allowance is spent.
	ErrQuotaExceeded = errors.New("günlük yapay zeka kullanım limitine ulaşıldı")
	// ErrForbidden is returned when the requester may not touch the target
	// student's data.
	ErrForbidden = errors.New("bu veriye erişim yetkiniz yok")
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrMissingAPIKey means the provider credential is configured nowhere.
	ErrMissingAPIKey = errors.New("ai provider api key is not configured")
)
