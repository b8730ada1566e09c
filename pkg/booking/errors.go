package booking

import "errors"

var (
	ErrInvalidLoginCode   = errors.New("booking: login code must be exactly 4 digits")
	ErrIdentityMismatch   = errors.New("booking: login code does not match the signed-in user")
	ErrNotPermitted       = errors.New("booking: not permitted for this role")
	ErrInvalidTarget      = errors.New("booking: target cannot be booked by this user")
	ErrInvalidDate        = errors.New("booking: invalid date, use DD/MM/YY")
	ErrInvalidTime        = errors.New("booking: invalid time, use HH:mm (24-hour)")
	ErrOutsideWindow      = errors.New("booking: time is outside the bookable window")
	ErrEmptyReport        = errors.New("booking: report content is empty")
	ErrDuplicateLoginCode = errors.New("booking: login code is already in use")
)
