package worksettings

import "errors"

var ErrInvalidDate = errors.New("date is outside the valid calendar range")
