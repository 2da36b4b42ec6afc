package ws

import "errors"

var errInvalidToken = errors.New("invalid token")
