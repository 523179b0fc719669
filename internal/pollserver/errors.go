package pollserver

import (
	"errors"
	"net/http"
)

// kind classifies a handler failure into the coarse categories the relay
// maps to transport status codes. The core itself doesn't assume HTTP;
// this file is where that mapping happens, at the transport boundary.
type kind uint8

const (
	kindNone kind = iota
	kindMalformedInput
	kindCryptoFailure
	kindTransportFailure
	kindResourceExhausted
	kindProtocolState
)

// handlerError pairs a failure with the kind used to pick its status code.
type handlerError struct {
	k   kind
	err error
}

func (e *handlerError) Error() string {
	if e.err == nil {
		return "pollserver: handler error"
	}
	return e.err.Error()
}

func (e *handlerError) Unwrap() error {
	return e.err
}

func errMalformed(err error) error         { return &handlerError{kindMalformedInput, err} }
func errCrypto(err error) error            { return &handlerError{kindCryptoFailure, err} }
func errTransport(err error) error         { return &handlerError{kindTransportFailure, err} }
func errResourceExhausted(err error) error { return &handlerError{kindResourceExhausted, err} }
func errProtocolState(err error) error     { return &handlerError{kindProtocolState, err} }

// statusFor maps a handler error to the coarse HTTP status the long-poll
// transport assigns it: 404 for unknown token, 400 for malformed upload
// bodies, 502 for upstream connect failure, 429 for rate-limit
// rejection, and 500 for anything else (including AEAD/crypto failures,
// which aren't one of the named kinds). Authenticator failures never
// reach statusFor; the auth middleware answers them with 401 itself.
func statusFor(err error) int {
	var he *handlerError
	if !errors.As(err, &he) {
		return http.StatusInternalServerError
	}
	switch he.k {
	case kindMalformedInput:
		return http.StatusBadRequest
	case kindTransportFailure:
		return http.StatusBadGateway
	case kindResourceExhausted:
		return http.StatusTooManyRequests
	case kindProtocolState:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
