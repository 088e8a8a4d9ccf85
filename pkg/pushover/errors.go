package pushover

import (
	"errors"
	"fmt"
)

// Kind classifies a failed Send.
type Kind uint8

const (
	// KindRejectedByServer means Pushover answered with a status other than 200.
	KindRejectedByServer Kind = iota + 1
	// KindTransport means the HTTP exchange itself could not be completed.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindRejectedByServer:
		return "server rejected message"
	case KindTransport:
		return "transport error"
	default:
		return "unknown"
	}
}

var (
	ErrRejectedByServer = errors.New("pushover: server rejected message")
	ErrTransport        = errors.New("pushover: transport error")
)

// SendError describes a request that reached the transport and failed.
type SendError struct {
	Kind       Kind
	StatusCode int   // set for KindRejectedByServer
	Err        error // set for KindTransport
}

func (e *SendError) Error() string {
	if e.Kind == KindRejectedByServer {
		return fmt.Sprintf("pushover: server rejected message: status %d", e.StatusCode)
	}
	return fmt.Sprintf("pushover: transport error: %v", e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Is lets callers match on ErrRejectedByServer or ErrTransport.
func (e *SendError) Is(target error) bool {
	switch target {
	case ErrRejectedByServer:
		return e.Kind == KindRejectedByServer
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

func rejected(status int) error {
	return &SendError{Kind: KindRejectedByServer, StatusCode: status}
}

func transport(err error) error {
	return &SendError{Kind: KindTransport, Err: err}
}
