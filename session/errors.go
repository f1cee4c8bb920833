package session

// rpcError carries a JSON-RPC error code alongside its message so a feature
// request against an unopened document surfaces as InvalidRequest instead
// of the transport's default Internal Error.
type rpcError struct {
	code    int
	message string
}

func (e *rpcError) Error() string { return e.message }

// Code exposes the JSON-RPC error code for transports that look for it via
// duck typing (an unexported method would hide it from reflection-based
// callers, so this stays exported).
func (e *rpcError) Code() int { return e.code }

const codeInvalidRequest = -32600

func invalidRequestError(err error) error {
	return &rpcError{code: codeInvalidRequest, message: err.Error()}
}
