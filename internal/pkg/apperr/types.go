package apperr

import "fmt"

const (
	invalidArgumentCode = "INVALID_ARGUMENT"
	internalErrorCode   = "INTERNAL_ERROR"
	configCode          = "CONFIG_ERROR"
	chainReadCode       = "CHAINREAD_ERROR"
	contractCallCode    = "CONTRACT_ERROR"
	orderCheckCode      = "ORDERCHECK_ERROR"
	cacheCode           = "CACHE_ERROR"
)

type messageCause struct {
	Msg   string
	Cause error
}

func (e *messageCause) Message() string   { return e.Msg }
func (e *messageCause) CauseError() error { return e.Cause }
func (e *messageCause) Unwrap() error     { return e.Cause }

func formatError(code, msg string, cause error) string {
	if cause != nil {
		return fmt.Sprintf("[%s] %s: %v", code, msg, cause)
	}
	return fmt.Sprintf("[%s] %s", code, msg)
}

type InvalidArgErr struct {
	messageCause
}

func NewInvalidArgErr(msg string, cause error) *InvalidArgErr {
	return &InvalidArgErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *InvalidArgErr) Error() string { return formatError(invalidArgumentCode, e.Msg, e.Cause) }
func (e *InvalidArgErr) Code() string  { return invalidArgumentCode }

type InternalErr struct {
	messageCause
}

func NewInternalErr(msg string, cause error) *InternalErr {
	return &InternalErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *InternalErr) Error() string { return formatError(internalErrorCode, e.Msg, e.Cause) }
func (e *InternalErr) Code() string  { return internalErrorCode }

// ConfigErr marks fatal configuration problems such as a malformed contract
// info file or a missing network entry.
type ConfigErr struct {
	messageCause
}

func NewConfigErr(msg string, cause error) *ConfigErr {
	return &ConfigErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *ConfigErr) Error() string { return formatError(configCode, e.Msg, e.Cause) }
func (e *ConfigErr) Code() string  { return configCode }

// ChainReadErr wraps failures while fetching blocks or transactions from the
// RPC node.
type ChainReadErr struct {
	messageCause
}

func NewChainReadErr(msg string, cause error) *ChainReadErr {
	return &ChainReadErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *ChainReadErr) Error() string { return formatError(chainReadCode, e.Msg, e.Cause) }
func (e *ChainReadErr) Code() string  { return chainReadCode }

// ContractCallErr wraps failures of read-only contract calls, including ABI
// encoding and decoding problems.
type ContractCallErr struct {
	messageCause
}

func NewContractCallErr(msg string, cause error) *ContractCallErr {
	return &ContractCallErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *ContractCallErr) Error() string { return formatError(contractCallCode, e.Msg, e.Cause) }
func (e *ContractCallErr) Code() string  { return contractCallCode }

type OrderCheckErr struct {
	messageCause
}

func NewOrderCheckErr(msg string, cause error) *OrderCheckErr {
	return &OrderCheckErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *OrderCheckErr) Error() string { return formatError(orderCheckCode, e.Msg, e.Cause) }
func (e *OrderCheckErr) Code() string  { return orderCheckCode }

type CacheErr struct {
	messageCause
}

func NewCacheErr(msg string, cause error) *CacheErr {
	return &CacheErr{messageCause: messageCause{Msg: msg, Cause: cause}}
}

func (e *CacheErr) Error() string { return formatError(cacheCode, e.Msg, e.Cause) }
func (e *CacheErr) Code() string  { return cacheCode }
