package errno

import (
	"errors"
	"net/http"
)

// Errno defines the error code logic
// HTTP 为对外返回的状态码，Code 为业务错误码
type Errno struct {
	Code    int
	HTTP    int
	Message string
	Detail  interface{}
}

func (e Errno) Error() string {
	return e.Message
}

// Is 按业务码比较，WithMessage / WithDetail 派生出的错误仍然匹配原始错误
func (e Errno) Is(target error) bool {
	switch t := target.(type) {
	case Errno:
		return e.Code == t.Code
	case *Errno:
		return t != nil && e.Code == t.Code
	}
	return false
}

// WithMessage 返回替换了描述信息的副本
func (e Errno) WithMessage(msg string) Errno {
	e.Message = msg
	return e
}

// WithDetail 返回附带上下文数据的副本 (例如重复资金交易对应的 grantId)
func (e Errno) WithDetail(detail interface{}) Errno {
	e.Detail = detail
	return e
}

// Decode tries to convert an error to Errno
// 未知错误统一映射为 500，消息透传
func Decode(err error) Errno {
	if err == nil {
		return OK
	}

	var typed Errno
	if errors.As(err, &typed) {
		if typed.HTTP == 0 {
			typed.HTTP = http.StatusInternalServerError
		}
		return typed
	}

	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return Decode(*ptr)
	}

	return InternalServerError.WithMessage(err.Error())
}

// Common Errors
var (
	OK                  = Errno{Code: 0, HTTP: http.StatusOK, Message: "Success"}
	InternalServerError = Errno{Code: 10001, HTTP: http.StatusInternalServerError, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, HTTP: http.StatusBadRequest, Message: "Error occurred while binding the request body to the struct"}
	ErrNotFound         = Errno{Code: 10003, HTTP: http.StatusNotFound, Message: "Not found"}
	ErrBodyTooLarge     = Errno{Code: 10004, HTTP: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
)

// Grant Errors (20000+)
var (
	ErrMissingField            = Errno{Code: 20001, HTTP: http.StatusBadRequest, Message: "recipient and txHash are required"}
	ErrInvalidAddress          = Errno{Code: 20002, HTTP: http.StatusBadRequest, Message: "Invalid address"}
	ErrInvalidAmount           = Errno{Code: 20003, HTTP: http.StatusBadRequest, Message: "Invalid amount"}
	ErrDuplicateFunding        = Errno{Code: 20004, HTTP: http.StatusBadRequest, Message: "Funding transaction already used for a grant"}
	ErrGrantInProgress         = Errno{Code: 20005, HTTP: http.StatusConflict, Message: "Funding transaction is being processed"}
	ErrTxNotFound              = Errno{Code: 20101, HTTP: http.StatusBadRequest, Message: "Funding transaction not found"}
	ErrTxNotConfirmed          = Errno{Code: 20102, HTTP: http.StatusBadRequest, Message: "Funding transaction not confirmed"}
	ErrWrongDestination        = Errno{Code: 20103, HTTP: http.StatusBadRequest, Message: "Funding transaction was not sent to the treasury"}
	ErrDistributionUnavailable = Errno{Code: 20201, HTTP: http.StatusServiceUnavailable, Message: "Distribution signer not configured"}
	ErrDistributionFailed      = Errno{Code: 20202, HTTP: http.StatusInternalServerError, Message: "Distribution transfer failed"}
	ErrGrantNotFound           = Errno{Code: 20301, HTTP: http.StatusNotFound, Message: "Grant not found"}
)

// Whitelist Errors (30000+)
var (
	ErrMissingAddress = Errno{Code: 30001, HTTP: http.StatusBadRequest, Message: "Wallet address required"}
	ErrForbidden      = Errno{Code: 30002, HTTP: http.StatusForbidden, Message: "Address is not whitelisted"}
)
