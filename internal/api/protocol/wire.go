// Package protocol defines the fixed-size binary blocks exchanged with
// clients. There is no framing delimiter and no version negotiation: every
// request and response is one block whose exact byte layout must match on
// both ends, little-endian throughout. Changing any field's size breaks the
// protocol.
package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Op is the operation code carried in every request.
type Op int32

const (
	// Shared operations.
	OpLogin          Op = 1
	OpChangePassword Op = 2
	OpLogout         Op = 3
	OpExit           Op = 4

	// Customer operations.
	OpCustViewBalance Op = 11
	OpCustDeposit     Op = 12
	OpCustWithdraw    Op = 13
	OpCustTransfer    Op = 14
	OpCustApplyLoan   Op = 15
	OpCustAddFeedback Op = 17
	OpCustViewHistory Op = 18

	// Employee operations.
	OpEmpAddCustomer       Op = 21
	OpEmpModCustomer       Op = 22
	OpEmpProcessLoan       Op = 23
	OpEmpViewCustTx        Op = 24
	OpEmpViewAssignedLoans Op = 25

	// Manager operations.
	OpMgrActivateUser     Op = 31
	OpMgrDeactivateUser   Op = 32
	OpMgrAssignLoan       Op = 33
	OpMgrReviewFeedback   Op = 34
	OpMgrViewPendingLoans Op = 35
	OpMgrViewUserList     Op = 36

	// Admin operations.
	OpAdminAddUser      Op = 41
	OpAdminModUser      Op = 42
	OpAdminViewUserList Op = 44
)

// Field and list capacities. List payloads carry at most the capacity; the
// count field still reports the true total matched.
const (
	UsernameLen = 32
	PasswordLen = 72
	NameLen     = 64
	MessageLen  = 256
	TxTypeLen   = 16
	StatusLen   = 12
	FeedbackLen = 240

	RequestPayloadLen  = 512
	ResponsePayloadLen = 16384

	MaxTransactions = 50
	MaxLoans        = 20
	MaxFeedback     = 50
	MaxUsers        = 50
)

// Request is the client-to-server block. UserID is populated by the server
// from the connection's session; a value sent by the client is ignored.
// Payload interpretation depends on Op.
type Request struct {
	Op       Op
	UserID   int32
	Username [UsernameLen]byte
	Password [PasswordLen]byte
	Role     int32
	Payload  [RequestPayloadLen]byte
}

// Response is the server-to-client block. Payload interpretation depends on
// the Op of the request it answers.
type Response struct {
	Success int32
	Message [MessageLen]byte
	Payload [ResponsePayloadLen]byte
}

var (
	RequestSize  = binary.Size(Request{})
	ResponseSize = binary.Size(Response{})
)

// ReadRequest reads exactly one request block.
func ReadRequest(r io.Reader) (*Request, error) {
	var req Request
	if err := binary.Read(r, binary.LittleEndian, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// WriteRequest writes exactly one request block.
func WriteRequest(w io.Writer, req *Request) error {
	return binary.Write(w, binary.LittleEndian, req)
}

// ReadResponse reads exactly one response block.
func ReadResponse(r io.Reader) (*Response, error) {
	var res Response
	if err := binary.Read(r, binary.LittleEndian, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// WriteResponse writes exactly one response block.
func WriteResponse(w io.Writer, res *Response) error {
	return binary.Write(w, binary.LittleEndian, res)
}

// MarshalPayload encodes v into dst, NUL padding the remainder. It fails if
// the encoding does not fit, which would mean the payload area was sized
// wrong for the block.
func MarshalPayload(dst []byte, v any) error {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("protocol: marshal payload: %w", err)
	}
	if buf.Len() > len(dst) {
		return fmt.Errorf("protocol: payload is %d bytes, area holds %d", buf.Len(), len(dst))
	}
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, buf.Bytes())
	return nil
}

// UnmarshalPayload decodes v from the front of src.
func UnmarshalPayload(src []byte, v any) error {
	if err := binary.Read(bytes.NewReader(src), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("protocol: unmarshal payload: %w", err)
	}
	return nil
}

// PutString copies s into dst truncated to fit, NUL padding the remainder.
func PutString(dst []byte, s string) {
	for i := range dst {
		dst[i] = 0
	}
	copy(dst, s)
}

// CString returns the bytes of b up to the first NUL.
func CString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// UsernameString returns the request's username field as a Go string.
func (r *Request) UsernameString() string { return CString(r.Username[:]) }

// PasswordString returns the request's password field as a Go string.
func (r *Request) PasswordString() string { return CString(r.Password[:]) }
