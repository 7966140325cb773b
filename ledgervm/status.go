// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledgervm

import "fmt"

// StatusCode is the consensus visible result of running a transaction
type StatusCode uint64

const (
	StatusExecuted StatusCode = 4001
	StatusAborted  StatusCode = 4016
)

// InsufficientBalanceSubStatus is the abort code the coin contract uses for
// an insufficient balance.
const InsufficientBalanceSubStatus uint64 = 10

func (c StatusCode) String() string {
	switch c {
	case StatusExecuted:
		return "EXECUTED"
	case StatusAborted:
		return "ABORTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint64(c))
	}
}

// VMStatus is a status code with an optional sub status
type VMStatus struct {
	Code      StatusCode `json:"code"`
	SubStatus *uint64    `json:"subStatus,omitempty"`
}

func NewVMStatus(code StatusCode) VMStatus {
	return VMStatus{Code: code}
}

// WithSubStatus returns a copy of [s] carrying [subStatus]
func (s VMStatus) WithSubStatus(subStatus uint64) VMStatus {
	s.SubStatus = &subStatus
	return s
}

func (s VMStatus) String() string {
	if s.SubStatus == nil {
		return s.Code.String()
	}
	return fmt.Sprintf("%s(%d)", s.Code, *s.SubStatus)
}

// TransactionStatus says whether a transaction stays in the ledger
type TransactionStatus struct {
	Discard bool     `json:"discard"`
	Status  VMStatus `json:"status"`
}

// Keep means the transaction and its effects are retained in the ledger.
func Keep(s VMStatus) TransactionStatus {
	return TransactionStatus{Status: s}
}

// Discard means the transaction is excluded from the block entirely.
func Discard(s VMStatus) TransactionStatus {
	return TransactionStatus{Discard: true, Status: s}
}

// KeepStatus is Keep(EXECUTED)
func KeepStatus() TransactionStatus {
	return Keep(NewVMStatus(StatusExecuted))
}

// DiscardStatus is Discard(ABORTED, 10)
func DiscardStatus() TransactionStatus {
	return Discard(NewVMStatus(StatusAborted).WithSubStatus(InsufficientBalanceSubStatus))
}

func (s TransactionStatus) String() string {
	if s.Discard {
		return fmt.Sprintf("Discard(%s)", s.Status)
	}
	return fmt.Sprintf("Keep(%s)", s.Status)
}
