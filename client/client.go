// (c) 2019-2020, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/rpc"

	"github.com/ava-labs/ledgervm/ledgervm"
)

// Client defines ledgervm client operations.
type Client interface {
	// GetAccount fetches the account resource of [addr]. The bool is false if
	// the account doesn't exist.
	GetAccount(ctx context.Context, addr ids.ShortID) (*ledgervm.AccountResource, bool, error)

	// IssueTransaction submits [tx] for execution and returns its outcome
	IssueTransaction(ctx context.Context, tx ledgervm.Transaction) (*ledgervm.IssueTransactionReply, error)
}

// New creates a new client object.
// [uri] is the node's address (e.g. http://127.0.0.1:9650), [endpoint] the
// path the VM's handler is served on.
func New(uri, endpoint string) Client {
	req := rpc.NewEndpointRequester(uri, endpoint, "ledger")
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

func (cli *client) GetAccount(ctx context.Context, addr ids.ShortID) (*ledgervm.AccountResource, bool, error) {
	resp := new(ledgervm.GetAccountReply)
	err := cli.req.SendRequest(ctx,
		"getAccount",
		&ledgervm.GetAccountArgs{Address: addr},
		resp,
	)
	if err != nil {
		return nil, false, err
	}
	if !resp.Exists {
		return nil, false, nil
	}
	return ledgervm.NewAccountResource(
		uint64(resp.Balance),
		uint64(resp.SequenceNumber),
		resp.AuthenticationKey,
	), true, nil
}

func (cli *client) IssueTransaction(ctx context.Context, tx ledgervm.Transaction) (*ledgervm.IssueTransactionReply, error) {
	txBytes, err := ledgervm.TransactionBytes(tx)
	if err != nil {
		return nil, err
	}
	txStr, err := formatting.EncodeWithChecksum(formatting.Hex, txBytes)
	if err != nil {
		return nil, err
	}

	resp := new(ledgervm.IssueTransactionReply)
	err = cli.req.SendRequest(ctx,
		"issueTransaction",
		&ledgervm.IssueTransactionArgs{Tx: txStr},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
