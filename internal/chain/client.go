package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ethereum/go-ethereum/rpc"
)

// AccountState is the activity snapshot of one address.
type AccountState struct {
	TxCount    uint64
	BalanceETH float64
}

// Client wraps go-ethereum RPC for read-only account lookups.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
	timeout   time.Duration
}

// NewClient creates a chain client from the RPC URL. The timeout bounds
// every account-state call issued through the client.
func NewClient(ctx context.Context, rpcURL string, timeout time.Duration) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
		timeout:   timeout,
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// AccountState returns the transaction count and balance for an address
// at the latest block. Both reads share one deadline so a stalled node
// cannot hold the enrichment join past the configured timeout.
func (c *Client) AccountState(ctx context.Context, address string) (AccountState, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	addr := common.HexToAddress(address)

	nonce, err := c.ethClient.NonceAt(ctx, addr, nil)
	if err != nil {
		return AccountState{}, err
	}

	balance, err := c.ethClient.BalanceAt(ctx, addr, nil)
	if err != nil {
		return AccountState{}, err
	}

	return AccountState{
		TxCount:    nonce,
		BalanceETH: weiToETH(balance),
	}, nil
}

func weiToETH(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	eth, _ := new(big.Float).Quo(
		new(big.Float).SetInt(wei),
		new(big.Float).SetInt64(params.Ether),
	).Float64()
	return eth
}

// ValidAddress reports whether s looks like a hex chain address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}
