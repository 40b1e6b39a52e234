package governor

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

const governorAddr = "0x408ED6354d4973f66138C91495F2f2FCbd8724C3"

// fakeBackend scripts the RPC surface the bound contract touches.
type fakeBackend struct {
	mu           sync.Mutex
	callReturn   []byte
	callErr      error
	lastCallData []byte
	sentTx       *gethtypes.Transaction
	receipts     []receiptStep
	receiptCalls int
}

type receiptStep struct {
	receipt *gethtypes.Receipt
	err     error
}

func (b *fakeBackend) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x01}, nil
}

func (b *fakeBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCallData = call.Data
	return b.callReturn, b.callErr
}

func (b *fakeBackend) HeaderByNumber(ctx context.Context, number *big.Int) (*gethtypes.Header, error) {
	return &gethtypes.Header{}, nil
}

func (b *fakeBackend) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x01}, nil
}

func (b *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, nil
}

func (b *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1), nil
}

func (b *fakeBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100000, nil
}

func (b *fakeBackend) SendTransaction(ctx context.Context, tx *gethtypes.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sentTx = tx
	return nil
}

func (b *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*gethtypes.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.receiptCalls >= len(b.receipts) {
		return nil, ethereum.NotFound
	}
	step := b.receipts[b.receiptCalls]
	b.receiptCalls++
	return step.receipt, step.err
}

func newTestContract(t *testing.T, backend *fakeBackend) *Contract {
	t.Helper()
	c, err := New(governorAddr, backend, nil)
	require.NoError(t, err)
	c.pollInterval = time.Millisecond
	return c
}

func governorABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(governorABIJSON))
	require.NoError(t, err)
	return parsed
}

func TestNewValidation(t *testing.T) {
	_, err := New("not-an-address", &fakeBackend{}, nil)
	require.ErrorContains(t, err, "invalid governor address")

	_, err = New(governorAddr, nil, nil)
	require.ErrorContains(t, err, "backend required")

	c, err := New(governorAddr, &fakeBackend{}, nil)
	require.NoError(t, err)
	require.Equal(t, common.HexToAddress(governorAddr), c.Address())
}

func TestGetVotes(t *testing.T) {
	backend := &fakeBackend{
		callReturn: common.LeftPadBytes(big.NewInt(2500).Bytes(), 32),
	}
	c := newTestContract(t, backend)

	account := common.HexToAddress("0x1111111111111111111111111111111111111111")
	votes, err := c.GetVotes(context.Background(), account)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2500), votes)

	// The call data targets getVotes with the account argument.
	method := governorABI(t).Methods["getVotes"]
	require.Equal(t, method.ID, backend.lastCallData[:4])
}

func TestGetVotesError(t *testing.T) {
	backend := &fakeBackend{callErr: errors.New("rpc unavailable")}
	c := newTestContract(t, backend)

	_, err := c.GetVotes(context.Background(), common.Address{})
	require.ErrorContains(t, err, "getVotes")
}

func TestHasVoted(t *testing.T) {
	trueWord := make([]byte, 32)
	trueWord[31] = 1
	backend := &fakeBackend{callReturn: trueWord}
	c := newTestContract(t, backend)

	voted, err := c.HasVoted(context.Background(), big.NewInt(7), common.Address{})
	require.NoError(t, err)
	require.True(t, voted)

	_, err = c.HasVoted(context.Background(), nil, common.Address{})
	require.ErrorContains(t, err, "proposal id required")
}

func TestCastVoteEncodesSupport(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestContract(t, backend)

	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	opts := &bind.TransactOpts{
		From:     from,
		Nonce:    big.NewInt(1),
		GasPrice: big.NewInt(1),
		GasLimit: 100000,
		Signer: func(addr common.Address, tx *gethtypes.Transaction) (*gethtypes.Transaction, error) {
			return tx, nil
		},
	}

	tx, err := c.CastVote(opts, big.NewInt(7), 2)
	require.NoError(t, err)
	require.NotNil(t, tx)
	require.NotNil(t, backend.sentTx)

	method := governorABI(t).Methods["castVote"]
	data := backend.sentTx.Data()
	require.Equal(t, method.ID, data[:4])
	args, err := method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Equal(t, big.NewInt(7), args[0])
	require.Equal(t, uint8(2), args[1])
}

func TestCastVoteValidation(t *testing.T) {
	c := newTestContract(t, &fakeBackend{})
	_, err := c.CastVote(nil, big.NewInt(1), 1)
	require.ErrorContains(t, err, "transact opts required")
	_, err = c.CastVote(&bind.TransactOpts{}, nil, 1)
	require.ErrorContains(t, err, "proposal id required")
}

func TestWaitConfirmedPollsUntilMined(t *testing.T) {
	backend := &fakeBackend{receipts: []receiptStep{
		{err: ethereum.NotFound},
		{err: ethereum.NotFound},
		{receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusSuccessful}},
	}}
	c := newTestContract(t, backend)

	err := c.WaitConfirmed(context.Background(), common.HexToHash("0x01"))
	require.NoError(t, err)
	require.Equal(t, 3, backend.receiptCalls)
}

func TestWaitConfirmedRevertedIsError(t *testing.T) {
	backend := &fakeBackend{receipts: []receiptStep{
		{receipt: &gethtypes.Receipt{Status: gethtypes.ReceiptStatusFailed}},
	}}
	c := newTestContract(t, backend)

	err := c.WaitConfirmed(context.Background(), common.HexToHash("0x02"))
	require.ErrorContains(t, err, "reverted")
}

func TestWaitConfirmedContextCancel(t *testing.T) {
	// No receipt ever appears; cancellation must end the poll.
	backend := &fakeBackend{}
	c := newTestContract(t, backend)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := c.WaitConfirmed(ctx, common.HexToHash("0x03"))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
